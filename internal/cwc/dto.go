package cwc

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// CreateRequest is used in POST /cwc-requests
type CreateRequest struct {
	EPCID           uint            `json:"epcId" validate:"required"`
	RequestedAmount decimal.Decimal `json:"requestedAmount"`
	TenureDays      int             `json:"tenureDays" validate:"required"`
	Purpose         string          `json:"purpose,omitempty" validate:"max=500"`
}

// QuoteRequest is used in POST /cwc-requests/{id}/quote
type QuoteRequest struct {
	InterestRate decimal.Decimal `json:"interestRate"`
	QuotedAmount decimal.Decimal `json:"quotedAmount"`
}

// RejectRequest is used in POST /cwc-requests/{id}/reject
type RejectRequest struct {
	Note string `json:"note,omitempty" validate:"max=500"`
}

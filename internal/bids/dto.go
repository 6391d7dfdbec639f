package bids

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// PlaceBidRequest is used in POST /bids. Amount and duration carry no
// validator tags: non-positive terms are classified by PlaceBid as
// INVALID_AMOUNT, not as a payload validation failure.
type PlaceBidRequest struct {
	CaseID              uint            `json:"caseId" validate:"required"`
	BidAmount           decimal.Decimal `json:"bidAmount"`
	FundingDurationDays int             `json:"fundingDurationDays"`
}

// NegotiateRequest is used in POST /bids/{id}/negotiate.
// Duration is optional; when omitted the duration currently on the table is
// kept.
type NegotiateRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Duration *int            `json:"duration,omitempty"`
	Message  string          `json:"message,omitempty" validate:"max=500"`
}

// RespondRequest is used in POST /bids/{id}/respond
type RespondRequest struct {
	Decision Decision `json:"decision" validate:"required,oneof=accept reject"`
}

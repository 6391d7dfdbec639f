package bills

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// CreateBillRequest is used in POST /bills
type CreateBillRequest struct {
	EPCID    uint            `json:"epcId" validate:"required"`
	Amount   decimal.Decimal `json:"amount"`
	FileURL  string          `json:"fileUrl" validate:"required,url"`
	FileName string          `json:"fileName" validate:"required"`
}

// ReviewBillRequest is used in PUT /bills/{id}/review
type ReviewBillRequest struct {
	Decision string `json:"decision" validate:"required,oneof=start approve reject"`
	Note     string `json:"note,omitempty" validate:"max=500"`
}

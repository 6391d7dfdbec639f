package cwc

import (
	"fmt"
	"time"

	"github.com/Grylink/api-finance/internal/models"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusRequested     Status = "REQUESTED"
	StatusBuyerVerified Status = "BUYER_VERIFIED"
	StatusQuoted        Status = "QUOTED"
	StatusRejected      Status = "REJECTED"
)

// Request is a sub-contractor's working-capital (CWC) funding request. It
// moves REQUESTED → BUYER_VERIFIED → QUOTED, with REJECTED reachable from
// either non-terminal state. Quotation fields are set if and only if the
// request is QUOTED.
type Request struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	SubContractorID uint            `gorm:"not null;index" json:"subContractorId"`
	EPCID           uint            `gorm:"not null;index" json:"epcId"`
	RequestedAmount decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"requestedAmount"`
	TenureDays      int             `gorm:"not null" json:"tenureDays"`
	Purpose         string          `gorm:"size:500" json:"purpose,omitempty"`
	Status          Status          `gorm:"size:32;not null" json:"status"`

	NBFCID       *uint            `gorm:"index" json:"nbfcId,omitempty"`
	InterestRate *decimal.Decimal `gorm:"type:numeric(6,3)" json:"interestRate,omitempty"`
	QuotedAmount *decimal.Decimal `gorm:"type:numeric(14,2)" json:"quotedAmount,omitempty"`
	QuotedAt     *time.Time       `json:"quotedAt,omitempty"`

	RejectionNote string    `gorm:"size:500" json:"rejectionNote,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Verify is the buyer's confirmation that the requested working capital
// relates to real awarded work.
func (q *Request) Verify() error {
	if q.Status != StatusRequested {
		return models.ErrInvalidStateTransition(
			fmt.Sprintf("cannot verify a request in status %s", q.Status))
	}
	q.Status = StatusBuyerVerified
	return nil
}

// Quote attaches NBFC terms to a buyer-verified request.
func (q *Request) Quote(nbfcID uint, rate, amount decimal.Decimal, now time.Time) error {
	if q.Status != StatusBuyerVerified {
		return models.ErrInvalidStateTransition(
			fmt.Sprintf("cannot quote a request in status %s", q.Status))
	}
	if !rate.IsPositive() || !amount.IsPositive() {
		return models.ErrInvalidAmount("interest rate and quoted amount must be positive")
	}
	q.NBFCID = &nbfcID
	q.InterestRate = &rate
	q.QuotedAmount = &amount
	q.QuotedAt = &now
	q.Status = StatusQuoted
	return nil
}

// Reject closes the request from either non-terminal state.
func (q *Request) Reject(note string) error {
	if q.Status != StatusRequested && q.Status != StatusBuyerVerified {
		return models.ErrInvalidStateTransition(
			fmt.Sprintf("cannot reject a request in status %s", q.Status))
	}
	q.Status = StatusRejected
	q.RejectionNote = note
	return nil
}

package bills

import (
	"fmt"
	"time"

	"github.com/Grylink/api-finance/internal/models"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusUploaded    Status = "UPLOADED"
	StatusUnderReview Status = "UNDER_REVIEW"
	StatusEPCVerified Status = "EPC_VERIFIED"
	StatusRejected    Status = "REJECTED"
)

// Bill is a sub-contractor's invoice against an EPC. Clearing EPC
// verification spawns a financeable case.
type Bill struct {
	ID              uint              `gorm:"primaryKey" json:"id"`
	ReferenceCode   string            `gorm:"size:64;uniqueIndex" json:"referenceCode"`
	SubContractorID uint              `gorm:"not null;index" json:"subContractorId"`
	EPCID           uint              `gorm:"not null;index" json:"epcId"`
	Amount          decimal.Decimal   `gorm:"type:numeric(14,2);not null" json:"amount"`
	Document        models.Attachment `gorm:"type:jsonb;serializer:json" json:"document"`
	Status          Status            `gorm:"size:32;not null" json:"status"`
	ReviewNote      string            `gorm:"size:500" json:"reviewNote,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// StartReview moves an uploaded bill into the EPC's review queue.
func (b *Bill) StartReview() error {
	if b.Status != StatusUploaded {
		return models.ErrInvalidStateTransition(
			fmt.Sprintf("cannot start review of a bill in status %s", b.Status))
	}
	b.Status = StatusUnderReview
	return nil
}

// Settle resolves a review with verification or rejection.
func (b *Bill) Settle(approve bool, note string) error {
	if b.Status != StatusUnderReview && b.Status != StatusUploaded {
		return models.ErrInvalidStateTransition(
			fmt.Sprintf("cannot settle a bill in status %s", b.Status))
	}
	if approve {
		b.Status = StatusEPCVerified
	} else {
		b.Status = StatusRejected
	}
	b.ReviewNote = note
	return nil
}

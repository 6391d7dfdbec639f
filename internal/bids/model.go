package bids

import (
	"fmt"
	"time"

	"github.com/Grylink/api-finance/internal/models"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusSubmitted             Status = "SUBMITTED"
	StatusNegotiationInProgress Status = "NEGOTIATION_IN_PROGRESS"
	StatusAccepted              Status = "ACCEPTED"
	StatusRejected              Status = "REJECTED"
	StatusCommercialLocked      Status = "COMMERCIAL_LOCKED"
)

// ProposerRole identifies which side of the case sent a counter-offer.
type ProposerRole string

const (
	ProposedByBuyer         ProposerRole = "buyer"
	ProposedBySubContractor ProposerRole = "subcontractor"
)

type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionReject Decision = "reject"
)

// Negotiation is one counter-offer round. Rows are append-only; ordering is
// by the server-assigned primary key, never by client clocks.
type Negotiation struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	BidID           uint            `gorm:"not null;index" json:"-"`
	ProposedByRole  ProposerRole    `gorm:"size:20;not null" json:"proposedByRole"`
	CounterAmount   decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"counterAmount"`
	CounterDuration int             `gorm:"not null" json:"counterDuration"`
	Message         string          `gorm:"size:500" json:"message,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// Bid is one funding offer from an EPC against a case. Bids are never
// deleted; rejected and locked ones stay for audit.
type Bid struct {
	ID                  uint            `gorm:"primaryKey" json:"id"`
	CaseID              uint            `gorm:"not null;index" json:"caseId"`
	EPCID               uint            `gorm:"not null;index" json:"epcId"`
	BidAmount           decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"bidAmount"`
	FundingDurationDays int             `gorm:"not null" json:"fundingDurationDays"`
	Status              Status          `gorm:"size:32;not null" json:"status"`
	Negotiations        []Negotiation   `gorm:"foreignKey:BidID;constraint:OnDelete:CASCADE" json:"negotiations"`

	// Locked terms, set if and only if Status is COMMERCIAL_LOCKED.
	FinalAmount   *decimal.Decimal `gorm:"type:numeric(14,2)" json:"finalAmount,omitempty"`
	FinalDuration *int             `json:"finalDuration,omitempty"`
	LockedAt      *time.Time       `json:"lockedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b *Bid) terminal() bool {
	return b.Status == StatusRejected || b.Status == StatusCommercialLocked
}

// EffectiveTerms returns the amount and duration currently on the table: the
// latest counter-offer when one exists, otherwise the original bid values.
func (b *Bid) EffectiveTerms() (decimal.Decimal, int) {
	if n := len(b.Negotiations); n > 0 {
		last := b.Negotiations[n-1]
		return last.CounterAmount, last.CounterDuration
	}
	return b.BidAmount, b.FundingDurationDays
}

// CounterOffer appends a negotiation round and moves the bid to
// NEGOTIATION_IN_PROGRESS (a no-op when it is already there). A nil duration
// keeps the duration currently on the table.
func (b *Bid) CounterOffer(role ProposerRole, amount decimal.Decimal, duration *int, message string, now time.Time) (*Negotiation, error) {
	if b.Status != StatusSubmitted && b.Status != StatusNegotiationInProgress {
		return nil, models.ErrInvalidStateTransition(
			fmt.Sprintf("cannot negotiate a bid in status %s", b.Status))
	}
	if !amount.IsPositive() {
		return nil, models.ErrInvalidAmount("counter amount must be positive")
	}
	if duration != nil && *duration <= 0 {
		return nil, models.ErrInvalidAmount("counter duration must be positive")
	}

	_, effDuration := b.EffectiveTerms()
	if duration != nil {
		effDuration = *duration
	}

	entry := Negotiation{
		BidID:           b.ID,
		ProposedByRole:  role,
		CounterAmount:   amount,
		CounterDuration: effDuration,
		Message:         message,
		CreatedAt:       now,
	}
	b.Negotiations = append(b.Negotiations, entry)
	b.Status = StatusNegotiationInProgress
	return &b.Negotiations[len(b.Negotiations)-1], nil
}

// Respond settles the current offer with an accept or reject.
func (b *Bid) Respond(decision Decision) error {
	if b.Status != StatusSubmitted && b.Status != StatusNegotiationInProgress {
		return models.ErrInvalidStateTransition(
			fmt.Sprintf("cannot respond to a bid in status %s", b.Status))
	}
	switch decision {
	case DecisionAccept:
		b.Status = StatusAccepted
	case DecisionReject:
		b.Status = StatusRejected
	default:
		return models.ErrValidationFailed("decision must be \"accept\" or \"reject\"")
	}
	return nil
}

// Lock finalizes the bid commercially: the effective terms are snapshotted
// into the locked fields and no further action is permitted on this bid.
func (b *Bid) Lock(now time.Time) error {
	if b.Status != StatusAccepted && b.Status != StatusNegotiationInProgress {
		return models.ErrInvalidStateTransition(
			fmt.Sprintf("cannot lock a bid in status %s", b.Status))
	}
	amount, duration := b.EffectiveTerms()
	b.FinalAmount = &amount
	b.FinalDuration = &duration
	b.LockedAt = &now
	b.Status = StatusCommercialLocked
	return nil
}

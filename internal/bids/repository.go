package bids

import (
	"errors"
	"time"

	"github.com/Grylink/api-finance/internal/cases"
	"github.com/Grylink/api-finance/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	PlaceBid(db *gorm.DB, epcID uint, req PlaceBidRequest) (*Bid, error)
	FindByID(db *gorm.DB, id uint) (*Bid, error)
	ListForCase(db *gorm.DB, caseID uint) ([]Bid, error)
	Negotiate(db *gorm.DB, bidID uint, role ProposerRole, req NegotiateRequest) (*Bid, error)
	Respond(db *gorm.DB, bidID uint, decision Decision) (*Bid, error)
	Lock(db *gorm.DB, bidID uint) (*Bid, error)
}

type repositoryImpl struct {
	caseRepo cases.Repository
}

func NewRepository() Repository {
	return &repositoryImpl{caseRepo: cases.NewRepository()}
}

// Every mutation below runs in a transaction and re-checks the bid status
// with a guarded UPDATE (WHERE status = <prior>). When two requests race on
// the same bid, the row lock serializes them and the loser fails the guard
// with INVALID_STATE_TRANSITION instead of overwriting the winner.

func (r *repositoryImpl) PlaceBid(db *gorm.DB, epcID uint, req PlaceBidRequest) (*Bid, error) {
	if !req.BidAmount.IsPositive() {
		return nil, models.ErrInvalidAmount("bid amount must be positive")
	}
	if req.FundingDurationDays <= 0 {
		return nil, models.ErrInvalidAmount("funding duration must be positive")
	}

	var bid Bid
	err := db.Transaction(func(tx *gorm.DB) error {
		var c cases.Case
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&c, req.CaseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound("case not found")
			}
			return err
		}
		if c.EPCID != epcID {
			return models.ErrNotAuthorized("caller is not the buyer on this case")
		}
		if !c.EligibleForBidding() {
			return models.ErrCaseNotEligible("case is not open for bidding")
		}

		bid = Bid{
			CaseID:              c.ID,
			EPCID:               epcID,
			BidAmount:           req.BidAmount,
			FundingDurationDays: req.FundingDurationDays,
			Status:              StatusSubmitted,
		}
		if err := tx.Create(&bid).Error; err != nil {
			return err
		}

		if c.Status == cases.StatusEPCVerified {
			if _, err := r.caseRepo.UpdateStatus(tx, c.ID, cases.StatusEPCVerified, cases.StatusBidPlaced); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &bid, nil
}

func (r *repositoryImpl) FindByID(db *gorm.DB, id uint) (*Bid, error) {
	var b Bid
	err := db.
		Preload("Negotiations", func(db *gorm.DB) *gorm.DB {
			return db.Order("negotiations.id")
		}).
		First(&b, id).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repositoryImpl) ListForCase(db *gorm.DB, caseID uint) ([]Bid, error) {
	var list []Bid
	err := db.
		Preload("Negotiations", func(db *gorm.DB) *gorm.DB {
			return db.Order("negotiations.id")
		}).
		Where("case_id = ?", caseID).
		Order("id").
		Find(&list).Error
	return list, err
}

// loadForUpdate takes the row lock on the bid and reads its negotiation log
// in server order.
func loadForUpdate(tx *gorm.DB, id uint) (*Bid, error) {
	var b Bid
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound("bid not found")
		}
		return nil, err
	}
	if err := tx.Where("bid_id = ?", id).Order("id").Find(&b.Negotiations).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// casStatus is the guarded status update. A zero row count means someone
// else transitioned the bid first.
func casStatus(tx *gorm.DB, id uint, prior Status, updates map[string]interface{}) error {
	res := tx.Model(&Bid{}).Where("id = ? AND status = ?", id, prior).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return models.ErrInvalidStateTransition("bid was updated concurrently, refetch and retry")
	}
	return nil
}

func (r *repositoryImpl) Negotiate(db *gorm.DB, bidID uint, role ProposerRole, req NegotiateRequest) (*Bid, error) {
	var out *Bid
	err := db.Transaction(func(tx *gorm.DB) error {
		b, err := loadForUpdate(tx, bidID)
		if err != nil {
			return err
		}
		prior := b.Status

		entry, err := b.CounterOffer(role, req.Amount, req.Duration, req.Message, time.Now().UTC())
		if err != nil {
			return err
		}

		if err := casStatus(tx, b.ID, prior, map[string]interface{}{"status": b.Status}); err != nil {
			return err
		}
		if err := tx.Create(entry).Error; err != nil {
			return err
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repositoryImpl) Respond(db *gorm.DB, bidID uint, decision Decision) (*Bid, error) {
	var out *Bid
	err := db.Transaction(func(tx *gorm.DB) error {
		b, err := loadForUpdate(tx, bidID)
		if err != nil {
			return err
		}
		prior := b.Status

		if err := b.Respond(decision); err != nil {
			return err
		}
		if err := casStatus(tx, b.ID, prior, map[string]interface{}{"status": b.Status}); err != nil {
			return err
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Lock finalizes the winning bid and, in the same transaction, rejects the
// sibling bids on the case and closes the case to further bidding. The
// one-locked-bid-per-case invariant is enforced at the case row: the case is
// locked FOR UPDATE before the bid (the same case-then-bid order PlaceBid
// uses, so sibling locks cannot deadlock) and its status is re-checked under
// that lock, so two callers locking different bids on one case serialize and
// the loser gets INVALID_STATE_TRANSITION.
func (r *repositoryImpl) Lock(db *gorm.DB, bidID uint) (*Bid, error) {
	var out *Bid
	err := db.Transaction(func(tx *gorm.DB) error {
		var ref Bid
		if err := tx.Select("id", "case_id").First(&ref, bidID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound("bid not found")
			}
			return err
		}

		var c cases.Case
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&c, ref.CaseID).Error; err != nil {
			return err
		}
		if c.Status == cases.StatusCommercialLocked {
			return models.ErrInvalidStateTransition("case already has a locked bid")
		}

		b, err := loadForUpdate(tx, bidID)
		if err != nil {
			return err
		}
		prior := b.Status

		if err := b.Lock(time.Now().UTC()); err != nil {
			return err
		}
		updates := map[string]interface{}{
			"status":         b.Status,
			"final_amount":   b.FinalAmount,
			"final_duration": b.FinalDuration,
			"locked_at":      b.LockedAt,
		}
		if err := casStatus(tx, b.ID, prior, updates); err != nil {
			return err
		}

		openStatuses := []Status{StatusSubmitted, StatusNegotiationInProgress, StatusAccepted}
		if err := tx.Model(&Bid{}).
			Where("case_id = ? AND id <> ? AND status IN ?", b.CaseID, b.ID, openStatuses).
			Update("status", StatusRejected).Error; err != nil {
			return err
		}

		won, err := r.caseRepo.UpdateStatus(tx, c.ID, c.Status, cases.StatusCommercialLocked)
		if err != nil {
			return err
		}
		if !won {
			return models.ErrInvalidStateTransition("case was updated concurrently, refetch and retry")
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

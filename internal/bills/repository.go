package bills

import (
	"errors"

	"github.com/Grylink/api-finance/internal/cases"
	"github.com/Grylink/api-finance/internal/models"
	"github.com/Grylink/api-finance/internal/subcontractor"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	Create(db *gorm.DB, b *Bill) error
	FindByID(db *gorm.DB, id uint) (*Bill, error)
	ListForSubContractor(db *gorm.DB, subContractorID uint) ([]Bill, error)
	ListForEPC(db *gorm.DB, epcID uint) ([]Bill, error)
	Review(db *gorm.DB, id uint, decision, note string) (*Bill, *cases.Case, error)
}

type repositoryImpl struct {
	caseRepo cases.Repository
}

func NewRepository() Repository {
	return &repositoryImpl{caseRepo: cases.NewRepository()}
}

// Create stores a freshly uploaded bill. Bills are only accepted from
// sub-contractors whose KYC slots have all been verified.
func (r *repositoryImpl) Create(db *gorm.DB, b *Bill) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var sc subcontractor.SubContractor
		if err := tx.First(&sc, b.SubContractorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound("sub-contractor not found")
			}
			return err
		}
		if !sc.KYCComplete() {
			return models.ErrNotAuthorized("KYC verification must be complete before uploading bills")
		}
		if b.ReferenceCode == "" {
			b.ReferenceCode = uuid.New().String()
		}
		b.Status = StatusUploaded
		return tx.Create(b).Error
	})
}

func (r *repositoryImpl) FindByID(db *gorm.DB, id uint) (*Bill, error) {
	var b Bill
	if err := db.First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repositoryImpl) ListForSubContractor(db *gorm.DB, subContractorID uint) ([]Bill, error) {
	var list []Bill
	err := db.Where("sub_contractor_id = ?", subContractorID).Order("id").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) ListForEPC(db *gorm.DB, epcID uint) ([]Bill, error) {
	var list []Bill
	err := db.Where("epc_id = ?", epcID).Order("id").Find(&list).Error
	return list, err
}

// Review applies a review decision under a row lock and a guarded status
// update, so two reviewers racing on the same bill cannot both settle it.
// Approval creates the case in the same transaction.
func (r *repositoryImpl) Review(db *gorm.DB, id uint, decision, note string) (*Bill, *cases.Case, error) {
	var (
		bill    *Bill
		newCase *cases.Case
	)
	err := db.Transaction(func(tx *gorm.DB) error {
		var b Bill
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&b, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound("bill not found")
			}
			return err
		}
		prior := b.Status

		switch decision {
		case "start":
			if err := b.StartReview(); err != nil {
				return err
			}
		case "approve":
			if err := b.Settle(true, note); err != nil {
				return err
			}
		case "reject":
			if err := b.Settle(false, note); err != nil {
				return err
			}
		default:
			return models.ErrValidationFailed("unknown review decision")
		}

		res := tx.Model(&Bill{}).
			Where("id = ? AND status = ?", b.ID, prior).
			Updates(map[string]interface{}{"status": b.Status, "review_note": b.ReviewNote})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return models.ErrInvalidStateTransition("bill was updated concurrently, refetch and retry")
		}

		if b.Status == StatusEPCVerified {
			c := cases.Case{
				BillID:          b.ID,
				SubContractorID: b.SubContractorID,
				EPCID:           b.EPCID,
			}
			if err := r.caseRepo.Create(tx, &c); err != nil {
				return err
			}
			newCase = &c
		}
		bill = &b
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return bill, newCase, nil
}

package cwc

import (
	"errors"
	"time"

	"github.com/Grylink/api-finance/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	Create(db *gorm.DB, q *Request) error
	FindByID(db *gorm.DB, id uint) (*Request, error)
	ListForSubContractor(db *gorm.DB, subContractorID uint) ([]Request, error)
	ListForEPC(db *gorm.DB, epcID uint) ([]Request, error)
	ListBuyerVerified(db *gorm.DB) ([]Request, error)
	Verify(db *gorm.DB, id uint) (*Request, error)
	Quote(db *gorm.DB, id, nbfcID uint, rate, amount decimal.Decimal) (*Request, error)
	Reject(db *gorm.DB, id uint, note string) (*Request, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Create(db *gorm.DB, q *Request) error {
	q.Status = StatusRequested
	return db.Create(q).Error
}

func (r *repositoryImpl) FindByID(db *gorm.DB, id uint) (*Request, error) {
	var q Request
	if err := db.First(&q, id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *repositoryImpl) ListForSubContractor(db *gorm.DB, subContractorID uint) ([]Request, error) {
	var list []Request
	err := db.Where("sub_contractor_id = ?", subContractorID).Order("id").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) ListForEPC(db *gorm.DB, epcID uint) ([]Request, error) {
	var list []Request
	err := db.Where("epc_id = ?", epcID).Order("id").Find(&list).Error
	return list, err
}

// ListBuyerVerified is the NBFC work queue.
func (r *repositoryImpl) ListBuyerVerified(db *gorm.DB) ([]Request, error) {
	var list []Request
	err := db.Where("status = ?", StatusBuyerVerified).Order("id").Find(&list).Error
	return list, err
}

// mutate applies fn under a row lock and re-checks the prior status with a
// guarded update; the same serialization scheme the bids repository uses.
func (r *repositoryImpl) mutate(db *gorm.DB, id uint, fn func(q *Request) error, columns []string) (*Request, error) {
	var out *Request
	err := db.Transaction(func(tx *gorm.DB) error {
		var q Request
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&q, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound("cwc request not found")
			}
			return err
		}
		prior := q.Status

		if err := fn(&q); err != nil {
			return err
		}

		res := tx.Model(&Request{}).
			Where("id = ? AND status = ?", q.ID, prior).
			Select(columns).
			Updates(&q)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return models.ErrInvalidStateTransition("request was updated concurrently, refetch and retry")
		}
		out = &q
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repositoryImpl) Verify(db *gorm.DB, id uint) (*Request, error) {
	return r.mutate(db, id, func(q *Request) error {
		return q.Verify()
	}, []string{"status"})
}

func (r *repositoryImpl) Quote(db *gorm.DB, id, nbfcID uint, rate, amount decimal.Decimal) (*Request, error) {
	return r.mutate(db, id, func(q *Request) error {
		return q.Quote(nbfcID, rate, amount, time.Now().UTC())
	}, []string{"status", "nbfc_id", "interest_rate", "quoted_amount", "quoted_at"})
}

func (r *repositoryImpl) Reject(db *gorm.DB, id uint, note string) (*Request, error) {
	return r.mutate(db, id, func(q *Request) error {
		return q.Reject(note)
	}, []string{"status", "rejection_note"})
}

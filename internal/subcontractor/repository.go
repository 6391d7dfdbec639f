package subcontractor

import (
	"github.com/Grylink/api-finance/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	FindByEmail(db *gorm.DB, email string) (*SubContractor, error)
	Save(db *gorm.DB, s *SubContractor) error
	ListAll(db *gorm.DB) ([]SubContractor, error)
	FindByID(db *gorm.DB, id uint) (*SubContractor, error)
	SetDocument(db *gorm.DB, id uint, doc string, att models.Attachment) (*SubContractor, error)
	ReviewDocument(db *gorm.DB, id uint, doc, status string) (*SubContractor, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) FindByEmail(db *gorm.DB, email string) (*SubContractor, error) {
	var s SubContractor
	if err := db.Where("email = ?", email).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repositoryImpl) Save(db *gorm.DB, s *SubContractor) error {
	return db.Create(s).Error
}

func (r *repositoryImpl) ListAll(db *gorm.DB) ([]SubContractor, error) {
	var list []SubContractor
	err := db.Order("id").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) FindByID(db *gorm.DB, id uint) (*SubContractor, error) {
	var s SubContractor
	if err := db.First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// SetDocument overwrites one document slot inside a transaction so two
// concurrent uploads cannot interleave half-written attachments.
func (r *repositoryImpl) SetDocument(db *gorm.DB, id uint, doc string, att models.Attachment) (*SubContractor, error) {
	if !models.ValidDocumentStatus(att.Status) {
		return nil, models.ErrValidationFailed("unknown document status")
	}
	var s SubContractor
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&s, id).Error; err != nil {
			return err
		}
		slot, ok := s.Document(doc)
		if !ok {
			return models.ErrValidationFailed("unknown document type")
		}
		*slot = att
		return tx.Save(&s).Error
	})
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ReviewDocument moves an Uploaded slot to its review outcome. The status
// check runs under the row lock, so two reviewers racing on the same slot
// serialize and the loser fails with INVALID_STATE_TRANSITION.
func (r *repositoryImpl) ReviewDocument(db *gorm.DB, id uint, doc, status string) (*SubContractor, error) {
	if !models.ValidDocumentStatus(status) {
		return nil, models.ErrValidationFailed("unknown document status")
	}
	var s SubContractor
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&s, id).Error; err != nil {
			return err
		}
		slot, ok := s.Document(doc)
		if !ok {
			return models.ErrValidationFailed("unknown document type")
		}
		if slot.Status != models.DocumentUploaded {
			return models.ErrInvalidStateTransition("document is not awaiting review")
		}
		slot.Status = status
		return tx.Save(&s).Error
	})
	if err != nil {
		return nil, err
	}
	return &s, nil
}

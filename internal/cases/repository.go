package cases

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(db *gorm.DB, c *Case) error
	FindByID(db *gorm.DB, id uint) (*Case, error)
	ListForSubContractor(db *gorm.DB, subContractorID uint) ([]Case, error)
	ListForEPC(db *gorm.DB, epcID uint) ([]Case, error)
	ListEligible(db *gorm.DB) ([]Case, error)
	UpdateStatus(db *gorm.DB, id uint, from, to Status) (bool, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Create(db *gorm.DB, c *Case) error {
	if c.ReferenceCode == "" {
		c.ReferenceCode = uuid.New().String()
	}
	if c.Status == "" {
		c.Status = StatusEPCVerified
	}
	return db.Create(c).Error
}

func (r *repositoryImpl) FindByID(db *gorm.DB, id uint) (*Case, error) {
	var c Case
	if err := db.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repositoryImpl) ListForSubContractor(db *gorm.DB, subContractorID uint) ([]Case, error) {
	var list []Case
	err := db.Where("sub_contractor_id = ?", subContractorID).Order("id").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) ListForEPC(db *gorm.DB, epcID uint) ([]Case, error) {
	var list []Case
	err := db.Where("epc_id = ?", epcID).Order("id").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) ListEligible(db *gorm.DB) ([]Case, error) {
	var list []Case
	err := db.Where("status IN ?", []Status{StatusEPCVerified, StatusBidPlaced}).Order("id").Find(&list).Error
	return list, err
}

// UpdateStatus performs a compare-and-set on the case status; the boolean
// reports whether this caller won the transition.
func (r *repositoryImpl) UpdateStatus(db *gorm.DB, id uint, from, to Status) (bool, error) {
	res := db.Model(&Case{}).Where("id = ? AND status = ?", id, from).Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

package epc

import (
	"gorm.io/gorm"
)

type Repository interface {
	FindByEmail(db *gorm.DB, email string) (*EPC, error)
	Save(db *gorm.DB, e *EPC) error
	ListAll(db *gorm.DB) ([]EPC, error)
	FindByID(db *gorm.DB, id uint) (*EPC, error)
	Update(db *gorm.DB, id uint, req *UpdateEPCRequest) error
	Delete(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) FindByEmail(db *gorm.DB, email string) (*EPC, error) {
	var e EPC
	if err := db.Where("email = ?", email).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repositoryImpl) Save(db *gorm.DB, e *EPC) error {
	return db.Create(e).Error
}

func (r *repositoryImpl) ListAll(db *gorm.DB) ([]EPC, error) {
	var list []EPC
	err := db.Order("id").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) FindByID(db *gorm.DB, id uint) (*EPC, error) {
	var e EPC
	err := db.First(&e, id).Error
	return &e, err
}

func (r *repositoryImpl) Update(db *gorm.DB, id uint, req *UpdateEPCRequest) error {
	var e EPC
	if err := db.First(&e, id).Error; err != nil {
		return err
	}
	if req.CompanyName != nil {
		e.CompanyName = *req.CompanyName
	}
	if req.ContactName != nil {
		e.ContactName = *req.ContactName
	}
	if req.Phone != nil {
		e.Phone = *req.Phone
	}
	if req.GSTNumber != nil {
		e.GSTNumber = *req.GSTNumber
	}
	return db.Save(&e).Error
}

func (r *repositoryImpl) Delete(db *gorm.DB, id uint) error {
	return db.Delete(&EPC{}, id).Error
}

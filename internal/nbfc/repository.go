package nbfc

import "gorm.io/gorm"

type Repository interface {
	FindByEmail(db *gorm.DB, email string) (*NBFC, error)
	Save(db *gorm.DB, n *NBFC) error
	ListAll(db *gorm.DB) ([]NBFC, error)
	FindByID(db *gorm.DB, id uint) (*NBFC, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) FindByEmail(db *gorm.DB, email string) (*NBFC, error) {
	var n NBFC
	if err := db.Where("email = ?", email).First(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *repositoryImpl) Save(db *gorm.DB, n *NBFC) error {
	return db.Create(n).Error
}

func (r *repositoryImpl) ListAll(db *gorm.DB) ([]NBFC, error) {
	var list []NBFC
	err := db.Order("id").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) FindByID(db *gorm.DB, id uint) (*NBFC, error) {
	var n NBFC
	if err := db.First(&n, id).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

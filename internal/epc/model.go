package epc

import "time"

// EPC is a buyer-side company account (engineering/procurement/construction
// firm). EPC users verify bills, place bids and lock commercials.
type EPC struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CompanyName string    `gorm:"size:150;not null" json:"companyName"`
	ContactName string    `gorm:"size:100;not null" json:"contactName"`
	Email       string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password    string    `gorm:"size:255;not null" json:"-"`
	Phone       string    `gorm:"size:20" json:"phone"`
	GSTNumber   string    `gorm:"size:20" json:"gstNumber"`
	IsAdmin     bool      `gorm:"default:false" json:"isAdmin"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

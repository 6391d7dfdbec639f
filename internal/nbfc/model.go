package nbfc

import "time"

// NBFC is a lender account; NBFC users quote against buyer-verified CWC
// requests.
type NBFC struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:150;not null" json:"name"`
	Email       string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password    string    `gorm:"size:255;not null" json:"-"`
	Phone       string    `gorm:"size:20" json:"phone"`
	RBILicense  string    `gorm:"size:50" json:"rbiLicense"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

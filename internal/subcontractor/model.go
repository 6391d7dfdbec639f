package subcontractor

import (
	"time"

	"github.com/Grylink/api-finance/internal/models"
)

// KYC document slots a sub-contractor must clear before bills can be
// financed.
const (
	DocPAN       = "pan"
	DocGST       = "gst"
	DocBankProof = "bank"
)

// SubContractor is a vendor account on the sub-contractor portal. KYC
// documents are stored as attachment records with a verification status;
// the file storage behind the URLs is external.
type SubContractor struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:100;not null" json:"name"`
	CompanyName string `gorm:"size:150" json:"companyName"`
	Email       string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password    string `gorm:"size:255;not null" json:"-"`
	Phone       string `gorm:"size:20" json:"phone"`
	PANNumber   string `gorm:"size:20" json:"panNumber"`
	GSTNumber   string `gorm:"size:20" json:"gstNumber"`

	PANCard        models.Attachment `gorm:"type:jsonb;serializer:json" json:"panCard"`
	GSTCertificate models.Attachment `gorm:"type:jsonb;serializer:json" json:"gstCertificate"`
	BankProof      models.Attachment `gorm:"type:jsonb;serializer:json" json:"bankProof"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Document returns a pointer to the attachment slot named by doc.
func (s *SubContractor) Document(doc string) (*models.Attachment, bool) {
	switch doc {
	case DocPAN:
		return &s.PANCard, true
	case DocGST:
		return &s.GSTCertificate, true
	case DocBankProof:
		return &s.BankProof, true
	default:
		return nil, false
	}
}

// KYCComplete reports whether every document slot has been verified.
func (s *SubContractor) KYCComplete() bool {
	return s.PANCard.Status == models.DocumentVerified &&
		s.GSTCertificate.Status == models.DocumentVerified &&
		s.BankProof.Status == models.DocumentVerified
}

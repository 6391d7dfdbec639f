package cases

import (
	"time"

	"github.com/Grylink/api-finance/internal/auth"
)

type Status string

const (
	StatusEPCVerified      Status = "EPC_VERIFIED"
	StatusBidPlaced        Status = "BID_PLACED"
	StatusCommercialLocked Status = "COMMERCIAL_LOCKED"
	StatusClosed           Status = "CLOSED"
)

// Case is the financeable unit derived from a bill that cleared EPC
// verification. Bids reference cases; a case stops accepting bids once one
// of them is commercially locked.
type Case struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ReferenceCode   string    `gorm:"size:64;uniqueIndex" json:"referenceCode"`
	BillID          uint      `gorm:"not null;uniqueIndex" json:"billId"`
	SubContractorID uint      `gorm:"not null;index" json:"subContractorId"`
	EPCID           uint      `gorm:"not null;index" json:"epcId"`
	Status          Status    `gorm:"size:32;not null" json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// EligibleForBidding reports whether new bids may still be placed.
// EPC_VERIFIED is the entry state; BID_PLACED means bidding already started
// but no commercial lock happened yet.
func (c *Case) EligibleForBidding() bool {
	return c.Status == StatusEPCVerified || c.Status == StatusBidPlaced
}

// ViewableBy reports whether the caller may read this case. Non-party EPCs
// may browse cases only while they are still open for bidding; once a case
// is locked or closed it is visible to its parties alone.
func (c *Case) ViewableBy(userID uint, role string) bool {
	if c.IsParty(userID, role) {
		return true
	}
	return role == auth.RoleEPC && c.EligibleForBidding()
}

// IsParty reports whether the authenticated caller is one of the two sides
// of this case. Admins are always a party for oversight.
func (c *Case) IsParty(userID uint, role string) bool {
	switch role {
	case auth.RoleEPC:
		return c.EPCID == userID
	case auth.RoleSubContractor:
		return c.SubContractorID == userID
	case auth.RoleAdmin:
		return true
	default:
		return false
	}
}

package cases

import (
	"testing"

	"github.com/Grylink/api-finance/internal/auth"
)

func TestEligibleForBidding(t *testing.T) {
	cases := []struct {
		status   Status
		eligible bool
	}{
		{StatusEPCVerified, true},
		{StatusBidPlaced, true},
		{StatusCommercialLocked, false},
		{StatusClosed, false},
	}
	for _, tc := range cases {
		c := Case{Status: tc.status}
		if got := c.EligibleForBidding(); got != tc.eligible {
			t.Fatalf("EligibleForBidding in %s: expected %v, got %v", tc.status, tc.eligible, got)
		}
	}
}

func TestViewableBy(t *testing.T) {
	cases := []struct {
		name   string
		status Status
		userID uint
		role   string
		want   bool
	}{
		{"foreign buyer, open case", StatusEPCVerified, 8, auth.RoleEPC, true},
		{"foreign buyer, bidding started", StatusBidPlaced, 8, auth.RoleEPC, true},
		{"foreign buyer, locked case", StatusCommercialLocked, 8, auth.RoleEPC, false},
		{"foreign buyer, closed case", StatusClosed, 8, auth.RoleEPC, false},
		{"buyer on case, locked case", StatusCommercialLocked, 7, auth.RoleEPC, true},
		{"subcontractor on case, locked case", StatusCommercialLocked, 3, auth.RoleSubContractor, true},
		{"foreign subcontractor, open case", StatusEPCVerified, 4, auth.RoleSubContractor, false},
		{"admin, closed case", StatusClosed, 99, auth.RoleAdmin, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Case{EPCID: 7, SubContractorID: 3, Status: tc.status}
			if got := c.ViewableBy(tc.userID, tc.role); got != tc.want {
				t.Fatalf("ViewableBy(%d, %s) on %s: expected %v, got %v", tc.userID, tc.role, tc.status, tc.want, got)
			}
		})
	}
}

func TestIsParty(t *testing.T) {
	c := Case{EPCID: 7, SubContractorID: 3}

	cases := []struct {
		name   string
		userID uint
		role   string
		want   bool
	}{
		{"buyer on case", 7, auth.RoleEPC, true},
		{"other buyer", 8, auth.RoleEPC, false},
		{"subcontractor on case", 3, auth.RoleSubContractor, true},
		{"other subcontractor", 4, auth.RoleSubContractor, false},
		{"admin", 99, auth.RoleAdmin, true},
		{"nbfc", 7, auth.RoleNBFC, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := c.IsParty(tc.userID, tc.role); got != tc.want {
				t.Fatalf("IsParty(%d, %s): expected %v, got %v", tc.userID, tc.role, tc.want, got)
			}
		})
	}
}

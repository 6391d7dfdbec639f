package subcontractor

import (
	"testing"

	"github.com/Grylink/api-finance/internal/models"
)

func withStatuses(pan, gst, bank string) *SubContractor {
	return &SubContractor{
		PANCard:        models.Attachment{Status: pan},
		GSTCertificate: models.Attachment{Status: gst},
		BankProof:      models.Attachment{Status: bank},
	}
}

func TestKYCComplete(t *testing.T) {
	v := models.DocumentVerified
	cases := []struct {
		name           string
		pan, gst, bank string
		complete       bool
	}{
		{"all verified", v, v, v, true},
		{"pan still uploaded", models.DocumentUploaded, v, v, false},
		{"gst pending", v, models.DocumentPending, v, false},
		{"bank proof rejected", v, v, models.DocumentRejected, false},
		{"fresh account", models.DocumentPending, models.DocumentPending, models.DocumentPending, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := withStatuses(tc.pan, tc.gst, tc.bank)
			if got := s.KYCComplete(); got != tc.complete {
				t.Fatalf("KYCComplete: expected %v, got %v", tc.complete, got)
			}
		})
	}
}

func TestDocumentSlots(t *testing.T) {
	s := &SubContractor{}
	for _, doc := range []string{DocPAN, DocGST, DocBankProof} {
		slot, ok := s.Document(doc)
		if !ok || slot == nil {
			t.Fatalf("expected a slot for %q", doc)
		}
	}
	if _, ok := s.Document("aadhaar"); ok {
		t.Fatalf("unknown document type must not resolve to a slot")
	}

	// the returned pointer addresses the live slot
	slot, _ := s.Document(DocPAN)
	slot.Status = models.DocumentUploaded
	if s.PANCard.Status != models.DocumentUploaded {
		t.Fatalf("Document must return a pointer into the record")
	}
}

package models

import "testing"

func TestValidDocumentStatus(t *testing.T) {
	for _, s := range []string{DocumentPending, DocumentUploaded, DocumentVerified, DocumentRejected} {
		if !ValidDocumentStatus(s) {
			t.Fatalf("expected %q to be a valid status", s)
		}
	}
	for _, s := range []string{"", "uploaded", "Approved"} {
		if ValidDocumentStatus(s) {
			t.Fatalf("expected %q to be rejected", s)
		}
	}
}

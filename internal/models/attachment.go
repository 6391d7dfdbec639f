package models

// Verification status convention for uploaded documents
const (
	DocumentPending  = "Pending"
	DocumentUploaded = "Uploaded"
	DocumentVerified = "Verified"
	DocumentRejected = "Rejected"
)

// Attachment is the record shape the portals exchange for every uploaded
// file; the storage provider behind FileURL is external.
type Attachment struct {
	FileURL  string `json:"fileUrl"`
	FileName string `json:"fileName"`
	Status   string `json:"status"` // "Pending" | "Uploaded" | "Verified" | "Rejected"
}

// ValidDocumentStatus reports whether s is one of the accepted statuses.
func ValidDocumentStatus(s string) bool {
	switch s {
	case DocumentPending, DocumentUploaded, DocumentVerified, DocumentRejected:
		return true
	default:
		return false
	}
}

package subcontractor_test

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Grylink/api-finance/internal/models"
	"github.com/Grylink/api-finance/internal/subcontractor"
	"github.com/Grylink/api-finance/internal/utils/db"
	"gorm.io/gorm"
)

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var be *models.BusinessError
	if !errors.As(err, &be) {
		t.Fatalf("expected business error, got %T: %v", err, err)
	}
	if be.Code != code {
		t.Fatalf("expected code %s, got %s", code, be.Code)
	}
}

func TestReviewDocumentRejectsUnknownStatus(t *testing.T) {
	// the status guard fires before any storage access
	_, err := subcontractor.NewRepository().ReviewDocument(nil, 1, subcontractor.DocPAN, "Approved")
	assertCode(t, err, models.CodeValidationFailed)
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires postgres)")
	}
	conn, err := db.ConnectDatabase()
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := conn.AutoMigrate(&subcontractor.SubContractor{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func seedWithUploadedPAN(t *testing.T, conn *gorm.DB) *subcontractor.SubContractor {
	t.Helper()
	s := subcontractor.SubContractor{
		Name:           "Vendor",
		Email:          fmt.Sprintf("vendor-%d@test.local", time.Now().UnixNano()),
		Password:       "x",
		PANCard:        models.Attachment{FileURL: "https://files.test/pan.pdf", FileName: "pan.pdf", Status: models.DocumentUploaded},
		GSTCertificate: models.Attachment{Status: models.DocumentPending},
		BankProof:      models.Attachment{Status: models.DocumentPending},
	}
	if err := conn.Create(&s).Error; err != nil {
		t.Fatalf("create sub-contractor: %v", err)
	}
	return &s
}

func TestReviewDocumentResolvesUploadedSlotOnce(t *testing.T) {
	conn := openTestDB(t)
	s := seedWithUploadedPAN(t, conn)
	repo := subcontractor.NewRepository()

	reviewed, err := repo.ReviewDocument(conn, s.ID, subcontractor.DocPAN, models.DocumentVerified)
	if err != nil {
		t.Fatalf("first review failed: %v", err)
	}
	if reviewed.PANCard.Status != models.DocumentVerified {
		t.Fatalf("expected PAN slot %s, got %s", models.DocumentVerified, reviewed.PANCard.Status)
	}

	// a second decision on the same slot must lose
	_, err = repo.ReviewDocument(conn, s.ID, subcontractor.DocPAN, models.DocumentRejected)
	assertCode(t, err, models.CodeInvalidStateTransition)

	var after subcontractor.SubContractor
	if err := conn.First(&after, s.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if after.PANCard.Status != models.DocumentVerified {
		t.Fatalf("second review must not overwrite the first outcome, got %s", after.PANCard.Status)
	}
}

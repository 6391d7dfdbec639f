package subcontractor

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// LoginRequest is used in POST /subcontractors/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CreateSubContractorRequest is used in POST /subcontractors
type CreateSubContractorRequest struct {
	Name        string `json:"name" validate:"required"`
	CompanyName string `json:"companyName"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone"`
	PANNumber   string `json:"panNumber"`
	GSTNumber   string `json:"gstNumber"`
	Password    string `json:"password" validate:"required,min=8"`
}

// UploadDocumentRequest is used in PUT /subcontractors/{id}/documents/{doc}
type UploadDocumentRequest struct {
	FileURL  string `json:"fileUrl" validate:"required,url"`
	FileName string `json:"fileName" validate:"required"`
}

// ReviewDocumentRequest is used in PUT /subcontractors/{id}/documents/{doc}/review
type ReviewDocumentRequest struct {
	Status string `json:"status" validate:"required,oneof=Verified Rejected"`
}

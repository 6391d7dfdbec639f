package epc

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// LoginRequest is used in POST /epcs/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CreateEPCRequest is used in POST /epcs
type CreateEPCRequest struct {
	CompanyName string `json:"companyName" validate:"required"`
	ContactName string `json:"contactName" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone"`
	GSTNumber   string `json:"gstNumber"`
	Password    string `json:"password" validate:"required,min=8"`
}

// UpdateEPCRequest is used in PUT /epcs/{id}
// Pointer fields may be omitted from the JSON to leave them unchanged.
type UpdateEPCRequest struct {
	CompanyName *string `json:"companyName,omitempty"`
	ContactName *string `json:"contactName,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	GSTNumber   *string `json:"gstNumber,omitempty"`
}

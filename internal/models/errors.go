package models

import "net/http"

// Machine-readable error codes returned to the portals. The front ends key
// user-facing messages off these, so they are part of the API contract.
const (
	CodeInvalidStateTransition = "INVALID_STATE_TRANSITION"
	CodeInvalidAmount          = "INVALID_AMOUNT"
	CodeCaseNotEligible        = "CASE_NOT_ELIGIBLE"
	CodeNotAuthorized          = "NOT_AUTHORIZED"
	CodeNotFound               = "NOT_FOUND"
	CodeValidationFailed       = "VALIDATION_FAILED"
)

// BusinessError carries an error code plus the HTTP status the handlers
// should answer with. A rejected operation never mutates the record it was
// aimed at.
type BusinessError struct {
	HTTPStatus int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"reason"`
}

func (e *BusinessError) Error() string {
	return e.Message
}

func NewBusinessError(status int, code, message string) *BusinessError {
	return &BusinessError{HTTPStatus: status, Code: code, Message: message}
}

// ErrInvalidStateTransition is also what the loser of a concurrent update on
// the same record receives.
func ErrInvalidStateTransition(message string) *BusinessError {
	return NewBusinessError(http.StatusConflict, CodeInvalidStateTransition, message)
}

func ErrInvalidAmount(message string) *BusinessError {
	return NewBusinessError(http.StatusBadRequest, CodeInvalidAmount, message)
}

func ErrCaseNotEligible(message string) *BusinessError {
	return NewBusinessError(http.StatusUnprocessableEntity, CodeCaseNotEligible, message)
}

func ErrNotAuthorized(message string) *BusinessError {
	return NewBusinessError(http.StatusForbidden, CodeNotAuthorized, message)
}

func ErrNotFound(message string) *BusinessError {
	return NewBusinessError(http.StatusNotFound, CodeNotFound, message)
}

func ErrValidationFailed(message string) *BusinessError {
	return NewBusinessError(http.StatusBadRequest, CodeValidationFailed, message)
}

package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Grylink/api-finance/internal/models"
	"github.com/sirupsen/logrus"
)

// SendJSON writes v as a JSON response with the given status code.
func SendJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Error("failed to encode response")
	}
}

// SendError writes err as a JSON error body. Business errors keep their code
// and status; anything else is a 500 and is logged, the caller only sees a
// generic reason.
func SendError(w http.ResponseWriter, err error) {
	var be *models.BusinessError
	if errors.As(err, &be) {
		SendJSON(w, be.HTTPStatus, be)
		return
	}
	logrus.WithError(err).Error("internal error")
	SendJSON(w, http.StatusInternalServerError, models.NewBusinessError(
		http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"))
}

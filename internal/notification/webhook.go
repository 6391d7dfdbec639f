package notification

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"

	"github.com/sirupsen/logrus"
)

func webhookURL() string {
	return os.Getenv("ALERT_WEBHOOK_URL")
}

func post(payload map[string]interface{}) {
	url := webhookURL()
	if url == "" {
		return
	}
	body, _ := json.Marshal(payload)

	resp, err := http.Post(url, "application/json", bytes.NewBuffer(body))
	if err != nil {
		logrus.WithError(err).Error("failed to send webhook alert")
		return
	}
	defer resp.Body.Close()
}

// SendCommercialLockAlert notifies the ops channel that a case reached
// commercial lock.
func SendCommercialLockAlert(caseRef, finalAmount string, finalDuration int) {
	post(map[string]interface{}{
		"message":       "commercial lock finalized",
		"caseReference": caseRef,
		"finalAmount":   finalAmount,
		"finalDuration": finalDuration,
	})
}

// SendDuplicateRegistrationAlert fires when a registration reuses an email
// already on file.
func SendDuplicateRegistrationAlert(email string) {
	post(map[string]interface{}{
		"message": "registration attempted with existing email",
		"email":   email,
	})
}

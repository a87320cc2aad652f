package payomatix

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
)

// Notification is the webhook envelope. Payomatix nests everything of
// interest under data; an envelope without it is structurally
// incompatible and worth a 400 back to the gateway.
type Notification struct {
	Data *NotificationData `json:"data"`
}

type NotificationData struct {
	TransactionID   string `json:"transaction_id"`
	MerchantRef     string `json:"merchant_ref"`
	Status          string `json:"status"`
	Message         string `json:"message"`
	ConvertedAmount any    `json:"converted_amount"`
	Currency        string `json:"currency"`
	CustomerEmail   string `json:"customer_email"`
	CustomerName    string `json:"customer_name"`
	CustomerPhone   string `json:"customer_phone"`
}

func ParseNotification(body []byte) (*Notification, error) {
	var n Notification
	if err := json.Unmarshal(body, &n); err != nil {
		return nil, fmt.Errorf("webhook payload decode: %w", err)
	}
	return &n, nil
}

// Missing reports which required fields are absent. userId/cardId live
// inside merchant_ref and are never required.
func (d *NotificationData) Missing() []string {
	var missing []string
	if d.MerchantRef == "" {
		missing = append(missing, "merchant_ref")
	}
	if d.TransactionID == "" {
		missing = append(missing, "transaction_id")
	}
	if d.Status == "" {
		missing = append(missing, "status")
	}
	if d.ConvertedAmount == nil {
		missing = append(missing, "converted_amount")
	}
	if d.Currency == "" {
		missing = append(missing, "currency")
	}
	return missing
}

// Amount normalizes converted_amount, which Payomatix sends as either a
// JSON number or a string, to "100.00" style.
func (d *NotificationData) Amount() (string, error) {
	switch t := d.ConvertedAmount.(type) {
	case float64:
		return fmt.Sprintf("%.2f", t), nil
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return "", fmt.Errorf("invalid converted_amount %q", t)
		}
		return fmt.Sprintf("%.2f", f), nil
	default:
		return "", fmt.Errorf("unsupported converted_amount type %T", t)
	}
}

// Sign computes the webhook authenticity signature over the raw body.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks the signature header against the raw request
// body in constant time.
func VerifySignature(body []byte, signature, secret string) bool {
	want := Sign(body, secret)
	return hmac.Equal([]byte(want), []byte(signature))
}

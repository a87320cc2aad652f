package main

import (
	"io"
	"net/http"
	"strings"
	"time"

	"payrelay/internal/downstream"
	"payrelay/internal/payomatix"
	"payrelay/internal/reference"

	"github.com/google/uuid"
)

const signatureHeader = "X-Payomatix-Signature"

type webhookAck struct {
	Received bool   `json:"received"`
	Message  string `json:"message"`
}

// payomatixWebhookHandler acknowledges every structurally sound
// notification with 200, whatever happens downstream; a non-200 would
// put us in the gateway's retry storm. The exceptions are a missing or
// incomplete data object (400) and a bad signature (403).
func (app *application) payomatixWebhookHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1_048_578)
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		app.webhookRejectResponse(w, r, http.StatusBadRequest, "unable to read webhook body")
		return
	}

	if secret := app.config.payomatix.webhookSecret; secret != "" {
		if !payomatix.VerifySignature(raw, r.Header.Get(signatureHeader), secret) {
			app.webhookRejectResponse(w, r, http.StatusForbidden, "webhook signature verification failed")
			return
		}
	}

	n, err := payomatix.ParseNotification(raw)
	if err != nil || n.Data == nil {
		app.webhookRejectResponse(w, r, http.StatusBadRequest, "webhook payload is missing the data object")
		return
	}
	data := n.Data

	if missing := data.Missing(); len(missing) > 0 {
		app.webhookRejectResponse(w, r, http.StatusBadRequest,
			"webhook data is missing required fields: "+strings.Join(missing, ", "))
		return
	}

	amount, err := data.Amount()
	if err != nil {
		app.webhookRejectResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	userID, cardID := reference.Decode(data.MerchantRef)

	app.logger.Infow("payomatix webhook received",
		"merchant_ref", data.MerchantRef,
		"payomatix_id", data.TransactionID,
		"status", data.Status,
		"user_id", userID,
		"card_id", cardID,
	)

	// Best-effort side notification: failure is logged, never surfaced
	// to the gateway.
	if app.notifier.Enabled() {
		event := downstream.Event{
			EventID:       uuid.NewString(),
			CorrelationID: data.MerchantRef,
			PayomatixID:   data.TransactionID,
			Status:        data.Status,
			Message:       data.Message,
			Amount:        amount,
			Currency:      data.Currency,
			CustomerEmail: data.CustomerEmail,
			CustomerName:  data.CustomerName,
			CustomerPhone: data.CustomerPhone,
			ReceivedAt:    time.Now().UTC(),
			UserID:        userID,
			CardID:        cardID,
		}

		if err := app.notifier.Notify(r.Context(), event); err != nil {
			app.logger.Errorw("downstream forward failed", "merchant_ref", data.MerchantRef, "error", err.Error())
		} else {
			app.logger.Infow("downstream forward delivered", "merchant_ref", data.MerchantRef, "event_id", event.EventID)
		}
	}

	_ = writeJSON(w, http.StatusOK, webhookAck{
		Received: true,
		Message:  "Webhook received and processed.",
	})
}

func (app *application) webhookRejectResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	app.logger.Warnw("webhook rejected", "status", status, "reason", message, "remote", r.RemoteAddr)

	_ = writeJSON(w, status, webhookAck{
		Received: false,
		Message:  message,
	})
}

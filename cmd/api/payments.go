package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"payrelay/internal/payomatix"
	"payrelay/internal/reference"
)

type createPaymentIntentRequest struct {
	// Pointer so that an explicit zero is judged by gt, not mistaken
	// for an absent field by required.
	Amount        *float64       `json:"amount" validate:"required,gt=0,twodecimals"`
	Currency      string         `json:"currency" validate:"required,len=3,uppercase"`
	CustomerEmail string         `json:"customerEmail" validate:"required,email"`
	UserID        string         `json:"userId" validate:"omitempty,max=64"`
	CardID        string         `json:"cardId" validate:"omitempty,max=64"`
	MerchantRef   string         `json:"merchantRef" validate:"omitempty,max=50"`
	Description   string         `json:"description" validate:"omitempty,max=255"`
	CustomerName  string         `json:"customerName" validate:"omitempty,max=100"`
	Phone         string         `json:"phone" validate:"omitempty,max=20"`
	Address       string         `json:"address" validate:"omitempty,max=255"`
	City          string         `json:"city" validate:"omitempty,max=100"`
	State         string         `json:"state" validate:"omitempty,max=100"`
	Zip           string         `json:"zip" validate:"omitempty,max=20"`
	Country       string         `json:"country" validate:"omitempty,len=2,uppercase"`
	Metadata      map[string]any `json:"metadata"`
}

type createPaymentIntentResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	RedirectURL   string `json:"redirectUrl"`
	TransactionID string `json:"transactionId"`
}

func (app *application) createPaymentIntentHandler(w http.ResponseWriter, r *http.Request) {
	var payload createPaymentIntentRequest
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.validationErrorResponse(w, r, validationMessages(err))
		return
	}

	// The merchant reference is the only channel that carries the
	// user/card association through Payomatix and back via the webhook.
	merchantRef := strings.TrimSpace(payload.MerchantRef)
	if merchantRef == "" {
		merchantRef = reference.New(strings.TrimSpace(payload.UserID), strings.TrimSpace(payload.CardID))
	}

	firstName, lastName := splitCustomerName(payload.CustomerName)

	description := strings.TrimSpace(payload.Description)
	if description == "" {
		description = fmt.Sprintf("Payment for order %s", merchantRef)
	}

	intent := payomatix.IntentRequest{
		Email:       strings.TrimSpace(payload.CustomerEmail),
		Amount:      fmt.Sprintf("%.2f", *payload.Amount),
		Currency:    strings.TrimSpace(payload.Currency),
		ReturnURL:   app.config.payomatix.returnURL,
		NotifyURL:   app.config.payomatix.notifyURL,
		FirstName:   firstName,
		LastName:    lastName,
		Address:     strings.TrimSpace(payload.Address),
		City:        strings.TrimSpace(payload.City),
		State:       strings.TrimSpace(payload.State),
		Zip:         strings.TrimSpace(payload.Zip),
		Country:     strings.TrimSpace(payload.Country),
		Phone:       strings.TrimSpace(payload.Phone),
		Description: description,
		MerchantRef: merchantRef,
		Metadata:    payload.Metadata,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	outcome, err := app.gateway.CreateTransaction(ctx, intent)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	switch o := outcome.(type) {
	case payomatix.Redirect:
		transactionID := o.MerchantRef
		if transactionID == "" {
			transactionID = o.TransactionID
		}
		app.logger.Infow("payment intent created", "merchant_ref", merchantRef, "transaction_id", transactionID)

		if err := writeJSON(w, http.StatusOK, createPaymentIntentResponse{
			Success:       true,
			Message:       "Payment intent created successfully. Redirect URL received.",
			RedirectURL:   o.URL,
			TransactionID: transactionID,
		}); err != nil {
			app.internalServerError(w, r, err)
		}

	case payomatix.Rejection:
		app.upstreamRejectionResponse(w, r, o)

	case payomatix.Unrecognized:
		app.upstreamProtocolResponse(w, r, o)

	default:
		app.internalServerError(w, r, fmt.Errorf("unhandled gateway outcome %T", outcome))
	}
}

func splitCustomerName(name string) (first, last string) {
	parts := strings.Fields(strings.TrimSpace(name))
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

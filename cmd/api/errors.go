package main

import (
	"encoding/json"
	"net/http"

	"payrelay/internal/payomatix"
)

// errorResponse is the caller-facing error envelope. Optional fields are
// filled per error class: Errors for input validation, Error for upstream
// and internal detail, the Payomatix fields for passthrough.
type errorResponse struct {
	Success           bool            `json:"success"`
	Message           string          `json:"message"`
	Error             string          `json:"error,omitempty"`
	Errors            []string        `json:"errors,omitempty"`
	PayomatixErrors   json.RawMessage `json:"payomatixErrors,omitempty"`
	PayomatixResponse json.RawMessage `json:"payomatixResponse,omitempty"`
}

func (app *application) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Errorw("internal server error", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	_ = writeJSON(w, http.StatusInternalServerError, errorResponse{
		Message: "An internal server error occurred while processing your payment request.",
		Error:   err.Error(),
	})
}

func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("bad request", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	_ = writeJSON(w, http.StatusBadRequest, errorResponse{
		Message: err.Error(),
	})
}

func (app *application) validationErrorResponse(w http.ResponseWriter, r *http.Request, violations []string) {
	app.logger.Warnw("validation failed", "method", r.Method, "path", r.URL.Path, "violations", violations)

	_ = writeJSON(w, http.StatusBadRequest, errorResponse{
		Message: "Invalid request data provided.",
		Errors:  violations,
	})
}

// upstreamRejectionResponse relays a business/validation failure signaled
// by Payomatix, preserving its status code and detail.
func (app *application) upstreamRejectionResponse(w http.ResponseWriter, r *http.Request, rej payomatix.Rejection) {
	app.logger.Warnw("payomatix rejected transaction", "status", rej.HTTPStatus, "detail", rej.Message)

	_ = writeJSON(w, rej.HTTPStatus, errorResponse{
		Message:         "Failed to create payment intent with Payomatix.",
		Error:           rej.Message,
		PayomatixErrors: rej.Errors,
	})
}

// upstreamProtocolResponse covers responses no safe interpretation exists
// for, including a "successful" redirect with no redirect_url. The raw
// payload is attached for diagnosis.
func (app *application) upstreamProtocolResponse(w http.ResponseWriter, r *http.Request, unrec payomatix.Unrecognized) {
	app.logger.Errorw("unusable payomatix response", "reason", unrec.Reason, "raw", string(unrec.Raw))

	_ = writeJSON(w, http.StatusInternalServerError, errorResponse{
		Message:           "Payment intent could not be completed: " + unrec.Reason + ".",
		PayomatixResponse: unrec.Raw,
	})
}

func (app *application) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request, retryAfter string) {
	app.logger.Warnw("rate limit exceeded", "path", r.URL.Path, "remote", r.RemoteAddr)

	w.Header().Set("Retry-After", retryAfter)
	_ = writeJSON(w, http.StatusTooManyRequests, errorResponse{
		Message: "rate limit exceeded, retry after: " + retryAfter,
	})
}

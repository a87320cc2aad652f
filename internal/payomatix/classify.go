package payomatix

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Classify turns a raw gateway response into an Outcome.
//
// Payomatix signals semantic failures inside HTTP 200 bodies, so the
// classification reads responseCode and status from the body rather than
// trusting the transport status:
//   - responseCode 300 + status "redirect" is success, and only when
//     redirect_url is actually present
//   - responseCode >= 400 or status "validation_error" is a rejection
//   - everything else is unrecognized
func Classify(httpStatus int, body []byte) (Outcome, error) {
	var p struct {
		ResponseCode  int             `json:"responseCode"`
		Status        string          `json:"status"`
		RedirectURL   string          `json:"redirect_url"`
		MerchantRef   string          `json:"merchant_ref"`
		TransactionID string          `json:"transaction_id"`
		Response      string          `json:"response"`
		Message       string          `json:"message"`
		Error         string          `json:"error"`
		Errors        json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("payomatix response decode: %w", err)
	}

	switch {
	case p.ResponseCode == 300 && p.Status == "redirect":
		if p.RedirectURL == "" {
			return Unrecognized{
				Reason: "redirect response carried no redirect_url",
				Raw:    json.RawMessage(body),
			}, nil
		}
		return Redirect{
			URL:           p.RedirectURL,
			MerchantRef:   p.MerchantRef,
			TransactionID: p.TransactionID,
		}, nil

	case p.ResponseCode >= 400 || p.Status == "validation_error":
		status := httpStatus
		if status < http.StatusBadRequest {
			if p.ResponseCode >= http.StatusBadRequest {
				status = p.ResponseCode
			} else {
				status = http.StatusInternalServerError
			}
		}
		msg := firstNonEmpty(p.Response, p.Message, p.Error)
		if msg == "" {
			msg = "unknown error from Payomatix"
		}
		return Rejection{
			HTTPStatus: status,
			Message:    msg,
			Errors:     p.Errors,
		}, nil

	default:
		return Unrecognized{
			Reason: "unrecognized Payomatix response shape",
			Raw:    json.RawMessage(body),
		}, nil
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

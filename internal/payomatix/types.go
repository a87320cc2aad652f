package payomatix

import "encoding/json"

// IntentRequest is the body of the outbound transaction-creation call.
// Amount is preformatted with two decimal digits; Payomatix rejects
// anything else.
type IntentRequest struct {
	Email       string         `json:"email"`
	Amount      string         `json:"amount"`
	Currency    string         `json:"currency"`
	ReturnURL   string         `json:"return_url"`
	NotifyURL   string         `json:"notify_url"`
	FirstName   string         `json:"first_name,omitempty"`
	LastName    string         `json:"last_name,omitempty"`
	Address     string         `json:"address,omitempty"`
	City        string         `json:"city,omitempty"`
	State       string         `json:"state,omitempty"`
	Zip         string         `json:"zip,omitempty"`
	Country     string         `json:"country,omitempty"`
	Phone       string         `json:"phone,omitempty"`
	Description string         `json:"description,omitempty"`
	MerchantRef string         `json:"merchant_ref"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Outcome is the classified result of a transaction-creation call.
// Exactly one of Redirect, Rejection or Unrecognized is returned; callers
// match with a type switch.
type Outcome interface {
	outcome()
}

// Redirect is the success shape: the customer must be sent to the hosted
// payment page at URL. MerchantRef is our reference echoed back;
// TransactionID is the gateway-assigned id, when present.
type Redirect struct {
	URL           string
	MerchantRef   string
	TransactionID string
}

// Rejection is a business or validation failure signaled by the gateway.
// HTTPStatus is safe to forward to the caller; Errors carries the
// gateway's structured detail when it sent any.
type Rejection struct {
	HTTPStatus int
	Message    string
	Errors     json.RawMessage
}

// Unrecognized covers every response shape we cannot safely interpret,
// including a "redirect" success that carries no redirect_url.
type Unrecognized struct {
	Reason string
	Raw    json.RawMessage
}

func (Redirect) outcome()     {}
func (Rejection) outcome()    {}
func (Unrecognized) outcome() {}

package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"payrelay/internal/reference"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type processorStub struct {
	srv      *httptest.Server
	calls    atomic.Int64
	lastAuth string
	lastBody map[string]any
}

// newProcessorStub fakes the Payomatix transaction endpoint, capturing
// the outbound request and replying with a fixed status and body.
func newProcessorStub(t *testing.T, status int, body string) *processorStub {
	t.Helper()
	stub := &processorStub{}
	stub.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.calls.Add(1)
		stub.lastAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&stub.lastBody)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(stub.srv.Close)
	return stub
}

func intentConfig(processorURL string) config {
	return config{
		env: "test",
		payomatix: payomatixConfig{
			secretKey: "sec_test_key",
			apiURL:    processorURL,
			returnURL: "https://shop.example/return",
			notifyURL: "https://relay.example/payomatix-webhook",
		},
	}
}

func postIntent(app *application, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/create-payment-intent", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	app.createPaymentIntentHandler(rr, req)
	return rr
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return out
}

func TestCreatePaymentIntent_Success(t *testing.T) {
	stub := newProcessorStub(t, http.StatusOK,
		`{"responseCode":300,"status":"redirect","redirect_url":"https://pay.example/x","merchant_ref":"R1"}`)
	app := newTestApplication(intentConfig(stub.srv.URL))

	rr := postIntent(app, `{"amount":49.9,"currency":"USD","customerEmail":"jane@example.com","merchantRef":"R1"}`)

	require.Equal(t, http.StatusOK, rr.Code)
	out := decodeResponse(t, rr)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, "https://pay.example/x", out["redirectUrl"])
	assert.Equal(t, "R1", out["transactionId"])

	assert.Equal(t, "sec_test_key", stub.lastAuth)
	assert.Equal(t, "49.90", stub.lastBody["amount"])
	assert.Equal(t, "R1", stub.lastBody["merchant_ref"])
	assert.Equal(t, "https://shop.example/return", stub.lastBody["return_url"])
	assert.Equal(t, "https://relay.example/payomatix-webhook", stub.lastBody["notify_url"])
}

func TestCreatePaymentIntent_GeneratesReferenceWithAssociations(t *testing.T) {
	stub := newProcessorStub(t, http.StatusOK,
		`{"responseCode":300,"status":"redirect","redirect_url":"https://pay.example/x"}`)
	app := newTestApplication(intentConfig(stub.srv.URL))

	rr := postIntent(app, `{"amount":10,"currency":"USD","customerEmail":"jane@example.com","userId":"abc123","cardId":"def456"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	ref, _ := stub.lastBody["merchant_ref"].(string)
	assert.True(t, strings.HasPrefix(ref, "payomatix-ref-"), "got ref %q", ref)

	userID, cardID := reference.Decode(ref)
	assert.Equal(t, "abc123", userID)
	assert.Equal(t, "def456", cardID)
}

func TestCreatePaymentIntent_SplitsCustomerName(t *testing.T) {
	stub := newProcessorStub(t, http.StatusOK,
		`{"responseCode":300,"status":"redirect","redirect_url":"https://pay.example/x"}`)
	app := newTestApplication(intentConfig(stub.srv.URL))

	rr := postIntent(app, `{"amount":10,"currency":"USD","customerEmail":"jane@example.com","customerName":"Jane van Doe"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	assert.Equal(t, "Jane", stub.lastBody["first_name"])
	assert.Equal(t, "van Doe", stub.lastBody["last_name"])
}

func TestCreatePaymentIntent_ValidationAggregatesViolations(t *testing.T) {
	stub := newProcessorStub(t, http.StatusOK, `{}`)
	app := newTestApplication(intentConfig(stub.srv.URL))

	rr := postIntent(app, `{"amount":-5,"currency":"usd","customerEmail":"not-an-email"}`)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	out := decodeResponse(t, rr)
	assert.Equal(t, false, out["success"])

	errs, ok := out["errors"].([]any)
	require.True(t, ok, "expected errors list, got %v", out)
	assert.Len(t, errs, 3)

	assert.Equal(t, int64(0), stub.calls.Load(), "no outbound call on validation failure")
}

func TestCreatePaymentIntent_MissingRequiredFields(t *testing.T) {
	stub := newProcessorStub(t, http.StatusOK, `{}`)
	app := newTestApplication(intentConfig(stub.srv.URL))

	rr := postIntent(app, `{}`)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	out := decodeResponse(t, rr)

	errs, ok := out["errors"].([]any)
	require.True(t, ok)
	assert.Contains(t, errs, "amount is required.")
	assert.Contains(t, errs, "currency is required.")
	assert.Contains(t, errs, "customerEmail is required.")
	assert.Equal(t, int64(0), stub.calls.Load())
}

func TestCreatePaymentIntent_LargeAmountTwoDecimals(t *testing.T) {
	// Seven-figure amounts with exactly two decimal places are valid;
	// the decimal check must not degrade with magnitude.
	stub := newProcessorStub(t, http.StatusOK,
		`{"responseCode":300,"status":"redirect","redirect_url":"https://pay.example/x","merchant_ref":"R1"}`)
	app := newTestApplication(intentConfig(stub.srv.URL))

	rr := postIntent(app, `{"amount":1234567.89,"currency":"USD","customerEmail":"jane@example.com"}`)

	require.Equal(t, http.StatusOK, rr.Code, "body: %s", rr.Body.String())
	assert.Equal(t, "1234567.89", stub.lastBody["amount"])

	rr = postIntent(app, `{"amount":9999999.99,"currency":"USD","customerEmail":"jane@example.com"}`)
	require.Equal(t, http.StatusOK, rr.Code, "body: %s", rr.Body.String())
	assert.Equal(t, "9999999.99", stub.lastBody["amount"])
}

func TestCreatePaymentIntent_ZeroAmountMustBePositive(t *testing.T) {
	stub := newProcessorStub(t, http.StatusOK, `{}`)
	app := newTestApplication(intentConfig(stub.srv.URL))

	rr := postIntent(app, `{"amount":0,"currency":"USD","customerEmail":"jane@example.com"}`)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	out := decodeResponse(t, rr)
	errs, ok := out["errors"].([]any)
	require.True(t, ok)
	assert.Contains(t, errs, "amount must be positive.")
	assert.NotContains(t, errs, "amount is required.")
	assert.Equal(t, int64(0), stub.calls.Load())
}

func TestCreatePaymentIntent_TooManyDecimals(t *testing.T) {
	stub := newProcessorStub(t, http.StatusOK, `{}`)
	app := newTestApplication(intentConfig(stub.srv.URL))

	rr := postIntent(app, `{"amount":10.999,"currency":"USD","customerEmail":"jane@example.com"}`)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	out := decodeResponse(t, rr)
	errs, ok := out["errors"].([]any)
	require.True(t, ok)
	assert.Contains(t, errs, "amount must have at most 2 decimal places.")
	assert.Equal(t, int64(0), stub.calls.Load())
}

func TestCreatePaymentIntent_RedirectWithoutURL(t *testing.T) {
	stub := newProcessorStub(t, http.StatusOK, `{"responseCode":300,"status":"redirect"}`)
	app := newTestApplication(intentConfig(stub.srv.URL))

	rr := postIntent(app, `{"amount":10,"currency":"USD","customerEmail":"jane@example.com"}`)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	out := decodeResponse(t, rr)
	assert.Equal(t, false, out["success"])
	assert.NotNil(t, out["payomatixResponse"])
}

func TestCreatePaymentIntent_RejectionPassthrough(t *testing.T) {
	stub := newProcessorStub(t, http.StatusBadRequest,
		`{"responseCode":400,"status":"validation_error","response":"bad currency"}`)
	app := newTestApplication(intentConfig(stub.srv.URL))

	rr := postIntent(app, `{"amount":10,"currency":"USD","customerEmail":"jane@example.com"}`)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	out := decodeResponse(t, rr)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "bad currency", out["error"])
}

func TestCreatePaymentIntent_UnrecognizedResponse(t *testing.T) {
	stub := newProcessorStub(t, http.StatusOK, `{"responseCode":200,"status":"pending"}`)
	app := newTestApplication(intentConfig(stub.srv.URL))

	rr := postIntent(app, `{"amount":10,"currency":"USD","customerEmail":"jane@example.com"}`)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	out := decodeResponse(t, rr)
	assert.NotNil(t, out["payomatixResponse"])
}

func TestCreatePaymentIntent_NetworkFailure(t *testing.T) {
	stub := newProcessorStub(t, http.StatusOK, `{}`)
	stub.srv.Close() // processor unreachable
	app := newTestApplication(intentConfig(stub.srv.URL))

	rr := postIntent(app, `{"amount":10,"currency":"USD","customerEmail":"jane@example.com"}`)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	out := decodeResponse(t, rr)
	assert.Equal(t, false, out["success"])
	assert.NotEmpty(t, out["error"])
}

func TestSplitCustomerName(t *testing.T) {
	first, last := splitCustomerName("Jane Doe")
	assert.Equal(t, "Jane", first)
	assert.Equal(t, "Doe", last)

	first, last = splitCustomerName("Prince")
	assert.Equal(t, "Prince", first)
	assert.Empty(t, last)

	first, last = splitCustomerName("  ")
	assert.Empty(t, first)
	assert.Empty(t, last)
}

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tixmojo-server/internal/logger"
	"tixmojo-server/internal/payment"
	"tixmojo-server/internal/payment/phone"
	"tixmojo-server/internal/payment/processor"
	"tixmojo-server/internal/payment/promo"
	"tixmojo-server/internal/payment/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	log := logger.NewLogger()
	service := payment.NewService(payment.Options{
		Store:      store.NewMemoryStore(),
		Processor:  processor.NewSimulatedClient(),
		Promos:     promo.NewStaticResolver(),
		Phones:     phone.NewValidator(),
		Logger:     log,
		TTL:        10 * time.Minute,
		ServiceFee: decimal.NewFromInt(10),
		Currency:   "usd",
	})

	r := chi.NewRouter()
	r.Route("/api/payments", func(r chi.Router) {
		NewHandler(service, log).RegisterRoutes(r)
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, body map[string]interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	resp.Body.Close()
	return resp, decoded
}

func initializeSession(t *testing.T, server *httptest.Server) string {
	t.Helper()

	resp, body := postJSON(t, server.URL+"/api/payments/initialize", map[string]interface{}{
		"eventId": "evt_sydney_1",
		"cartItems": []map[string]interface{}{
			{"ticket": map[string]interface{}{"id": "tier_ga", "price": "50"}, "quantity": 1},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, true, body["success"])

	data := body["data"].(map[string]interface{})
	return data["sessionId"].(string)
}

func TestInitializeEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp, body := postJSON(t, server.URL+"/api/payments/initialize", map[string]interface{}{
		"eventId": "evt_sydney_1",
		"cartItems": []map[string]interface{}{
			{"ticket": map[string]interface{}{"id": "tier_ga", "price": 50}, "quantity": 2},
		},
	})

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Len(t, data["sessionId"], 32)

	totals := data["totals"].(map[string]interface{})
	assert.Equal(t, "110.00", totals["total"])
}

func TestInitializeValidationEnvelope(t *testing.T) {
	server := newTestServer(t)

	resp, body := postJSON(t, server.URL+"/api/payments/initialize", map[string]interface{}{
		"eventId": "",
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Invalid cart", body["message"])
	assert.NotEmpty(t, body["errors"])
}

func TestCheckoutFlowOverHTTP(t *testing.T) {
	server := newTestServer(t)
	sessionID := initializeSession(t, server)

	resp, body := postJSON(t, server.URL+"/api/payments/validate-buyer", map[string]interface{}{
		"sessionId": sessionID,
		"firstName": "Ava",
		"lastName":  "Nguyen",
		"email":     "ava@example.com",
		"phone":     "412 345 678",
		"countryCode": "AU",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, fmt.Sprint(body))

	resp, body = postJSON(t, server.URL+"/api/payments/apply-promo", map[string]interface{}{
		"sessionId": sessionID,
		"promoCode": "TIXMOJO10",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	promoData := body["data"].(map[string]interface{})
	assert.Equal(t, "10% discount applied", promoData["message"])

	resp, body = postJSON(t, server.URL+"/api/payments/create-payment-intent", map[string]interface{}{
		"sessionId": sessionID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	intentData := body["data"].(map[string]interface{})
	assert.Equal(t, true, intentData["isSimulated"])
	assert.Equal(t, float64(5500), intentData["amountInCents"])
	assert.Equal(t, "55.00", intentData["amount"])

	resp, body = postJSON(t, server.URL+"/api/payments/confirm-payment", map[string]interface{}{
		"sessionId":       sessionID,
		"paymentIntentId": intentData["paymentIntentId"],
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	confirmData := body["data"].(map[string]interface{})
	assert.Contains(t, confirmData["orderId"], "ORD-SIM-")

	statusResp, err := http.Get(server.URL + "/api/payments/session-status/" + sessionID)
	require.NoError(t, err)
	defer statusResp.Body.Close()
	var statusBody map[string]interface{}
	require.NoError(t, json.NewDecoder(statusResp.Body).Decode(&statusBody))
	statusData := statusBody["data"].(map[string]interface{})
	assert.Equal(t, "payment_completed", statusData["status"])
}

func TestUnknownSessionSharesExpiredMessage(t *testing.T) {
	server := newTestServer(t)

	resp, body := postJSON(t, server.URL+"/api/payments/create-payment-intent", map[string]interface{}{
		"sessionId": "deadbeefdeadbeefdeadbeefdeadbeef",
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid or expired session", body["message"])
}

func TestMalformedBodyRejected(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Post(server.URL+"/api/payments/initialize", "application/json", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestWebhookFailsClosedWithoutVerifier(t *testing.T) {
	server := newTestServer(t)

	resp, body := postJSON(t, server.URL+"/api/payments/webhook", map[string]interface{}{
		"type": "payment_intent.succeeded",
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, body["success"])
}

func TestSessionStatusUnknown(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/payments/session-status/unknown")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

package gateway

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketing-payments/signature"
)

func TestRazorpayCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "key_id", user)
		assert.Equal(t, "key_secret", pass)

		var body createOrderBody
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, int64(49900), body.Amount)
		assert.Equal(t, "INR", body.Currency)
		assert.Equal(t, "evt_1", body.Notes["event_id"])

		json.NewEncoder(w).Encode(GatewayOrder{
			ID: "order_abc", Amount: body.Amount, Currency: body.Currency,
			Receipt: body.Receipt, Status: "created",
		})
	}))
	defer srv.Close()

	c := NewRazorpayClient(srv.URL, "key_id", "key_secret", 5*time.Second)
	order, err := c.CreateOrder(context.Background(), 49900, "INR", "rcpt_1", map[string]string{"event_id": "evt_1"})
	require.NoError(t, err)
	assert.Equal(t, "order_abc", order.ID)
	assert.Equal(t, int64(49900), order.Amount)
}

func TestRazorpayCreateOrderGatewayRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"invalid api key"}}`))
	}))
	defer srv.Close()

	c := NewRazorpayClient(srv.URL, "bad", "creds", 5*time.Second)
	_, err := c.CreateOrder(context.Background(), 100, "INR", "rcpt_1", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestPhonePeInitiatePayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, signature.PayEndpoint, r.URL.Path)

		var wrapper struct {
			Request string `json:"request"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&wrapper))

		assert.Equal(t, signature.PayChecksum(wrapper.Request, "salt", "1"), r.Header.Get("X-VERIFY"))

		raw, err := base64.StdEncoding.DecodeString(wrapper.Request)
		require.NoError(t, err)
		var payload payPayload
		require.NoError(t, json.Unmarshal(raw, &payload))
		assert.Equal(t, "MID", payload.MerchantID)
		assert.Equal(t, "txn_1", payload.MerchantTransactionID)
		assert.Equal(t, int64(49900), payload.Amount)
		assert.Equal(t, "PAY_PAGE", payload.PaymentInstrument["type"])

		w.Write([]byte(`{"success":true,"code":"PAYMENT_INITIATED","data":{"instrumentResponse":{"redirectInfo":{"url":"https://pay.example/redirect"}}}}`))
	}))
	defer srv.Close()

	c := NewPhonePeClient(srv.URL, "MID", "salt", "1", 5*time.Second)
	resp, err := c.InitiatePayment(context.Background(), PayRequest{
		MerchantTransactionID: "txn_1",
		MerchantUserID:        "user_1",
		AmountMinor:           49900,
		RedirectURL:           "https://site.example/return",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/redirect", resp.PaymentURL)
}

func TestPhonePeInitiatePaymentRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"code":"BAD_REQUEST","message":"amount invalid"}`))
	}))
	defer srv.Close()

	c := NewPhonePeClient(srv.URL, "MID", "salt", "1", 5*time.Second)
	_, err := c.InitiatePayment(context.Background(), PayRequest{MerchantTransactionID: "txn_1", AmountMinor: -1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BAD_REQUEST")
}

func TestPhonePeCheckStatusHeadersAndPassthrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, signature.StatusEndpoint+"MID/txn_1", r.URL.Path)
		assert.Equal(t, "MID", r.Header.Get("X-MERCHANT-ID"))
		assert.Equal(t, signature.StatusChecksum("MID", "txn_1", "salt", "1"), r.Header.Get("X-VERIFY"))

		w.Write([]byte(`{"success":true,"code":"PAYMENT_PENDING","message":"in progress","data":{"state":"PENDING"}}`))
	}))
	defer srv.Close()

	c := NewPhonePeClient(srv.URL, "MID", "salt", "1", 5*time.Second)
	status, err := c.CheckStatus(context.Background(), "txn_1")
	require.NoError(t, err)
	assert.True(t, status.Success)
	assert.Equal(t, "PAYMENT_PENDING", status.Code)
	assert.Equal(t, "in progress", status.Message)
	assert.Equal(t, "PENDING", status.Data["state"])
}

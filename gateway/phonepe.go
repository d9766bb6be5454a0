package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ticketing-payments/signature"
)

// PhonePeClient talks to the family B gateway. Every request carries an
// X-VERIFY checksum derived from the salt key; status queries also carry
// X-MERCHANT-ID.
type PhonePeClient struct {
	baseURL    string
	merchantID string
	saltKey    string
	saltIndex  string
	client     *http.Client
}

// NewPhonePeClient creates a client for the pay/status API
func NewPhonePeClient(baseURL, merchantID, saltKey, saltIndex string, timeout time.Duration) *PhonePeClient {
	return &PhonePeClient{
		baseURL:    baseURL,
		merchantID: merchantID,
		saltKey:    saltKey,
		saltIndex:  saltIndex,
		client: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   timeout,
		},
	}
}

type payPayload struct {
	MerchantID            string         `json:"merchantId"`
	MerchantTransactionID string         `json:"merchantTransactionId"`
	MerchantUserID        string         `json:"merchantUserId"`
	Amount                int64          `json:"amount"`
	RedirectURL           string         `json:"redirectUrl,omitempty"`
	RedirectMode          string         `json:"redirectMode,omitempty"`
	CallbackURL           string         `json:"callbackUrl,omitempty"`
	MobileNumber          string         `json:"mobileNumber,omitempty"`
	PaymentInstrument     map[string]any `json:"paymentInstrument"`
}

type payEnvelope struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    struct {
		InstrumentResponse struct {
			RedirectInfo struct {
				URL string `json:"url"`
			} `json:"redirectInfo"`
		} `json:"instrumentResponse"`
	} `json:"data"`
}

// InitiatePayment registers a pay-page transaction and returns the URL the
// payer's browser must be redirected to.
func (c *PhonePeClient) InitiatePayment(ctx context.Context, req PayRequest) (*PayResponse, error) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(
		attribute.String("external.service", "phonepe"),
		attribute.String("transaction.id", req.MerchantTransactionID),
	)

	raw, err := json.Marshal(payPayload{
		MerchantID:            c.merchantID,
		MerchantTransactionID: req.MerchantTransactionID,
		MerchantUserID:        req.MerchantUserID,
		Amount:                req.AmountMinor,
		RedirectURL:           req.RedirectURL,
		RedirectMode:          "REDIRECT",
		CallbackURL:           req.CallbackURL,
		MobileNumber:          req.MobileNumber,
		PaymentInstrument:     map[string]any{"type": "PAY_PAGE"},
	})
	if err != nil {
		return nil, err
	}
	encoded := base64.StdEncoding.EncodeToString(raw)

	body, err := json.Marshal(map[string]string{"request": encoded})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+signature.PayEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-VERIFY", signature.PayChecksum(encoded, c.saltKey, c.saltIndex))

	resp, err := c.client.Do(httpReq)
	if err != nil {
		span.SetAttributes(attribute.String("external.status", "error"))
		return nil, fmt.Errorf("failed to call payment gateway: %w", err)
	}
	defer resp.Body.Close()

	var env payEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode pay response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Success {
		span.SetAttributes(
			attribute.Int("external.status_code", resp.StatusCode),
			attribute.String("external.status", "failed"),
		)
		return nil, fmt.Errorf("payment gateway rejected initiation: %s %s", env.Code, env.Message)
	}

	url := env.Data.InstrumentResponse.RedirectInfo.URL
	if url == "" {
		return nil, fmt.Errorf("payment gateway returned no redirect url")
	}

	span.SetAttributes(attribute.String("external.status", "success"))
	return &PayResponse{PaymentURL: url}, nil
}

// CheckStatus queries the gateway for a transaction's current state. The raw
// success flag, code and message come back untouched; interpreting them is
// the caller's job.
func (c *PhonePeClient) CheckStatus(ctx context.Context, merchantTransactionID string) (*StatusResponse, error) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(
		attribute.String("external.service", "phonepe"),
		attribute.String("transaction.id", merchantTransactionID),
	)

	url := c.baseURL + signature.StatusEndpoint + c.merchantID + "/" + merchantTransactionID
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-VERIFY", signature.StatusChecksum(c.merchantID, merchantTransactionID, c.saltKey, c.saltIndex))
	req.Header.Set("X-MERCHANT-ID", c.merchantID)

	resp, err := c.client.Do(req)
	if err != nil {
		span.SetAttributes(attribute.String("external.status", "error"))
		return nil, fmt.Errorf("failed to call payment gateway: %w", err)
	}
	defer resp.Body.Close()

	var status StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("decode status response: %w", err)
	}

	span.SetAttributes(
		attribute.String("transaction.code", status.Code),
		attribute.String("external.status", "success"),
	)
	return &status, nil
}

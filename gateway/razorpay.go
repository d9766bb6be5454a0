package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RazorpayClient talks to the family A gateway's REST API with basic auth
type RazorpayClient struct {
	baseURL string
	keyID   string
	secret  string
	client  *http.Client
}

// NewRazorpayClient creates a client for the order API
func NewRazorpayClient(baseURL, keyID, secret string, timeout time.Duration) *RazorpayClient {
	return &RazorpayClient{
		baseURL: baseURL,
		keyID:   keyID,
		secret:  secret,
		client: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   timeout,
		},
	}
}

type createOrderBody struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type gatewayErrorBody struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder requests a new order from the gateway. Amount is in minor units.
func (c *RazorpayClient) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (*GatewayOrder, error) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(
		attribute.String("external.service", "razorpay"),
		attribute.Int64("order.amount_minor", amountMinor),
	)

	body, err := json.Marshal(createOrderBody{
		Amount:   amountMinor,
		Currency: currency,
		Receipt:  receipt,
		Notes:    notes,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.secret)

	resp, err := c.client.Do(req)
	if err != nil {
		span.SetAttributes(attribute.String("external.status", "error"))
		return nil, fmt.Errorf("failed to call order gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		span.SetAttributes(
			attribute.Int("external.status_code", resp.StatusCode),
			attribute.String("external.status", "failed"),
		)
		raw, _ := io.ReadAll(resp.Body)
		var geb gatewayErrorBody
		if json.Unmarshal(raw, &geb) == nil && geb.Error.Description != "" {
			return nil, fmt.Errorf("order gateway returned status %d: %s", resp.StatusCode, geb.Error.Description)
		}
		return nil, fmt.Errorf("order gateway returned status %d", resp.StatusCode)
	}

	var order GatewayOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("decode order response: %w", err)
	}

	span.SetAttributes(
		attribute.String("order.id", order.ID),
		attribute.String("external.status", "success"),
	)
	return &order, nil
}

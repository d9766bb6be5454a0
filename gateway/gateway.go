// Package gateway contains the HTTP clients for both payment gateway
// families. Consumers depend on the small interfaces here so tests can swap
// in counting fakes.
package gateway

import "context"

// GatewayOrder is an order handle issued by the family A gateway
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// OrderCreator creates payment orders with the family A gateway
type OrderCreator interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (*GatewayOrder, error)
}

// PayRequest is the family B payment-initiation payload
type PayRequest struct {
	MerchantTransactionID string
	MerchantUserID        string
	AmountMinor           int64
	RedirectURL           string
	CallbackURL           string
	MobileNumber          string
}

// PayResponse carries the redirect URL the payer must be sent to
type PayResponse struct {
	PaymentURL string
}

// StatusResponse is the family B gateway's answer to a status query.
// Code carries gateway states such as "PAYMENT_SUCCESS" or "PAYMENT_PENDING".
type StatusResponse struct {
	Success bool           `json:"success"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

// RedirectGateway is the family B client surface
type RedirectGateway interface {
	InitiatePayment(ctx context.Context, req PayRequest) (*PayResponse, error)
	CheckStatus(ctx context.Context, merchantTransactionID string) (*StatusResponse, error)
}

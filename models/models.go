package models

// CustomerInfo identifies the buyer on an order
type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// CreateOrderRequest is the checkout payload from the frontend.
// Amount is in major units (rupees); the service converts to minor units.
type CreateOrderRequest struct {
	Amount       float64      `json:"amount"`
	Currency     string       `json:"currency"`
	EventID      string       `json:"eventId"`
	TicketID     string       `json:"ticketId"`
	Quantity     int          `json:"quantity"`
	CustomerInfo CustomerInfo `json:"customerInfo"`
}

// Order is the gateway-issued payment intent embedded into the checkout widget
type Order struct {
	ID       string `json:"id"`
	Currency string `json:"currency"`
	Amount   int64  `json:"amount"` // minor units
}

// VerifyPaymentRequest is the callback the checkout widget posts after a charge
type VerifyPaymentRequest struct {
	OrderID      string       `json:"razorpay_order_id"`
	PaymentID    string       `json:"razorpay_payment_id"`
	Signature    string       `json:"razorpay_signature"`
	CustomerInfo CustomerInfo `json:"customerInfo"`
	EventID      string       `json:"eventId"`
	TicketID     string       `json:"ticketId"`
	Quantity     int          `json:"quantity"`
	Amount       float64      `json:"amount"`
}

// VerificationResult is the outcome of verifying a payment callback
type VerificationResult struct {
	Verified      bool   `json:"verified"`
	BookingID     string `json:"bookingId,omitempty"`
	FailureReason string `json:"failureReason,omitempty"`
}

// InitiatePaymentRequest starts a redirect-based checkout.
// MerchantTransactionID is the caller-chosen idempotency key.
type InitiatePaymentRequest struct {
	Amount                float64 `json:"amount"`
	MerchantTransactionID string  `json:"merchantTransactionId"`
	MerchantUserID        string  `json:"merchantUserId"`
	RedirectURL           string  `json:"redirectUrl,omitempty"`
	CallbackURL           string  `json:"callbackUrl,omitempty"`
	MobileNumber          string  `json:"mobileNumber,omitempty"`
}

// InitiatePaymentResult carries the gateway redirect the browser must follow
type InitiatePaymentResult struct {
	PaymentURL            string `json:"paymentUrl"`
	MerchantTransactionID string `json:"merchantTransactionId"`
}

// StatusCheckRequest asks the gateway for a transaction's final status
type StatusCheckRequest struct {
	MerchantTransactionID string `json:"merchantTransactionId"`
}

// StatusResult reports a status query outcome. Code and Message are the
// gateway's own values, surfaced verbatim so "PAYMENT_PENDING" is never
// flattened into a generic failure.
type StatusResult struct {
	Success bool           `json:"success"`
	Code    string         `json:"code,omitempty"`
	Message string         `json:"message,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

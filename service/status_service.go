package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"ticketing-payments/booking"
	"ticketing-payments/gateway"
	"ticketing-payments/logging"
	"ticketing-payments/models"
	"ticketing-payments/monitoring"
)

// paymentSuccessCode is the one gateway code that means the money moved
const paymentSuccessCode = "PAYMENT_SUCCESS"

// StatusService owns the redirect-based gateway flow: payment initiation and
// active status polling. The client-supplied callback is never trusted; the
// gateway is asked directly.
type StatusService struct {
	tracer     trace.Tracer
	gw         gateway.RedirectGateway
	merchantID string
	saltKey    string
	store      booking.Store
	notifier   booking.Notifier
}

// NewStatusService creates the family B payment service
func NewStatusService(tracer trace.Tracer, gw gateway.RedirectGateway, merchantID, saltKey string, store booking.Store, notifier booking.Notifier) *StatusService {
	return &StatusService{
		tracer:     tracer,
		gw:         gw,
		merchantID: merchantID,
		saltKey:    saltKey,
		store:      store,
		notifier:   notifier,
	}
}

func (s *StatusService) configured() bool {
	return s.merchantID != "" && s.saltKey != ""
}

// InitiatePayment registers a pay-page transaction with the gateway and
// returns the redirect URL for the payer's browser.
func (s *StatusService) InitiatePayment(ctx context.Context, req *models.InitiatePaymentRequest) (*models.InitiatePaymentResult, error) {
	ctx, span := s.tracer.Start(ctx, "initiate_payment")
	defer span.End()

	if !s.configured() {
		return nil, ErrNotConfigured
	}
	if req.MerchantTransactionID == "" {
		return nil, &ValidationError{Field: "merchantTransactionId"}
	}
	amountMinor, err := MinorUnits(req.Amount)
	if err != nil {
		return nil, err
	}
	if amountMinor == 0 {
		return nil, &ValidationError{Field: "amount"}
	}

	span.SetAttributes(
		attribute.String("transaction.id", req.MerchantTransactionID),
		attribute.Int64("order.amount_minor", amountMinor),
	)

	start := time.Now()
	resp, err := s.gw.InitiatePayment(ctx, gateway.PayRequest{
		MerchantTransactionID: req.MerchantTransactionID,
		MerchantUserID:        req.MerchantUserID,
		AmountMinor:           amountMinor,
		RedirectURL:           req.RedirectURL,
		CallbackURL:           req.CallbackURL,
		MobileNumber:          req.MobileNumber,
	})
	monitoring.GatewayCallDuration.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("gateway", "phonepe"), attribute.String("operation", "initiate")),
	)
	if err != nil {
		logging.WithTraceContext(span).Error("Payment initiation failed",
			zap.Error(err),
			zap.String("merchant_transaction_id", req.MerchantTransactionID),
		)
		span.SetAttributes(attribute.String("payment.status", "failed"))
		return nil, &GatewayError{Err: err}
	}

	monitoring.OrderCounter.Add(ctx, 1,
		metric.WithAttributes(attribute.String("currency", defaultCurrency)),
	)
	monitoring.OrderAmount.Record(ctx, amountMinor,
		metric.WithAttributes(attribute.String("currency", defaultCurrency)),
	)
	span.SetAttributes(attribute.String("payment.status", "initiated"))

	return &models.InitiatePaymentResult{
		PaymentURL:            resp.PaymentURL,
		MerchantTransactionID: req.MerchantTransactionID,
	}, nil
}

// CheckStatus queries the gateway for a transaction's final state. Success
// requires both the response success flag and the PAYMENT_SUCCESS code; any
// other combination comes back as non-success with the gateway's own code and
// message intact. On success the booking is finalized, keyed on the merchant
// transaction id.
func (s *StatusService) CheckStatus(ctx context.Context, merchantTransactionID string) (*models.StatusResult, error) {
	ctx, span := s.tracer.Start(ctx, "check_status")
	defer span.End()

	if !s.configured() {
		return nil, ErrNotConfigured
	}
	if merchantTransactionID == "" {
		return nil, &ValidationError{Field: "merchantTransactionId"}
	}

	span.SetAttributes(attribute.String("transaction.id", merchantTransactionID))
	logger := logging.WithTraceContext(span)

	start := time.Now()
	resp, err := s.gw.CheckStatus(ctx, merchantTransactionID)
	monitoring.GatewayCallDuration.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("gateway", "phonepe"), attribute.String("operation", "status")),
	)
	if err != nil {
		// Operational failure, distinct from a legitimate non-success status.
		logger.Error("Status query failed",
			zap.Error(err),
			zap.String("merchant_transaction_id", merchantTransactionID),
		)
		span.SetAttributes(attribute.String("payment.status", "error"))
		return nil, &GatewayError{Err: err}
	}

	if !resp.Success || resp.Code != paymentSuccessCode {
		logger.Info("Payment not successful",
			zap.String("merchant_transaction_id", merchantTransactionID),
			zap.Bool("gateway_success", resp.Success),
			zap.String("gateway_code", resp.Code),
		)
		monitoring.VerificationCounter.Add(ctx, 1,
			metric.WithAttributes(attribute.String("gateway", "phonepe"), attribute.String("outcome", "rejected")),
		)
		span.SetAttributes(attribute.String("payment.status", resp.Code))
		return &models.StatusResult{
			Success: false,
			Code:    resp.Code,
			Message: resp.Message,
			Data:    resp.Data,
		}, nil
	}

	stored, err := s.finalize(ctx, merchantTransactionID, resp)
	if err != nil {
		return nil, err
	}

	monitoring.VerificationCounter.Add(ctx, 1,
		metric.WithAttributes(attribute.String("gateway", "phonepe"), attribute.String("outcome", "verified")),
	)
	span.SetAttributes(
		attribute.String("payment.status", "verified"),
		attribute.String("booking.id", stored.BookingID),
	)
	logger.Info("Payment verified",
		zap.String("merchant_transaction_id", merchantTransactionID),
		zap.String("booking_id", stored.BookingID),
	)

	data := resp.Data
	if data == nil {
		data = map[string]any{}
	}
	data["bookingId"] = stored.BookingID

	return &models.StatusResult{
		Success: true,
		Code:    resp.Code,
		Message: resp.Message,
		Data:    data,
	}, nil
}

func (s *StatusService) finalize(ctx context.Context, merchantTransactionID string, resp *gateway.StatusResponse) (*booking.Booking, error) {
	var amountMinor int64
	if v, ok := resp.Data["amount"].(float64); ok {
		amountMinor = int64(v)
	}

	draft := booking.Booking{
		BookingID:   newBookingID(),
		PaymentRef:  merchantTransactionID,
		AmountMinor: amountMinor,
		Status:      booking.StatusConfirmed,
		CreatedAt:   time.Now().UTC(),
	}

	stored, err := s.store.Create(ctx, draft)
	if err != nil {
		return nil, err
	}
	if stored.BookingID == draft.BookingID {
		monitoring.BookingCounter.Add(ctx, 1,
			metric.WithAttributes(attribute.String("gateway", "phonepe")),
		)
		if err := s.notifier.Notify(ctx, *stored); err != nil {
			logging.Warn("Booking notification failed",
				zap.Error(err),
				zap.String("booking_id", stored.BookingID),
			)
		}
	}
	return stored, nil
}

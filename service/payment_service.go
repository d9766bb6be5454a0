package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"ticketing-payments/booking"
	"ticketing-payments/gateway"
	"ticketing-payments/logging"
	"ticketing-payments/models"
	"ticketing-payments/monitoring"
	"ticketing-payments/signature"
)

const defaultCurrency = "INR"

// bookingSeq disambiguates booking ids minted within the same millisecond
var bookingSeq atomic.Uint64

func newBookingID() string {
	return fmt.Sprintf("BKG%d%04d", time.Now().UnixMilli(), bookingSeq.Add(1)%10000)
}

// PaymentService owns the order-based gateway flow: order creation, callback
// verification and booking finalization.
type PaymentService struct {
	tracer    trace.Tracer
	orders    gateway.OrderCreator
	keySecret string
	store     booking.Store
	notifier  booking.Notifier
}

// NewPaymentService creates the family A payment service
func NewPaymentService(tracer trace.Tracer, orders gateway.OrderCreator, keySecret string, store booking.Store, notifier booking.Notifier) *PaymentService {
	return &PaymentService{
		tracer:    tracer,
		orders:    orders,
		keySecret: keySecret,
		store:     store,
		notifier:  notifier,
	}
}

// CreateOrder converts the checkout amount to minor units and registers an
// order with the gateway. The receipt id carries a random component so
// concurrent checkouts in the same millisecond cannot collide.
func (s *PaymentService) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	ctx, span := s.tracer.Start(ctx, "create_order")
	defer span.End()

	if s.keySecret == "" {
		return nil, ErrNotConfigured
	}

	amountMinor, err := MinorUnits(req.Amount)
	if err != nil {
		return nil, err
	}
	if amountMinor == 0 {
		return nil, &ValidationError{Field: "amount"}
	}

	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	span.SetAttributes(
		attribute.Int64("order.amount_minor", amountMinor),
		attribute.String("order.currency", currency),
		attribute.String("order.event_id", req.EventID),
	)

	receipt := "rcpt_" + uuid.NewString()
	notes := map[string]string{
		"event_id":       req.EventID,
		"ticket_id":      req.TicketID,
		"quantity":       fmt.Sprintf("%d", req.Quantity),
		"customer_name":  req.CustomerInfo.Name,
		"customer_email": req.CustomerInfo.Email,
		"customer_phone": req.CustomerInfo.Phone,
	}

	start := time.Now()
	order, err := s.orders.CreateOrder(ctx, amountMinor, currency, receipt, notes)
	monitoring.GatewayCallDuration.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("gateway", "razorpay"), attribute.String("operation", "create_order")),
	)
	if err != nil {
		logger := logging.WithTraceContext(span)
		logger.Error("Order creation failed",
			zap.Error(err),
			zap.String("event_id", req.EventID),
			zap.Int64("amount_minor", amountMinor),
		)
		span.SetAttributes(attribute.String("order.status", "failed"))
		return nil, &GatewayError{Err: err}
	}

	monitoring.OrderCounter.Add(ctx, 1,
		metric.WithAttributes(attribute.String("currency", currency)),
	)
	monitoring.OrderAmount.Record(ctx, amountMinor,
		metric.WithAttributes(attribute.String("currency", currency)),
	)
	span.SetAttributes(
		attribute.String("order.id", order.ID),
		attribute.String("order.status", "created"),
	)

	return &models.Order{
		ID:       order.ID,
		Currency: order.Currency,
		Amount:   order.Amount,
	}, nil
}

// VerifyPayment authenticates a completed-payment callback against the
// recomputed order signature and finalizes the booking when it checks out.
// A mismatch is a business outcome, not an error.
func (s *PaymentService) VerifyPayment(ctx context.Context, req *models.VerifyPaymentRequest) (*models.VerificationResult, error) {
	ctx, span := s.tracer.Start(ctx, "verify_payment")
	defer span.End()

	if s.keySecret == "" {
		return nil, ErrNotConfigured
	}
	switch {
	case req.OrderID == "":
		return nil, &ValidationError{Field: "razorpay_order_id"}
	case req.PaymentID == "":
		return nil, &ValidationError{Field: "razorpay_payment_id"}
	case req.Signature == "":
		return nil, &ValidationError{Field: "razorpay_signature"}
	}

	span.SetAttributes(
		attribute.String("payment.order_id", req.OrderID),
		attribute.String("payment.id", req.PaymentID),
	)
	logger := logging.WithTraceContext(span)

	if !signature.VerifyOrderSignature(req.OrderID, req.PaymentID, req.Signature, s.keySecret) {
		// Both digests go to the audit log; the secret never does.
		logger.Warn("Payment signature mismatch",
			zap.String("order_id", req.OrderID),
			zap.String("payment_id", req.PaymentID),
			zap.String("expected_digest", signature.OrderDigest(req.OrderID, req.PaymentID, s.keySecret)),
			zap.String("received_digest", req.Signature),
		)
		monitoring.VerificationCounter.Add(ctx, 1,
			metric.WithAttributes(attribute.String("gateway", "razorpay"), attribute.String("outcome", "rejected")),
		)
		span.SetAttributes(attribute.String("payment.status", "rejected"))
		return &models.VerificationResult{
			Verified:      false,
			FailureReason: "signature verification failed",
		}, nil
	}

	// The client-supplied amount is informational only; the charge was fixed
	// at order creation. An unusable value is stored as zero, not rejected.
	amountMinor, err := MinorUnits(req.Amount)
	if err != nil {
		logger.Warn("Callback amount unusable, recording zero on booking",
			zap.Float64("amount", req.Amount),
			zap.String("order_id", req.OrderID),
			zap.String("payment_id", req.PaymentID),
		)
		amountMinor = 0
	}

	stored, err := s.finalize(ctx, booking.Booking{
		BookingID:   newBookingID(),
		PaymentRef:  req.PaymentID,
		OrderID:     req.OrderID,
		EventID:     req.EventID,
		TicketID:    req.TicketID,
		Quantity:    req.Quantity,
		BuyerName:   req.CustomerInfo.Name,
		BuyerEmail:  req.CustomerInfo.Email,
		BuyerPhone:  req.CustomerInfo.Phone,
		AmountMinor: amountMinor,
	})
	if err != nil {
		return nil, err
	}

	monitoring.VerificationCounter.Add(ctx, 1,
		metric.WithAttributes(attribute.String("gateway", "razorpay"), attribute.String("outcome", "verified")),
	)
	span.SetAttributes(
		attribute.String("payment.status", "verified"),
		attribute.String("booking.id", stored.BookingID),
	)
	logger.Info("Payment verified",
		zap.String("order_id", req.OrderID),
		zap.String("payment_id", req.PaymentID),
		zap.String("booking_id", stored.BookingID),
	)

	return &models.VerificationResult{
		Verified:  true,
		BookingID: stored.BookingID,
	}, nil
}

// finalize persists the booking through the store (insert-if-absent keyed on
// the payment reference) and fires the notifier. A replayed callback gets the
// originally minted booking back.
func (s *PaymentService) finalize(ctx context.Context, draft booking.Booking) (*booking.Booking, error) {
	draft.Status = booking.StatusConfirmed
	draft.CreatedAt = time.Now().UTC()

	stored, err := s.store.Create(ctx, draft)
	if err != nil {
		return nil, err
	}

	if stored.BookingID == draft.BookingID {
		monitoring.BookingCounter.Add(ctx, 1,
			metric.WithAttributes(attribute.String("gateway", "razorpay")),
		)
		if err := s.notifier.Notify(ctx, *stored); err != nil {
			// Confirmation messaging is best-effort; the booking stands.
			logging.Warn("Booking notification failed",
				zap.Error(err),
				zap.String("booking_id", stored.BookingID),
			)
		}
	}
	return stored, nil
}

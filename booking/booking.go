// Package booking holds the confirmed-registration record and the sinks a
// verified payment is finalized through.
package booking

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StatusConfirmed is the only terminal status a minted booking can carry
const StatusConfirmed = "confirmed"

// Booking is the application-level record of a confirmed registration.
// PaymentRef is the gateway's own payment id (family A) or the merchant
// transaction id (family B) and is the idempotency key for creation.
type Booking struct {
	BookingID   string    `bson:"bookingId" json:"bookingId"`
	PaymentRef  string    `bson:"paymentRef" json:"paymentRef"`
	OrderID     string    `bson:"orderId,omitempty" json:"orderId,omitempty"`
	EventID     string    `bson:"eventId,omitempty" json:"eventId,omitempty"`
	TicketID    string    `bson:"ticketId,omitempty" json:"ticketId,omitempty"`
	Quantity    int       `bson:"quantity,omitempty" json:"quantity,omitempty"`
	BuyerName   string    `bson:"buyerName,omitempty" json:"buyerName,omitempty"`
	BuyerEmail  string    `bson:"buyerEmail,omitempty" json:"buyerEmail,omitempty"`
	BuyerPhone  string    `bson:"buyerPhone,omitempty" json:"buyerPhone,omitempty"`
	AmountMinor int64     `bson:"amountMinor" json:"amountMinor"`
	Status      string    `bson:"status" json:"status"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}

// Store persists bookings. Create is an insert-if-absent keyed on PaymentRef:
// a replayed callback gets the original booking back, never a second one.
type Store interface {
	Create(ctx context.Context, b Booking) (*Booking, error)
	FindByPaymentRef(ctx context.Context, paymentRef string) (*Booking, error)
}

// Notifier delivers the confirmation message for a finalized booking
type Notifier interface {
	Notify(ctx context.Context, b Booking) error
}

// LogNotifier is the default Notifier; it only records the confirmation in
// the logs. A mail or message-broker implementation plugs in behind the same
// interface.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a log-only notifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the booking confirmation
func (n *LogNotifier) Notify(_ context.Context, b Booking) error {
	n.logger.Info("Booking confirmed",
		zap.String("booking_id", b.BookingID),
		zap.String("payment_ref", b.PaymentRef),
		zap.String("buyer_email", b.BuyerEmail),
		zap.Int64("amount_minor", b.AmountMinor),
	)
	return nil
}

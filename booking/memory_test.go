package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreCreateIsIdempotent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	first, err := s.Create(ctx, Booking{
		BookingID:   "BKG1700000000000",
		PaymentRef:  "pay_123",
		AmountMinor: 49900,
		Status:      StatusConfirmed,
		CreatedAt:   time.Now().UTC(),
	})
	require.NoError(t, err)

	// Replay with a different minted id must return the original booking.
	second, err := s.Create(ctx, Booking{
		BookingID:  "BKG1700000099999",
		PaymentRef: "pay_123",
	})
	require.NoError(t, err)
	assert.Equal(t, first.BookingID, second.BookingID)
	assert.Equal(t, int64(49900), second.AmountMinor)
}

func TestMemoryStoreFindByPaymentRef(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.FindByPaymentRef(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Create(ctx, Booking{BookingID: "BKG1", PaymentRef: "pay_9"})
	require.NoError(t, err)

	got, err := s.FindByPaymentRef(ctx, "pay_9")
	require.NoError(t, err)
	assert.Equal(t, "BKG1", got.BookingID)
}

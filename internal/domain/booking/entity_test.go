//go:build unit

package booking_test

import (
	"testing"
	"time"

	"unified-checkout/internal/domain/booking"
	"unified-checkout/internal/domain/cart"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func baseDraft(start time.Time) cart.BookingDraft {
	return cart.BookingDraft{
		ID:          uuid.New(),
		ServiceID:   uuid.New(),
		ServiceName: "Haircut",
		PriceCents:  2500,
		StartTime:   start,
		EndTime:     start.Add(30 * time.Minute),
		Timezone:    "America/New_York",
	}
}

func TestNewBookingFromDraft(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	start := now.Add(24 * time.Hour)

	t.Run("materializes confirmed with pending calendar sync", func(t *testing.T) {
		contact := booking.CheckoutContact{Name: "Ada", Email: "ada@example.com"}

		b, err := booking.NewBookingFromDraft(
			uuid.New(), uuid.New(), baseDraft(start), contact,
			2500, booking.PaymentPaid, "pay_123", now,
		)
		require.NoError(t, err)

		assert.Equal(t, booking.StatusConfirmed, b.Status())
		assert.Equal(t, booking.SyncPending, b.CalendarSyncStatus())
		assert.Equal(t, int32(30), b.DurationMinutes())
		assert.Equal(t, int64(2500), b.PaymentAmountCents())
		assert.Equal(t, "pay_123", b.PaymentID())
		assert.Equal(t, "Haircut", b.ServiceName())
	})

	t.Run("checkout contact overrides draft values", func(t *testing.T) {
		draft := baseDraft(start)
		draft.CustomerName = strPtr("Draft Name")
		draft.CustomerEmail = strPtr("draft@example.com")
		draft.CustomerPhone = strPtr("555-0000")

		contact := booking.CheckoutContact{
			Name:  "Checkout Name",
			Email: "checkout@example.com",
			Phone: strPtr("555-1111"),
		}

		b, err := booking.NewBookingFromDraft(
			uuid.New(), uuid.New(), draft, contact,
			2500, booking.PaymentPaid, "pay_123", now,
		)
		require.NoError(t, err)

		assert.Equal(t, "Checkout Name", b.CustomerName())
		assert.Equal(t, "checkout@example.com", b.CustomerEmail())
		require.NotNil(t, b.CustomerPhone())
		assert.Equal(t, "555-1111", *b.CustomerPhone())
	})

	t.Run("falls back to draft contact when checkout omits it", func(t *testing.T) {
		draft := baseDraft(start)
		draft.CustomerEmail = strPtr("draft@example.com")
		draft.CustomerPhone = strPtr("555-0000")

		b, err := booking.NewBookingFromDraft(
			uuid.New(), uuid.New(), draft, booking.CheckoutContact{Name: "Ada"},
			2500, booking.PaymentPaid, "pay_123", now,
		)
		require.NoError(t, err)

		assert.Equal(t, "draft@example.com", b.CustomerEmail())
		require.NotNil(t, b.CustomerPhone())
		assert.Equal(t, "555-0000", *b.CustomerPhone())
	})

	t.Run("requires an email from somewhere", func(t *testing.T) {
		_, err := booking.NewBookingFromDraft(
			uuid.New(), uuid.New(), baseDraft(start), booking.CheckoutContact{Name: "Ada"},
			2500, booking.PaymentPaid, "pay_123", now,
		)
		assert.ErrorIs(t, err, booking.ErrMissingCustomerEmail)
	})

	t.Run("rejects an inverted slot", func(t *testing.T) {
		draft := baseDraft(start)
		draft.EndTime = draft.StartTime.Add(-time.Minute)

		_, err := booking.NewBookingFromDraft(
			uuid.New(), uuid.New(), draft, booking.CheckoutContact{Email: "a@b.c"},
			2500, booking.PaymentPaid, "pay_123", now,
		)
		assert.ErrorIs(t, err, booking.ErrInvalidSlot)
	})

	t.Run("pending payment status is carried through", func(t *testing.T) {
		b, err := booking.NewBookingFromDraft(
			uuid.New(), uuid.New(), baseDraft(start),
			booking.CheckoutContact{Email: "ada@example.com"},
			2500, booking.PaymentPending, "pay_123", now,
		)
		require.NoError(t, err)
		assert.Equal(t, booking.PaymentPending, b.PaymentStatus())
	})
}

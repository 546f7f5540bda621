//go:build unit

package cart_test

import (
	"testing"
	"time"

	"unified-checkout/internal/domain/cart"
	"unified-checkout/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItem(t *testing.T) {
	t.Run("recomputes line total from unit price", func(t *testing.T) {
		item, err := cart.NewItem(uuid.New(), uuid.New(), cart.ItemTypeProduct, "Widget", 1000, 3)
		require.NoError(t, err)

		assert.Equal(t, int64(3000), item.LineTotal().Cents())
		assert.True(t, item.IsProduct())
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := cart.NewItem(uuid.New(), uuid.New(), cart.ItemTypeProduct, "Widget", 1000, 0)
		assert.ErrorIs(t, err, cart.ErrInvalidQuantity)

		_, err = cart.NewItem(uuid.New(), uuid.New(), cart.ItemTypeProduct, "Widget", 1000, -1)
		assert.ErrorIs(t, err, cart.ErrInvalidQuantity)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		_, err := cart.NewItem(uuid.New(), uuid.New(), cart.ItemTypeProduct, "Widget", -1, 1)
		assert.ErrorIs(t, err, cart.ErrNegativePrice)
	})
}

func TestCheckoutEligible(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("active unexpired non-empty cart is eligible", func(t *testing.T) {
		c := builder.NewCartBuilder().WithExpiresAt(now.Add(time.Hour)).MustBuild()
		assert.NoError(t, c.CheckoutEligible(now))
	})

	t.Run("checked out cart is rejected", func(t *testing.T) {
		c := builder.NewCartBuilder().
			WithStatus(cart.StatusCheckedOut).
			WithExpiresAt(now.Add(time.Hour)).
			MustBuild()
		assert.ErrorIs(t, c.CheckoutEligible(now), cart.ErrCartNotActive)
	})

	t.Run("abandoned cart is rejected", func(t *testing.T) {
		c := builder.NewCartBuilder().
			WithStatus(cart.StatusAbandoned).
			WithExpiresAt(now.Add(time.Hour)).
			MustBuild()
		assert.ErrorIs(t, c.CheckoutEligible(now), cart.ErrCartNotActive)
	})

	t.Run("expired cart is rejected", func(t *testing.T) {
		c := builder.NewCartBuilder().WithExpiresAt(now.Add(-time.Minute)).MustBuild()
		assert.ErrorIs(t, c.CheckoutEligible(now), cart.ErrCartExpired)
	})

	t.Run("zero expiry means no expiry", func(t *testing.T) {
		c := builder.NewCartBuilder().WithExpiresAt(time.Time{}).MustBuild()
		assert.NoError(t, c.CheckoutEligible(now))
	})

	t.Run("empty cart is rejected", func(t *testing.T) {
		c := builder.NewCartBuilder().
			Empty().
			WithExpiresAt(now.Add(time.Hour)).
			MustBuild()
		assert.ErrorIs(t, c.CheckoutEligible(now), cart.ErrEmptyCart)
	})

	t.Run("booking-only cart is not empty", func(t *testing.T) {
		c := builder.NewCartBuilder().
			Empty().
			WithBooking("Haircut", 2500, now, now.Add(30*time.Minute)).
			WithExpiresAt(now.Add(time.Hour)).
			MustBuild()
		assert.NoError(t, c.CheckoutEligible(now))
	})
}

func TestProductItems(t *testing.T) {
	c := builder.NewCartBuilder().MustBuild()

	products := c.ProductItems()
	require.Len(t, products, 1)
	assert.Equal(t, "Widget", products[0].Name())
	assert.True(t, c.HasProductItems())
	assert.Equal(t, int64(2000), c.ItemsSubtotal().Cents())
}

func TestSessionToken(t *testing.T) {
	t.Run("trims whitespace", func(t *testing.T) {
		token, err := cart.NewSessionToken("  tok-1  ")
		require.NoError(t, err)
		assert.Equal(t, "tok-1", token.String())
	})

	t.Run("rejects empty", func(t *testing.T) {
		_, err := cart.NewSessionToken("   ")
		assert.Error(t, err)
	})
}

func TestBookingDraftDuration(t *testing.T) {
	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	draft := cart.BookingDraft{StartTime: start, EndTime: start.Add(90 * time.Minute)}
	assert.Equal(t, int32(90), draft.DurationMinutes())
}

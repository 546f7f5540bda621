//go:build unit

package checkout_test

import (
	"testing"
	"time"

	"unified-checkout/internal/domain/checkout"
	"unified-checkout/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestCalculateTotals(t *testing.T) {
	t.Run("products plus booking", func(t *testing.T) {
		// 2 x $10.00 product + $25.00 service: subtotal 2500, tax 200, total 2700.
		start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
		c := builder.NewCartBuilder().
			WithBooking("Haircut", 500, start, start.Add(30*time.Minute)).
			MustBuild()

		totals := checkout.CalculateTotals(c)

		assert.Equal(t, int64(2000), totals.ItemsSubtotal.Cents())
		assert.Equal(t, int64(500), totals.BookingPortion.Cents())
		assert.Equal(t, int64(2500), totals.Subtotal.Cents())
		assert.Equal(t, int64(200), totals.Tax.Cents())
		assert.Equal(t, int64(2700), totals.Total.Cents())
	})

	t.Run("order subtotal excludes the booking portion", func(t *testing.T) {
		start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
		c := builder.NewCartBuilder().
			WithBooking("Massage", 2500, start, start.Add(time.Hour)).
			MustBuild()

		totals := checkout.CalculateTotals(c)

		assert.Equal(t, int64(2000), totals.OrderSubtotal().Cents())
	})

	t.Run("booking-only cart", func(t *testing.T) {
		start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
		c := builder.NewCartBuilder().
			Empty().
			WithBooking("Consult", 9999, start, start.Add(45*time.Minute)).
			MustBuild()

		totals := checkout.CalculateTotals(c)

		want := map[string]int64{
			"items":   0,
			"booking": 9999,
			"tax":     800, // 799.92 rounds up
			"total":   10799,
		}
		got := map[string]int64{
			"items":   totals.ItemsSubtotal.Cents(),
			"booking": totals.BookingPortion.Cents(),
			"tax":     totals.Tax.Cents(),
			"total":   totals.Total.Cents(),
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("totals mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("tax rounds half-up exactly", func(t *testing.T) {
		cases := []struct {
			subtotalCents int64
			wantTax       int64
		}{
			{0, 0},
			{1, 0},      // 0.08 → 0
			{6, 0},      // 0.48 → 0
			{7, 1},      // 0.56 → 1
			{12, 1},     // 0.96 → 1
			{13, 1},     // 1.04 → 1
			{2500, 200}, // exact
			{99, 8},     // 7.92 → 8
			{100, 8},
			{131, 10}, // 10.48 → 10
			{132, 11}, // 10.56 → 11
		}

		for _, tc := range cases {
			c := builder.NewCartBuilder().
				Empty().
				WithProduct("Item", tc.subtotalCents, 1).
				MustBuild()

			totals := checkout.CalculateTotals(c)
			assert.Equal(t, tc.wantTax, totals.Tax.Cents(), "subtotal %d", tc.subtotalCents)
			assert.Equal(t, tc.subtotalCents+tc.wantTax, totals.Total.Cents(), "subtotal %d", tc.subtotalCents)
		}
	})
}

package checkout

import (
	"unified-checkout/internal/domain/cart"
)

// TaxRateBasisPoints is the flat tax applied to every checkout: 8%.
// There is no per-jurisdiction tax engine in this core.
const TaxRateBasisPoints = 800

// Totals is the priced breakdown of one checkout attempt, computed once
// during validation and carried forward so materialization never re-derives
// a price that may have changed in the meantime.
type Totals struct {
	ItemsSubtotal  cart.Money
	BookingPortion cart.Money
	Subtotal       cart.Money
	Tax            cart.Money
	Total          cart.Money
}

// CalculateTotals prices a cart: item line totals plus the booked service,
// then tax rounded half-up on the combined subtotal.
func CalculateTotals(c *cart.Cart) Totals {
	itemsSubtotal := c.ItemsSubtotal()

	bookingPortion := cart.NewMoney(0)
	if booking := c.Booking(); booking != nil {
		bookingPortion = cart.NewMoney(booking.PriceCents)
	}

	subtotal := itemsSubtotal.Add(bookingPortion)
	tax := cart.NewMoney(roundTax(subtotal.Cents()))

	return Totals{
		ItemsSubtotal:  itemsSubtotal,
		BookingPortion: bookingPortion,
		Subtotal:       subtotal,
		Tax:            tax,
		Total:          subtotal.Add(tax),
	}
}

// roundTax computes round(subtotal * rate) in integer arithmetic, half-up,
// to stay exact for every non-negative subtotal.
func roundTax(subtotalCents int64) int64 {
	return (subtotalCents*TaxRateBasisPoints + 5000) / 10000
}

// OrderSubtotal is the product-only portion of the session: the booked
// service's price is tracked separately on the booking row.
func (t Totals) OrderSubtotal() cart.Money {
	return t.Subtotal.Sub(t.BookingPortion)
}

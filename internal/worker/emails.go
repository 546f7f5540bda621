package worker

import (
	"fmt"
	"html"
	"strings"

	"unified-checkout/internal/infra/gateway"
	"unified-checkout/internal/usecase/queries"
)

func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

func customerOrderEmail(o *queries.OrderView, traceID string) gateway.Email {
	var b strings.Builder
	fmt.Fprintf(&b, "<h1>Thanks for your order, %s!</h1>", html.EscapeString(o.CustomerName))
	b.WriteString("<table><tr><th>Item</th><th>Qty</th><th>Price</th></tr>")
	for _, item := range o.Items {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%d</td><td>%s</td></tr>",
			html.EscapeString(item.Name), item.Quantity, formatCents(item.LineTotalCents))
	}
	b.WriteString("</table>")
	fmt.Fprintf(&b, "<p>Subtotal: %s</p>", formatCents(o.SubtotalCents))
	fmt.Fprintf(&b, "<p>Tax: %s</p>", formatCents(o.TaxCents))
	fmt.Fprintf(&b, "<p><strong>Total: %s</strong></p>", formatCents(o.TotalCents))
	fmt.Fprintf(&b, "<p>Payment reference: %s</p>", html.EscapeString(o.PaymentID))

	return gateway.Email{
		To:      o.CustomerEmail,
		Subject: fmt.Sprintf("Order confirmation - %s", formatCents(o.TotalCents)),
		HTML:    b.String(),
		TraceID: traceID,
	}
}

func adminOrderEmail(o *queries.OrderView, adminEmail, traceID string) gateway.Email {
	var b strings.Builder
	fmt.Fprintf(&b, "<h1>New order: %s</h1>", formatCents(o.TotalCents))
	fmt.Fprintf(&b, "<p>Customer: %s (%s)</p>",
		html.EscapeString(o.CustomerName), html.EscapeString(o.CustomerEmail))
	b.WriteString("<ul>")
	for _, item := range o.Items {
		fmt.Fprintf(&b, "<li>%d x %s - %s</li>",
			item.Quantity, html.EscapeString(item.Name), formatCents(item.LineTotalCents))
	}
	b.WriteString("</ul>")
	fmt.Fprintf(&b, "<p>Order ID: %s</p>", o.ID)
	fmt.Fprintf(&b, "<p>Payment reference: %s</p>", html.EscapeString(o.PaymentID))

	return gateway.Email{
		To:      adminEmail,
		Subject: fmt.Sprintf("New order from %s - %s", o.CustomerName, formatCents(o.TotalCents)),
		HTML:    b.String(),
		TraceID: traceID,
	}
}

func customerBookingEmail(bk *queries.BookingView, traceID string) gateway.Email {
	var b strings.Builder
	fmt.Fprintf(&b, "<h1>Your booking is confirmed, %s!</h1>", html.EscapeString(bk.CustomerName))
	fmt.Fprintf(&b, "<p>Service: %s</p>", html.EscapeString(bk.ServiceName))
	fmt.Fprintf(&b, "<p>When: %s – %s (%s)</p>",
		bk.StartTime.Format("Mon, Jan 2 2006 3:04 PM"),
		bk.EndTime.Format("3:04 PM"),
		html.EscapeString(bk.Timezone))
	fmt.Fprintf(&b, "<p>Amount paid: %s</p>", formatCents(bk.PaymentAmountCents))
	if bk.PaymentStatus == "pending" {
		b.WriteString("<p>Your payment is still being processed; we will follow up if anything needs your attention.</p>")
	}
	if bk.Notes != nil && *bk.Notes != "" {
		fmt.Fprintf(&b, "<p>Notes: %s</p>", html.EscapeString(*bk.Notes))
	}

	return gateway.Email{
		To:      bk.CustomerEmail,
		Subject: fmt.Sprintf("Booking confirmed: %s", bk.ServiceName),
		HTML:    b.String(),
		TraceID: traceID,
	}
}

func adminBookingEmail(bk *queries.BookingView, adminEmail, traceID string) gateway.Email {
	var b strings.Builder
	fmt.Fprintf(&b, "<h1>New booking: %s</h1>", html.EscapeString(bk.ServiceName))
	fmt.Fprintf(&b, "<p>Customer: %s (%s)</p>",
		html.EscapeString(bk.CustomerName), html.EscapeString(bk.CustomerEmail))
	if bk.CustomerPhone != nil && *bk.CustomerPhone != "" {
		fmt.Fprintf(&b, "<p>Phone: %s</p>", html.EscapeString(*bk.CustomerPhone))
	}
	fmt.Fprintf(&b, "<p>When: %s – %s (%s)</p>",
		bk.StartTime.Format("Mon, Jan 2 2006 3:04 PM"),
		bk.EndTime.Format("3:04 PM"),
		html.EscapeString(bk.Timezone))
	fmt.Fprintf(&b, "<p>Paid: %s (%s)</p>", formatCents(bk.PaymentAmountCents), bk.PaymentStatus)
	if bk.Notes != nil && *bk.Notes != "" {
		fmt.Fprintf(&b, "<p>Notes: %s</p>", html.EscapeString(*bk.Notes))
	}
	fmt.Fprintf(&b, "<p>Booking ID: %s</p>", bk.ID)

	return gateway.Email{
		To:      adminEmail,
		Subject: fmt.Sprintf("New booking: %s - %s", bk.ServiceName, bk.CustomerName),
		HTML:    b.String(),
		TraceID: traceID,
	}
}

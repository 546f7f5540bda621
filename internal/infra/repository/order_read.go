package repository

import (
	"context"

	"unified-checkout/internal/infra"
	"unified-checkout/internal/pkg/pgconv"
	"unified-checkout/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const orderViewQuery = `
SELECT id, business_id, customer_name, customer_email,
       subtotal_cents, tax_cents, total_cents, square_payment_id, paid_at
FROM shop_orders
WHERE id = $1
`

const orderItemViewsQuery = `
SELECT name, unit_price_cents, quantity, line_total_cents
FROM shop_order_items
WHERE shop_order_id = $1
ORDER BY name
`

func (r *OrderRepository) FindViewByID(ctx context.Context, id uuid.UUID) (*queries.OrderView, error) {
	var (
		view   queries.OrderView
		paidAt pgtype.Timestamptz
	)
	err := r.pool.QueryRow(ctx, orderViewQuery, id).Scan(
		&view.ID, &view.BusinessID, &view.CustomerName, &view.CustomerEmail,
		&view.SubtotalCents, &view.TaxCents, &view.TotalCents, &view.PaymentID, &paidAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("shop order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find shop order", err)
	}
	view.PaidAt = pgconv.TimePtrFromPgtype(paidAt)

	rows, err := r.pool.Query(ctx, orderItemViewsQuery, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load shop order items", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item queries.OrderItemView
		if err := rows.Scan(&item.Name, &item.UnitPriceCents, &item.Quantity, &item.LineTotalCents); err != nil {
			return nil, infra.WrapRepoErr("failed to scan shop order item", err)
		}
		view.Items = append(view.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate shop order items", err)
	}

	return &view, nil
}

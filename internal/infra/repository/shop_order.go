package repository

import (
	"context"

	"unified-checkout/internal/domain/order"
	"unified-checkout/internal/infra"
	"unified-checkout/internal/infra/db"
	"unified-checkout/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

const createOrderQuery = `
INSERT INTO shop_orders (
	id, business_id, checkout_session_id, customer_name, customer_email, customer_phone,
	subtotal_cents, tax_cents, total_cents, square_payment_id, idempotency_key, paid_at, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
`

const createOrderItemQuery = `
INSERT INTO shop_order_items (
	id, shop_order_id, product_id, name, unit_price_cents, quantity, line_total_cents
) VALUES ($1, $2, $3, $4, $5, $6, $7)
`

// Create inserts the order header and its line items atomically; a header
// without its price snapshots would be a corrupt order.
func (r *OrderRepository) Create(ctx context.Context, shopOrder *order.ShopOrder) error {
	err := db.RunInTx(ctx, r.pool, func(tx db.DBTX) error {
		_, err := tx.Exec(ctx, createOrderQuery,
			shopOrder.ID(),
			shopOrder.BusinessID(),
			shopOrder.SessionID(),
			shopOrder.CustomerName(),
			shopOrder.CustomerEmail(),
			pgconv.StringPtrToPgtype(shopOrder.CustomerPhone()),
			shopOrder.SubtotalCents(),
			shopOrder.TaxCents(),
			shopOrder.TotalCents(),
			shopOrder.SquarePaymentID(),
			shopOrder.IdempotencyKey(),
			pgconv.TimePtrToPgtype(shopOrder.PaidAt()),
			shopOrder.CreatedAt(),
		)
		if err != nil {
			return err
		}

		for _, item := range shopOrder.Items() {
			_, err := tx.Exec(ctx, createOrderItemQuery,
				item.ID(),
				shopOrder.ID(),
				item.ProductID(),
				item.Name(),
				item.UnitPriceCents(),
				item.Quantity(),
				item.LineTotalCents(),
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return infra.WrapRepoErr("failed to create shop order", err)
	}
	return nil
}

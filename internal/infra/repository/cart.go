package repository

import (
	"context"

	"unified-checkout/internal/domain/cart"
	"unified-checkout/internal/infra"
	"unified-checkout/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CartRepository struct {
	pool *pgxpool.Pool
}

func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

const findCartQuery = `
SELECT id, session_token, business_id, status, expires_at
FROM carts
WHERE session_token = $1 AND business_id = $2
`

const findCartItemsQuery = `
SELECT ci.id, ci.item_id, ci.item_type, ci.name, ci.unit_price_cents, ci.quantity
FROM cart_items ci
WHERE ci.cart_id = $1
ORDER BY ci.created_at
`

const findCartBookingQuery = `
SELECT cb.id, cb.service_id, s.name, s.price_cents,
       cb.start_time, cb.end_time, cb.timezone,
       cb.customer_name, cb.customer_email, cb.customer_phone, cb.notes
FROM cart_bookings cb
JOIN services s ON s.id = cb.service_id
WHERE cb.cart_id = $1
`

func (r *CartRepository) FindByToken(ctx context.Context, token cart.SessionToken, businessID uuid.UUID) (*cart.Cart, error) {
	var (
		id       uuid.UUID
		rawToken string
		bizID    uuid.UUID
		status   string
		// NULL expires_at means the cart never expires, carried as the zero time.
		expiresAt pgtype.Timestamptz
	)
	err := r.pool.QueryRow(ctx, findCartQuery, token.String(), businessID).
		Scan(&id, &rawToken, &bizID, &status, &expiresAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("cart not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find cart by token", err)
	}

	items, err := r.loadItems(ctx, id)
	if err != nil {
		return nil, err
	}

	bookingDraft, err := r.loadBookingDraft(ctx, id)
	if err != nil {
		return nil, err
	}

	return cart.ReconstructCart(id, token, bizID, cart.Status(status), pgconv.TimeFromPgtype(expiresAt), items, bookingDraft), nil
}

func (r *CartRepository) loadItems(ctx context.Context, cartID uuid.UUID) ([]cart.Item, error) {
	rows, err := r.pool.Query(ctx, findCartItemsQuery, cartID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load cart items", err)
	}
	defer rows.Close()

	var items []cart.Item
	for rows.Next() {
		var (
			id             uuid.UUID
			itemID         uuid.UUID
			itemType       string
			name           string
			unitPriceCents int64
			quantity       int32
		)
		if err := rows.Scan(&id, &itemID, &itemType, &name, &unitPriceCents, &quantity); err != nil {
			return nil, infra.WrapRepoErr("failed to scan cart item", err)
		}

		// Line totals are recomputed here, never read back from storage.
		item, err := cart.NewItem(id, itemID, cart.ItemType(itemType), name, unitPriceCents, quantity)
		if err != nil {
			return nil, infra.WrapRepoErr("invalid cart item row", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate cart items", err)
	}

	return items, nil
}

func (r *CartRepository) loadBookingDraft(ctx context.Context, cartID uuid.UUID) (*cart.BookingDraft, error) {
	var draft cart.BookingDraft
	err := r.pool.QueryRow(ctx, findCartBookingQuery, cartID).Scan(
		&draft.ID, &draft.ServiceID, &draft.ServiceName, &draft.PriceCents,
		&draft.StartTime, &draft.EndTime, &draft.Timezone,
		&draft.CustomerName, &draft.CustomerEmail, &draft.CustomerPhone, &draft.Notes,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to load cart booking draft", err)
	}

	return &draft, nil
}

const markCartCheckedOutQuery = `
UPDATE carts
SET status = $2, updated_at = now()
WHERE id = $1 AND status = $3
`

func (r *CartRepository) MarkCheckedOut(ctx context.Context, cartID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, markCartCheckedOutQuery, cartID, cart.StatusCheckedOut.String(), cart.StatusActive.String())
	if err != nil {
		return infra.WrapRepoErr("failed to mark cart checked out", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("cart not active", nil, infra.KindNotFound)
	}
	return nil
}

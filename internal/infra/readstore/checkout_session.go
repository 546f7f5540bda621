package readstore

import (
	"context"
	"time"

	"unified-checkout/internal/infra"
	"unified-checkout/internal/pkg/pgconv"
	"unified-checkout/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SessionReadStore struct {
	pool *pgxpool.Pool
}

func NewSessionReadStore(pool *pgxpool.Pool) *SessionReadStore {
	return &SessionReadStore{pool: pool}
}

const sessionViewQuery = `
SELECT id, cart_id, business_id, amount_total_cents, currency, status,
       square_payment_id, paid_at, error_message, created_at
FROM checkout_sessions
WHERE id = $1
`

func (r *SessionReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.SessionView, error) {
	var (
		view            queries.SessionView
		squarePaymentID pgtype.Text
		paidAt          pgtype.Timestamptz
		errorMessage    pgtype.Text
		createdAt       time.Time
	)
	err := r.pool.QueryRow(ctx, sessionViewQuery, id).Scan(
		&view.ID, &view.CartID, &view.BusinessID, &view.AmountTotalCents, &view.Currency,
		&view.Status, &squarePaymentID, &paidAt, &errorMessage, &createdAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("checkout session not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find checkout session", err)
	}

	view.SquarePaymentID = pgconv.StringPtrFromPgtype(squarePaymentID)
	view.PaidAt = pgconv.TimePtrFromPgtype(paidAt)
	view.ErrorMessage = pgconv.StringPtrFromPgtype(errorMessage)
	view.CreatedAt = createdAt

	return &view, nil
}

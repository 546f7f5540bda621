package repository

import (
	"context"
	"time"

	"unified-checkout/internal/domain/checkout"
	"unified-checkout/internal/infra"
	"unified-checkout/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

const findPaidSessionQuery = `
SELECT id, cart_id, business_id, idempotency_key, amount_total_cents, currency,
       status, square_payment_id, paid_at, error_message, created_at
FROM checkout_sessions
WHERE cart_id = $1 AND status = $2
`

func (r *SessionRepository) FindPaidByCartID(ctx context.Context, cartID uuid.UUID) (*checkout.Session, error) {
	var (
		id              uuid.UUID
		rowCartID       uuid.UUID
		businessID      uuid.UUID
		idempotencyKey  string
		amountTotal     int64
		currency        string
		status          string
		squarePaymentID pgtype.Text
		paidAt          pgtype.Timestamptz
		errorMessage    pgtype.Text
		createdAt       time.Time
	)
	err := r.pool.QueryRow(ctx, findPaidSessionQuery, cartID, checkout.StatusPaid.String()).Scan(
		&id, &rowCartID, &businessID, &idempotencyKey, &amountTotal, &currency,
		&status, &squarePaymentID, &paidAt, &errorMessage, &createdAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("paid session not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find paid session", err)
	}

	return checkout.ReconstructSession(
		id, rowCartID, businessID,
		checkout.ReconstructIdempotencyKey(idempotencyKey),
		amountTotal, currency,
		checkout.SessionStatus(status),
		pgconv.StringPtrFromPgtype(squarePaymentID),
		pgconv.TimePtrFromPgtype(paidAt),
		pgconv.StringPtrFromPgtype(errorMessage),
		createdAt,
	), nil
}

const createSessionQuery = `
INSERT INTO checkout_sessions (
	id, cart_id, business_id, idempotency_key, amount_total_cents, currency, status, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
`

func (r *SessionRepository) Create(ctx context.Context, session *checkout.Session) error {
	_, err := r.pool.Exec(ctx, createSessionQuery,
		session.ID(),
		session.CartID(),
		session.BusinessID(),
		session.IdempotencyKey().String(),
		session.AmountTotalCents(),
		session.Currency(),
		session.Status().String(),
		session.CreatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create checkout session", err)
	}
	return nil
}

const markSessionPaidQuery = `
UPDATE checkout_sessions
SET status = $2, square_payment_id = $3, paid_at = $4, updated_at = now()
WHERE id = $1 AND status = $5
`

// MarkPaid persists the paid transition. The partial unique index on
// (cart_id) WHERE status = 'paid' makes "at most one paid session per cart" a
// storage-layer guarantee; a violation surfaces as KindDuplicateKey.
func (r *SessionRepository) MarkPaid(ctx context.Context, session *checkout.Session) error {
	_, err := r.pool.Exec(ctx, markSessionPaidQuery,
		session.ID(),
		checkout.StatusPaid.String(),
		pgconv.StringPtrToPgtype(session.SquarePaymentID()),
		pgconv.TimePtrToPgtype(session.PaidAt()),
		checkout.StatusProcessing.String(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to mark session paid", err)
	}
	return nil
}

const markSessionPendingQuery = `
UPDATE checkout_sessions
SET status = $2, square_payment_id = $3, updated_at = now()
WHERE id = $1 AND status = $4
`

func (r *SessionRepository) MarkPending(ctx context.Context, session *checkout.Session) error {
	_, err := r.pool.Exec(ctx, markSessionPendingQuery,
		session.ID(),
		checkout.StatusPending.String(),
		pgconv.StringPtrToPgtype(session.SquarePaymentID()),
		checkout.StatusProcessing.String(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to mark session pending", err)
	}
	return nil
}

const markSessionFailedQuery = `
UPDATE checkout_sessions
SET status = $2, error_message = $3, updated_at = now()
WHERE id = $1 AND status = $4
`

func (r *SessionRepository) MarkFailed(ctx context.Context, session *checkout.Session) error {
	_, err := r.pool.Exec(ctx, markSessionFailedQuery,
		session.ID(),
		checkout.StatusFailed.String(),
		pgconv.StringPtrToPgtype(session.ErrorMessage()),
		checkout.StatusProcessing.String(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to mark session failed", err)
	}
	return nil
}

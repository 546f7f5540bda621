package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionView is the read model for one checkout attempt, used by operator
// reconciliation lookups.
type SessionView struct {
	ID               uuid.UUID
	CartID           uuid.UUID
	BusinessID       uuid.UUID
	AmountTotalCents int64
	Currency         string
	Status           string
	SquarePaymentID  *string
	PaidAt           *time.Time
	ErrorMessage     *string
	CreatedAt        time.Time
}

type SessionStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SessionView, error)
}

type SessionQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*SessionView, error)
}

type sessionQueriesImpl struct {
	store SessionStore
}

func NewSessionQueries(store SessionStore) SessionQueries {
	return &sessionQueriesImpl{store: store}
}

func (q *sessionQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*SessionView, error) {
	return q.store.FindByID(ctx, id)
}

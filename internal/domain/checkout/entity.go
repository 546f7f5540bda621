package checkout

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrAlreadyTerminal = errors.New("checkout session already in a terminal state")

// Session is one charge attempt against a cart. At most one session per cart
// may ever reach paid; the datastore enforces that with a partial unique
// index, this entity only models the transitions.
type Session struct {
	id               uuid.UUID
	cartID           uuid.UUID
	businessID       uuid.UUID
	idempotencyKey   IdempotencyKey
	amountTotalCents int64
	currency         string
	status           SessionStatus
	squarePaymentID  *string
	paidAt           *time.Time
	errorMessage     *string
	createdAt        time.Time
}

func NewSession(cartID, businessID uuid.UUID, amountTotalCents int64, currency string, now time.Time) *Session {
	return &Session{
		id:               uuid.New(),
		cartID:           cartID,
		businessID:       businessID,
		idempotencyKey:   NewIdempotencyKey(cartID),
		amountTotalCents: amountTotalCents,
		currency:         currency,
		status:           StatusProcessing,
		createdAt:        now,
	}
}

func ReconstructSession(
	id, cartID, businessID uuid.UUID,
	idempotencyKey IdempotencyKey,
	amountTotalCents int64,
	currency string,
	status SessionStatus,
	squarePaymentID *string,
	paidAt *time.Time,
	errorMessage *string,
	createdAt time.Time,
) *Session {
	return &Session{
		id:               id,
		cartID:           cartID,
		businessID:       businessID,
		idempotencyKey:   idempotencyKey,
		amountTotalCents: amountTotalCents,
		currency:         currency,
		status:           status,
		squarePaymentID:  squarePaymentID,
		paidAt:           paidAt,
		errorMessage:     errorMessage,
		createdAt:        createdAt,
	}
}

func (s *Session) ID() uuid.UUID                   { return s.id }
func (s *Session) CartID() uuid.UUID               { return s.cartID }
func (s *Session) BusinessID() uuid.UUID           { return s.businessID }
func (s *Session) IdempotencyKey() IdempotencyKey  { return s.idempotencyKey }
func (s *Session) AmountTotalCents() int64         { return s.amountTotalCents }
func (s *Session) Currency() string                { return s.currency }
func (s *Session) Status() SessionStatus           { return s.status }
func (s *Session) SquarePaymentID() *string        { return s.squarePaymentID }
func (s *Session) PaidAt() *time.Time              { return s.paidAt }
func (s *Session) ErrorMessage() *string           { return s.errorMessage }
func (s *Session) CreatedAt() time.Time            { return s.createdAt }

// MarkPaid records a completed capture. paidAt is only set on this path.
func (s *Session) MarkPaid(paymentID string, now time.Time) error {
	if s.status.IsTerminal() {
		return ErrAlreadyTerminal
	}
	s.status = StatusPaid
	s.squarePaymentID = &paymentID
	s.paidAt = &now
	return nil
}

// MarkPending records a capture the gateway will settle asynchronously.
func (s *Session) MarkPending(paymentID string) error {
	if s.status.IsTerminal() {
		return ErrAlreadyTerminal
	}
	s.status = StatusPending
	s.squarePaymentID = &paymentID
	return nil
}

func (s *Session) MarkFailed(errorMessage string) error {
	if s.status.IsTerminal() {
		return ErrAlreadyTerminal
	}
	s.status = StatusFailed
	s.errorMessage = &errorMessage
	return nil
}

// HasPaymentID reports whether a payment identifier exists, the precondition
// for any materialization.
func (s *Session) HasPaymentID() bool {
	return s.squarePaymentID != nil && *s.squarePaymentID != ""
}

package commands

import (
	"context"
	"fmt"
	"time"

	"unified-checkout/internal/domain/booking"
	"unified-checkout/internal/domain/cart"
	"unified-checkout/internal/domain/checkout"
	"unified-checkout/internal/domain/order"

	"github.com/google/uuid"
)

// BusinessPaymentConfig is the minimal business read the orchestrator needs:
// where to route the charge and whom to alert.
type BusinessPaymentConfig struct {
	BusinessID       uuid.UUID
	Name             string
	SquareLocationID string // empty means the business is not payment-configured
	AdminEmail       *string
}

func (c *BusinessPaymentConfig) IsPaymentConfigured() bool {
	return c.SquareLocationID != ""
}

type CartRepository interface {
	// FindByToken returns the active cart with its items and booking draft.
	FindByToken(ctx context.Context, token cart.SessionToken, businessID uuid.UUID) (*cart.Cart, error)
	MarkCheckedOut(ctx context.Context, cartID uuid.UUID) error
}

type BusinessRepository interface {
	PaymentConfig(ctx context.Context, businessID uuid.UUID) (*BusinessPaymentConfig, error)
}

type SessionRepository interface {
	// FindPaidByCartID returns the unique paid session for a cart, or a
	// NOT_FOUND kind when none exists.
	FindPaidByCartID(ctx context.Context, cartID uuid.UUID) (*checkout.Session, error)
	Create(ctx context.Context, session *checkout.Session) error
	// MarkPaid persists the paid transition; it trips the partial unique
	// index on (cart_id) WHERE status = 'paid' if another session won.
	MarkPaid(ctx context.Context, session *checkout.Session) error
	MarkPending(ctx context.Context, session *checkout.Session) error
	MarkFailed(ctx context.Context, session *checkout.Session) error
}

type OrderRepository interface {
	Create(ctx context.Context, shopOrder *order.ShopOrder) error
}

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) error
}

// JobQueue enqueues durable side-effect jobs consumed by the worker. Enqueue
// failures are logged by the caller, never surfaced to the customer.
type JobQueue interface {
	Enqueue(ctx context.Context, topic string, payload any, runAt time.Time) error
}

// Side-effect job topics.
const (
	TopicCalendarSync         = "booking.calendar_sync"
	TopicCustomerOrderEmail   = "email.customer_order"
	TopicCustomerBookingEmail = "email.customer_booking"
	TopicAdminOrderEmail      = "email.admin_order"
	TopicAdminBookingEmail    = "email.admin_booking"
)

type PaymentRequest struct {
	AmountCents    int64
	Currency       string
	SourceToken    string
	IdempotencyKey string
	ReferenceID    string
	BuyerEmail     string
	LocationID     string
}

type PaymentResult struct {
	PaymentID string
	// Completed is false when the gateway settles asynchronously; the
	// session then lands in pending instead of paid.
	Completed bool
}

// PaymentGateway wraps the external card processor. Implementations must
// pass the idempotency key through unchanged so a transport-level retry of
// the same call never double-charges.
type PaymentGateway interface {
	CreatePayment(ctx context.Context, req PaymentRequest) (*PaymentResult, error)
}

type GatewayErrorKind string

const (
	// GatewayDeclined is client-fixable: the card was refused.
	GatewayDeclined GatewayErrorKind = "DECLINED"
	// GatewayAuth is operator-fixable: credentials or configuration.
	GatewayAuth GatewayErrorKind = "AUTH"
	// GatewayNetwork covers transport failures and timeouts.
	GatewayNetwork GatewayErrorKind = "NETWORK"
)

type GatewayError struct {
	Kind    GatewayErrorKind
	Message string
	Err     error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("payment gateway %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("payment gateway %s: %s", e.Kind, e.Message)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// DuplicateSubmission reports a cart that already has a paid session; the
// prior payment reference rides along so the client can show the original
// confirmation instead of charging again.
type DuplicateSubmission struct {
	PaymentID string
}

func (e *DuplicateSubmission) Error() string {
	return "checkout already completed for this cart"
}

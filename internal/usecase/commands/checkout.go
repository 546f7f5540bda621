package commands

import (
	"context"
	"log/slog"

	"unified-checkout/internal/domain/booking"
	"unified-checkout/internal/domain/cart"
	"unified-checkout/internal/domain/checkout"
	"unified-checkout/internal/domain/order"
	"unified-checkout/internal/infra"
	"unified-checkout/internal/pkg/clock"
	"unified-checkout/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrCartNotFound          = errs.New("cart not found")
	ErrCartNotActive         = errs.New("cart is not active")
	ErrCartExpired           = errs.New("cart has expired")
	ErrEmptyCart             = errs.New("cart is empty")
	ErrBusinessNotConfigured = errs.New("business is not configured for payments")
	ErrPaymentFailed         = errs.New("payment failed")
	ErrSessionCreateFailed   = errs.New("failed to create checkout session")
)

type CheckoutRequest struct {
	SessionToken  string
	BusinessID    uuid.UUID
	CustomerName  string
	CustomerEmail string
	CustomerPhone *string
	SourceID      string
	TraceID       string
}

type CheckoutResult struct {
	SessionID       uuid.UUID
	PaymentID       string
	ShopOrderID     *uuid.UUID
	BookingID       *uuid.UUID
}

type CheckoutCommands interface {
	Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error)
}

type checkoutUseCaseImpl struct {
	cartRepo     CartRepository
	businessRepo BusinessRepository
	sessionRepo  SessionRepository
	orderRepo    OrderRepository
	bookingRepo  BookingRepository
	jobQueue     JobQueue
	gateway      PaymentGateway
	clock        clock.Clock
	logger       *slog.Logger
}

func NewCheckoutCommands(
	cartRepo CartRepository,
	businessRepo BusinessRepository,
	sessionRepo SessionRepository,
	orderRepo OrderRepository,
	bookingRepo BookingRepository,
	jobQueue JobQueue,
	gateway PaymentGateway,
	clk clock.Clock,
	logger *slog.Logger,
) CheckoutCommands {
	return &checkoutUseCaseImpl{
		cartRepo:     cartRepo,
		businessRepo: businessRepo,
		sessionRepo:  sessionRepo,
		orderRepo:    orderRepo,
		bookingRepo:  bookingRepo,
		jobQueue:     jobQueue,
		gateway:      gateway,
		clock:        clk,
		logger:       logger,
	}
}

// Checkout turns a cart into a paid, recorded, and notified transaction.
// Payment capture strictly precedes materialization; materialization strictly
// precedes side effects. Once the charge has been captured, nothing on the
// materialization path may fail the response: the customer must never see an
// error for a problem that is purely internal bookkeeping.
func (u *checkoutUseCaseImpl) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	log := u.logger.With("trace_id", req.TraceID, "business_id", req.BusinessID)

	loaded, err := u.validate(ctx, req)
	if err != nil {
		return nil, err
	}

	// Idempotency gate: a cart with a paid session is never charged again.
	if prior, gateErr := u.priorPaidSession(ctx, loaded.cart.ID()); gateErr != nil {
		return nil, gateErr
	} else if prior != nil {
		log.Warn("duplicate checkout submission",
			"cart_id", loaded.cart.ID(),
			"prior_session_id", prior.ID())
		return nil, &DuplicateSubmission{PaymentID: derefOr(prior.SquarePaymentID(), "")}
	}

	session := checkout.NewSession(
		loaded.cart.ID(),
		req.BusinessID,
		loaded.totals.Total.Cents(),
		checkout.DefaultCurrency,
		u.clock.Now(),
	)
	if err := u.sessionRepo.Create(ctx, session); err != nil {
		return nil, errs.Mark(err, ErrSessionCreateFailed)
	}

	if err := u.capturePayment(ctx, log, session, loaded, req); err != nil {
		return nil, err
	}

	return u.materialize(ctx, log, session, loaded, req), nil
}

type loadedCheckout struct {
	cart     *cart.Cart
	business *BusinessPaymentConfig
	totals   checkout.Totals
}

func (u *checkoutUseCaseImpl) validate(ctx context.Context, req CheckoutRequest) (*loadedCheckout, error) {
	token, err := cart.NewSessionToken(req.SessionToken)
	if err != nil {
		return nil, errs.Mark(err, ErrCartNotFound)
	}

	c, err := u.cartRepo.FindByToken(ctx, token, req.BusinessID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, errs.Wrap(err, "failed to load cart")
	}

	if err := c.CheckoutEligible(u.clock.Now()); err != nil {
		switch err {
		case cart.ErrCartNotActive:
			return nil, ErrCartNotActive
		case cart.ErrCartExpired:
			return nil, ErrCartExpired
		case cart.ErrEmptyCart:
			return nil, ErrEmptyCart
		default:
			return nil, err
		}
	}

	business, err := u.businessRepo.PaymentConfig(ctx, req.BusinessID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBusinessNotConfigured
		}
		return nil, errs.Wrap(err, "failed to load business payment config")
	}
	if !business.IsPaymentConfigured() {
		return nil, ErrBusinessNotConfigured
	}

	return &loadedCheckout{
		cart:     c,
		business: business,
		totals:   checkout.CalculateTotals(c),
	}, nil
}

// priorPaidSession returns the existing paid session for the cart, nil when
// the gate is clear.
func (u *checkoutUseCaseImpl) priorPaidSession(ctx context.Context, cartID uuid.UUID) (*checkout.Session, error) {
	prior, err := u.sessionRepo.FindPaidByCartID(ctx, cartID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil
		}
		return nil, errs.Wrap(err, "idempotency gate query failed")
	}
	return prior, nil
}

func (u *checkoutUseCaseImpl) capturePayment(
	ctx context.Context,
	log *slog.Logger,
	session *checkout.Session,
	loaded *loadedCheckout,
	req CheckoutRequest,
) error {
	result, err := u.gateway.CreatePayment(ctx, PaymentRequest{
		AmountCents:    session.AmountTotalCents(),
		Currency:       session.Currency(),
		SourceToken:    req.SourceID,
		IdempotencyKey: session.IdempotencyKey().String(),
		ReferenceID:    session.ID().String(),
		BuyerEmail:     req.CustomerEmail,
		LocationID:     loaded.business.SquareLocationID,
	})
	if err != nil {
		_ = session.MarkFailed(err.Error())
		if persistErr := u.sessionRepo.MarkFailed(ctx, session); persistErr != nil {
			log.Error("failed to persist failed session",
				"session_id", session.ID(), "error", persistErr)
		}
		log.Warn("payment capture failed", "session_id", session.ID(), "error", err)
		return errs.Mark(err, ErrPaymentFailed)
	}

	if result.Completed {
		_ = session.MarkPaid(result.PaymentID, u.clock.Now())
		if err := u.sessionRepo.MarkPaid(ctx, session); err != nil {
			// The partial unique index on (cart_id) WHERE status='paid'
			// caught a concurrent attempt that won the race. The money for
			// this capture moved; surface the prior payment reference and
			// leave reconciliation to the operator.
			if infra.IsKind(err, infra.KindDuplicateKey) {
				log.Error("concurrent checkout raced past the idempotency gate",
					"session_id", session.ID(),
					"payment_id", result.PaymentID,
					"cart_id", session.CartID())
				return u.resolveRacedPayment(ctx, session, result.PaymentID)
			}
			log.Error("failed to persist paid session",
				"session_id", session.ID(), "payment_id", result.PaymentID, "error", err)
		}
		return nil
	}

	_ = session.MarkPending(result.PaymentID)
	if err := u.sessionRepo.MarkPending(ctx, session); err != nil {
		log.Error("failed to persist pending session",
			"session_id", session.ID(), "payment_id", result.PaymentID, "error", err)
	}
	return nil
}

func (u *checkoutUseCaseImpl) resolveRacedPayment(ctx context.Context, session *checkout.Session, paymentID string) error {
	prior, err := u.sessionRepo.FindPaidByCartID(ctx, session.CartID())
	if err != nil {
		return &DuplicateSubmission{PaymentID: paymentID}
	}
	return &DuplicateSubmission{PaymentID: derefOr(prior.SquarePaymentID(), paymentID)}
}

// materialize converts the captured payment into durable order/booking
// records. Each insert is independent: a failure after capture is logged and
// tolerated, and the response reports whichever records actually exist.
func (u *checkoutUseCaseImpl) materialize(
	ctx context.Context,
	log *slog.Logger,
	session *checkout.Session,
	loaded *loadedCheckout,
	req CheckoutRequest,
) *CheckoutResult {
	result := &CheckoutResult{
		SessionID: session.ID(),
		PaymentID: derefOr(session.SquarePaymentID(), ""),
	}

	if loaded.cart.HasProductItems() {
		if orderID := u.materializeOrder(ctx, log, session, loaded, req); orderID != nil {
			result.ShopOrderID = orderID
		}
	}

	if loaded.cart.Booking() != nil {
		if bookingID := u.materializeBooking(ctx, log, session, loaded, req); bookingID != nil {
			result.BookingID = bookingID
		}
	}

	if err := u.cartRepo.MarkCheckedOut(ctx, loaded.cart.ID()); err != nil {
		log.Error("failed to mark cart checked out",
			"cart_id", loaded.cart.ID(), "error", err)
	}

	u.enqueueSideEffects(ctx, log, loaded, req, result)

	return result
}

func (u *checkoutUseCaseImpl) materializeOrder(
	ctx context.Context,
	log *slog.Logger,
	session *checkout.Session,
	loaded *loadedCheckout,
	req CheckoutRequest,
) *uuid.UUID {
	shopOrder, err := order.NewShopOrder(
		req.BusinessID,
		session.ID(),
		order.CustomerContact{Name: req.CustomerName, Email: req.CustomerEmail, Phone: req.CustomerPhone},
		loaded.cart.ProductItems(),
		loaded.totals.OrderSubtotal().Cents(),
		loaded.totals.Tax.Cents(),
		loaded.totals.OrderSubtotal().Add(loaded.totals.Tax).Cents(),
		derefOr(session.SquarePaymentID(), ""),
		session.IdempotencyKey().String(),
		session.PaidAt(),
		u.clock.Now(),
	)
	if err != nil {
		log.Error("failed to build shop order after capture",
			"session_id", session.ID(), "error", err)
		return nil
	}

	if err := u.orderRepo.Create(ctx, shopOrder); err != nil {
		log.Error("failed to materialize shop order after capture",
			"session_id", session.ID(),
			"payment_id", derefOr(session.SquarePaymentID(), ""),
			"error", err)
		return nil
	}

	id := shopOrder.ID()
	return &id
}

func (u *checkoutUseCaseImpl) materializeBooking(
	ctx context.Context,
	log *slog.Logger,
	session *checkout.Session,
	loaded *loadedCheckout,
	req CheckoutRequest,
) *uuid.UUID {
	paymentStatus := booking.PaymentPaid
	if session.Status() == checkout.StatusPending {
		paymentStatus = booking.PaymentPending
	}

	b, err := booking.NewBookingFromDraft(
		req.BusinessID,
		session.ID(),
		*loaded.cart.Booking(),
		booking.CheckoutContact{Name: req.CustomerName, Email: req.CustomerEmail, Phone: req.CustomerPhone},
		loaded.totals.BookingPortion.Cents(),
		paymentStatus,
		derefOr(session.SquarePaymentID(), ""),
		u.clock.Now(),
	)
	if err != nil {
		log.Error("failed to build booking after capture",
			"session_id", session.ID(), "error", err)
		return nil
	}

	if err := u.bookingRepo.Create(ctx, b); err != nil {
		log.Error("failed to materialize booking after capture",
			"session_id", session.ID(),
			"payment_id", derefOr(session.SquarePaymentID(), ""),
			"error", err)
		return nil
	}

	id := b.ID()
	return &id
}

// enqueueSideEffects queues calendar sync and confirmation emails. The queue
// decouples them from the request lifecycle; enqueue failures are logged and
// never fail the checkout, which has already happened.
func (u *checkoutUseCaseImpl) enqueueSideEffects(
	ctx context.Context,
	log *slog.Logger,
	loaded *loadedCheckout,
	req CheckoutRequest,
	result *CheckoutResult,
) {
	now := u.clock.Now()
	enqueue := func(topic string, payload map[string]any) {
		payload["trace_id"] = req.TraceID
		if err := u.jobQueue.Enqueue(ctx, topic, payload, now); err != nil {
			log.Error("failed to enqueue side-effect job", "topic", topic, "error", err)
		}
	}

	hasAdmin := loaded.business.AdminEmail != nil && *loaded.business.AdminEmail != ""

	if result.BookingID != nil {
		enqueue(TopicCalendarSync, map[string]any{"booking_id": *result.BookingID})
		enqueue(TopicCustomerBookingEmail, map[string]any{"booking_id": *result.BookingID})
		if hasAdmin {
			enqueue(TopicAdminBookingEmail, map[string]any{"booking_id": *result.BookingID})
		}
	}

	if result.ShopOrderID != nil {
		enqueue(TopicCustomerOrderEmail, map[string]any{"shop_order_id": *result.ShopOrderID})
		if hasAdmin {
			enqueue(TopicAdminOrderEmail, map[string]any{"shop_order_id": *result.ShopOrderID})
		}
	}
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

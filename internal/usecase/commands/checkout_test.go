//go:build unit

package commands_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"unified-checkout/internal/domain/cart"
	"unified-checkout/internal/domain/checkout"
	"unified-checkout/internal/infra"
	"unified-checkout/internal/pkg/clock"
	"unified-checkout/internal/pkg/errs"
	"unified-checkout/internal/usecase/commands"
	"unified-checkout/tests/common/builder"
	commandsmock "unified-checkout/tests/mock/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type CheckoutCommandsTestSuite struct {
	suite.Suite
	mockCtrl     *gomock.Controller
	cartRepo     *commandsmock.MockCartRepository
	businessRepo *commandsmock.MockBusinessRepository
	sessionRepo  *commandsmock.MockSessionRepository
	orderRepo    *commandsmock.MockOrderRepository
	bookingRepo  *commandsmock.MockBookingRepository
	jobQueue     *commandsmock.MockJobQueue
	gateway      *commandsmock.MockPaymentGateway
	clock        *clock.MockClock
	usecase      commands.CheckoutCommands
}

func (s *CheckoutCommandsTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.cartRepo = commandsmock.NewMockCartRepository(s.mockCtrl)
	s.businessRepo = commandsmock.NewMockBusinessRepository(s.mockCtrl)
	s.sessionRepo = commandsmock.NewMockSessionRepository(s.mockCtrl)
	s.orderRepo = commandsmock.NewMockOrderRepository(s.mockCtrl)
	s.bookingRepo = commandsmock.NewMockBookingRepository(s.mockCtrl)
	s.jobQueue = commandsmock.NewMockJobQueue(s.mockCtrl)
	s.gateway = commandsmock.NewMockPaymentGateway(s.mockCtrl)
	s.clock = clock.NewMockClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))

	s.usecase = commands.NewCheckoutCommands(
		s.cartRepo, s.businessRepo, s.sessionRepo, s.orderRepo, s.bookingRepo,
		s.jobQueue, s.gateway, s.clock,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func (s *CheckoutCommandsTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestCheckoutCommandsSuite(t *testing.T) {
	suite.Run(t, new(CheckoutCommandsTestSuite))
}

func (s *CheckoutCommandsTestSuite) request(businessID uuid.UUID) commands.CheckoutRequest {
	return commands.CheckoutRequest{
		SessionToken:  "cart-session-token",
		BusinessID:    businessID,
		CustomerName:  "Ada Lovelace",
		CustomerEmail: "ada@example.com",
		SourceID:      "cnon:card-nonce",
		TraceID:       "trace-1",
	}
}

func (s *CheckoutCommandsTestSuite) business(businessID uuid.UUID, adminEmail *string) *commands.BusinessPaymentConfig {
	return &commands.BusinessPaymentConfig{
		BusinessID:       businessID,
		Name:             "Acme",
		SquareLocationID: "LOC-1",
		AdminEmail:       adminEmail,
	}
}

func (s *CheckoutCommandsTestSuite) productAndBookingCart(businessID uuid.UUID) *cart.Cart {
	start := s.clock.Now().Add(24 * time.Hour)
	return builder.NewCartBuilder().
		WithBusinessID(businessID).
		WithExpiresAt(s.clock.Now().Add(time.Hour)).
		WithBooking("Haircut", 500, start, start.Add(30*time.Minute)).
		MustBuild()
}

func (s *CheckoutCommandsTestSuite) expectCleanGate(cartID uuid.UUID) {
	s.sessionRepo.EXPECT().
		FindPaidByCartID(gomock.Any(), cartID).
		Return(nil, infra.WrapRepoErr("no paid session", nil, infra.KindNotFound))
}

// ================================================================================
// Happy path
// ================================================================================

func (s *CheckoutCommandsTestSuite) TestCheckoutSuccess() {
	businessID := uuid.New()
	c := s.productAndBookingCart(businessID)
	req := s.request(businessID)

	s.cartRepo.EXPECT().FindByToken(gomock.Any(), gomock.Any(), businessID).Return(c, nil)
	s.businessRepo.EXPECT().PaymentConfig(gomock.Any(), businessID).Return(s.business(businessID, nil), nil)
	s.expectCleanGate(c.ID())
	s.sessionRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	// 2000 (products) + 500 (booking) = 2500 subtotal, 200 tax, 2700 total.
	s.gateway.EXPECT().
		CreatePayment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, payReq commands.PaymentRequest) (*commands.PaymentResult, error) {
			s.Equal(int64(2700), payReq.AmountCents)
			s.Equal("USD", payReq.Currency)
			s.Equal("cnon:card-nonce", payReq.SourceToken)
			s.Equal("LOC-1", payReq.LocationID)
			s.NotEmpty(payReq.IdempotencyKey)
			return &commands.PaymentResult{PaymentID: "pay_1", Completed: true}, nil
		})
	s.sessionRepo.EXPECT().MarkPaid(gomock.Any(), gomock.Any()).Return(nil)

	s.orderRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	s.bookingRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	s.cartRepo.EXPECT().MarkCheckedOut(gomock.Any(), c.ID()).Return(nil)

	// No admin email: calendar sync + two customer emails only.
	s.jobQueue.EXPECT().Enqueue(gomock.Any(), commands.TopicCalendarSync, gomock.Any(), gomock.Any()).Return(nil)
	s.jobQueue.EXPECT().Enqueue(gomock.Any(), commands.TopicCustomerBookingEmail, gomock.Any(), gomock.Any()).Return(nil)
	s.jobQueue.EXPECT().Enqueue(gomock.Any(), commands.TopicCustomerOrderEmail, gomock.Any(), gomock.Any()).Return(nil)

	result, err := s.usecase.Checkout(context.Background(), req)
	require.NoError(s.T(), err)

	s.Equal("pay_1", result.PaymentID)
	s.NotNil(result.ShopOrderID)
	s.NotNil(result.BookingID)
}

func (s *CheckoutCommandsTestSuite) TestCheckoutEnqueuesAdminAlerts() {
	businessID := uuid.New()
	admin := "owner@example.com"
	c := s.productAndBookingCart(businessID)

	s.cartRepo.EXPECT().FindByToken(gomock.Any(), gomock.Any(), businessID).Return(c, nil)
	s.businessRepo.EXPECT().PaymentConfig(gomock.Any(), businessID).Return(s.business(businessID, &admin), nil)
	s.expectCleanGate(c.ID())
	s.sessionRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	s.gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).
		Return(&commands.PaymentResult{PaymentID: "pay_1", Completed: true}, nil)
	s.sessionRepo.EXPECT().MarkPaid(gomock.Any(), gomock.Any()).Return(nil)
	s.orderRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	s.bookingRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	s.cartRepo.EXPECT().MarkCheckedOut(gomock.Any(), c.ID()).Return(nil)

	topics := map[string]int{}
	s.jobQueue.EXPECT().Enqueue(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, topic string, _ any, _ time.Time) error {
			topics[topic]++
			return nil
		}).Times(5)

	_, err := s.usecase.Checkout(context.Background(), s.request(businessID))
	require.NoError(s.T(), err)

	s.Equal(1, topics[commands.TopicCalendarSync])
	s.Equal(1, topics[commands.TopicCustomerBookingEmail])
	s.Equal(1, topics[commands.TopicAdminBookingEmail])
	s.Equal(1, topics[commands.TopicCustomerOrderEmail])
	s.Equal(1, topics[commands.TopicAdminOrderEmail])
}

// ================================================================================
// Validation failures: nothing persisted, gateway untouched
// ================================================================================

func (s *CheckoutCommandsTestSuite) TestEmptyCartNeverReachesGateway() {
	businessID := uuid.New()
	c := builder.NewCartBuilder().
		WithBusinessID(businessID).
		WithExpiresAt(s.clock.Now().Add(time.Hour)).
		Empty().
		MustBuild()

	s.cartRepo.EXPECT().FindByToken(gomock.Any(), gomock.Any(), businessID).Return(c, nil)
	// No gateway, session, or queue expectations: any call fails the test.

	_, err := s.usecase.Checkout(context.Background(), s.request(businessID))
	assert.ErrorIs(s.T(), err, commands.ErrEmptyCart)
}

func (s *CheckoutCommandsTestSuite) TestCartNotFound() {
	businessID := uuid.New()

	s.cartRepo.EXPECT().FindByToken(gomock.Any(), gomock.Any(), businessID).
		Return(nil, infra.WrapRepoErr("no cart", nil, infra.KindNotFound))

	_, err := s.usecase.Checkout(context.Background(), s.request(businessID))
	assert.ErrorIs(s.T(), err, commands.ErrCartNotFound)
}

func (s *CheckoutCommandsTestSuite) TestExpiredCart() {
	businessID := uuid.New()
	c := builder.NewCartBuilder().
		WithBusinessID(businessID).
		WithExpiresAt(s.clock.Now().Add(-time.Minute)).
		MustBuild()

	s.cartRepo.EXPECT().FindByToken(gomock.Any(), gomock.Any(), businessID).Return(c, nil)

	_, err := s.usecase.Checkout(context.Background(), s.request(businessID))
	assert.ErrorIs(s.T(), err, commands.ErrCartExpired)
}

func (s *CheckoutCommandsTestSuite) TestBusinessWithoutLocationID() {
	businessID := uuid.New()
	c := s.productAndBookingCart(businessID)

	s.cartRepo.EXPECT().FindByToken(gomock.Any(), gomock.Any(), businessID).Return(c, nil)
	s.businessRepo.EXPECT().PaymentConfig(gomock.Any(), businessID).
		Return(&commands.BusinessPaymentConfig{BusinessID: businessID, Name: "Acme"}, nil)

	_, err := s.usecase.Checkout(context.Background(), s.request(businessID))
	assert.ErrorIs(s.T(), err, commands.ErrBusinessNotConfigured)
}

// ================================================================================
// Idempotency gate
// ================================================================================

func (s *CheckoutCommandsTestSuite) TestDuplicateSubmissionReturnsPriorPayment() {
	businessID := uuid.New()
	c := s.productAndBookingCart(businessID)

	prior := checkout.NewSession(c.ID(), businessID, 2700, checkout.DefaultCurrency, s.clock.Now())
	require.NoError(s.T(), prior.MarkPaid("pay_prior", s.clock.Now()))

	s.cartRepo.EXPECT().FindByToken(gomock.Any(), gomock.Any(), businessID).Return(c, nil)
	s.businessRepo.EXPECT().PaymentConfig(gomock.Any(), businessID).Return(s.business(businessID, nil), nil)
	s.sessionRepo.EXPECT().FindPaidByCartID(gomock.Any(), c.ID()).Return(prior, nil)
	// Gateway must not be called: the cart was already charged.

	_, err := s.usecase.Checkout(context.Background(), s.request(businessID))

	var dup *commands.DuplicateSubmission
	require.ErrorAs(s.T(), err, &dup)
	s.Equal("pay_prior", dup.PaymentID)
}

func (s *CheckoutCommandsTestSuite) TestRacedPaidPersistResolvesToPriorPayment() {
	businessID := uuid.New()
	c := s.productAndBookingCart(businessID)

	winner := checkout.NewSession(c.ID(), businessID, 2700, checkout.DefaultCurrency, s.clock.Now())
	require.NoError(s.T(), winner.MarkPaid("pay_winner", s.clock.Now()))

	s.cartRepo.EXPECT().FindByToken(gomock.Any(), gomock.Any(), businessID).Return(c, nil)
	s.businessRepo.EXPECT().PaymentConfig(gomock.Any(), businessID).Return(s.business(businessID, nil), nil)
	s.expectCleanGate(c.ID())
	s.sessionRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	s.gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).
		Return(&commands.PaymentResult{PaymentID: "pay_loser", Completed: true}, nil)
	// A concurrent checkout won the partial unique index race.
	s.sessionRepo.EXPECT().MarkPaid(gomock.Any(), gomock.Any()).
		Return(infra.WrapRepoErr("duplicate paid session", nil, infra.KindDuplicateKey))
	s.sessionRepo.EXPECT().FindPaidByCartID(gomock.Any(), c.ID()).Return(winner, nil)

	_, err := s.usecase.Checkout(context.Background(), s.request(businessID))

	var dup *commands.DuplicateSubmission
	require.ErrorAs(s.T(), err, &dup)
	s.Equal("pay_winner", dup.PaymentID)
}

// ================================================================================
// Payment failure
// ================================================================================

func (s *CheckoutCommandsTestSuite) TestGatewayDeclineFailsSessionWithoutMaterialization() {
	businessID := uuid.New()
	c := s.productAndBookingCart(businessID)

	s.cartRepo.EXPECT().FindByToken(gomock.Any(), gomock.Any(), businessID).Return(c, nil)
	s.businessRepo.EXPECT().PaymentConfig(gomock.Any(), businessID).Return(s.business(businessID, nil), nil)
	s.expectCleanGate(c.ID())
	s.sessionRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	s.gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).
		Return(nil, &commands.GatewayError{Kind: commands.GatewayDeclined, Message: "card declined"})

	s.sessionRepo.EXPECT().
		MarkFailed(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, session *checkout.Session) error {
			s.Equal(checkout.StatusFailed, session.Status())
			return nil
		})
	// No order, booking, cart, or queue calls: the charge never happened.

	_, err := s.usecase.Checkout(context.Background(), s.request(businessID))

	assert.True(s.T(), errs.Is(err, commands.ErrPaymentFailed), "expected payment failure mark in %v", err)
	var gw *commands.GatewayError
	require.ErrorAs(s.T(), err, &gw)
	s.Equal(commands.GatewayDeclined, gw.Kind)
}

// ================================================================================
// Materialization tolerance
// ================================================================================

func (s *CheckoutCommandsTestSuite) TestOrderInsertFailureStillSucceedsWithBooking() {
	businessID := uuid.New()
	c := s.productAndBookingCart(businessID)

	s.cartRepo.EXPECT().FindByToken(gomock.Any(), gomock.Any(), businessID).Return(c, nil)
	s.businessRepo.EXPECT().PaymentConfig(gomock.Any(), businessID).Return(s.business(businessID, nil), nil)
	s.expectCleanGate(c.ID())
	s.sessionRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	s.gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).
		Return(&commands.PaymentResult{PaymentID: "pay_1", Completed: true}, nil)
	s.sessionRepo.EXPECT().MarkPaid(gomock.Any(), gomock.Any()).Return(nil)

	s.orderRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("insert blew up"))
	s.bookingRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	s.cartRepo.EXPECT().MarkCheckedOut(gomock.Any(), c.ID()).Return(nil)

	// Only booking-side jobs: no order to notify about.
	s.jobQueue.EXPECT().Enqueue(gomock.Any(), commands.TopicCalendarSync, gomock.Any(), gomock.Any()).Return(nil)
	s.jobQueue.EXPECT().Enqueue(gomock.Any(), commands.TopicCustomerBookingEmail, gomock.Any(), gomock.Any()).Return(nil)

	result, err := s.usecase.Checkout(context.Background(), s.request(businessID))
	require.NoError(s.T(), err)

	s.Equal("pay_1", result.PaymentID)
	s.Nil(result.ShopOrderID)
	s.NotNil(result.BookingID)
}

func (s *CheckoutCommandsTestSuite) TestEnqueueFailureDoesNotFailCheckout() {
	businessID := uuid.New()
	c := builder.NewCartBuilder().
		WithBusinessID(businessID).
		WithExpiresAt(s.clock.Now().Add(time.Hour)).
		MustBuild()

	s.cartRepo.EXPECT().FindByToken(gomock.Any(), gomock.Any(), businessID).Return(c, nil)
	s.businessRepo.EXPECT().PaymentConfig(gomock.Any(), businessID).Return(s.business(businessID, nil), nil)
	s.expectCleanGate(c.ID())
	s.sessionRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	s.gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).
		Return(&commands.PaymentResult{PaymentID: "pay_1", Completed: true}, nil)
	s.sessionRepo.EXPECT().MarkPaid(gomock.Any(), gomock.Any()).Return(nil)
	s.orderRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	s.cartRepo.EXPECT().MarkCheckedOut(gomock.Any(), c.ID()).Return(nil)

	s.jobQueue.EXPECT().Enqueue(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("queue down"))

	result, err := s.usecase.Checkout(context.Background(), s.request(businessID))
	require.NoError(s.T(), err)
	s.NotNil(result.ShopOrderID)
}

// ================================================================================
// Async settlement
// ================================================================================

func (s *CheckoutCommandsTestSuite) TestPendingSettlementStillMaterializes() {
	businessID := uuid.New()
	c := s.productAndBookingCart(businessID)

	s.cartRepo.EXPECT().FindByToken(gomock.Any(), gomock.Any(), businessID).Return(c, nil)
	s.businessRepo.EXPECT().PaymentConfig(gomock.Any(), businessID).Return(s.business(businessID, nil), nil)
	s.expectCleanGate(c.ID())
	s.sessionRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	s.gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).
		Return(&commands.PaymentResult{PaymentID: "pay_async", Completed: false}, nil)
	s.sessionRepo.EXPECT().MarkPending(gomock.Any(), gomock.Any()).Return(nil)

	s.orderRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	s.bookingRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	s.cartRepo.EXPECT().MarkCheckedOut(gomock.Any(), c.ID()).Return(nil)
	s.jobQueue.EXPECT().Enqueue(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(3)

	result, err := s.usecase.Checkout(context.Background(), s.request(businessID))
	require.NoError(s.T(), err)
	s.Equal("pay_async", result.PaymentID)
}

//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"

	"unified-checkout/internal/handler/api"
	resdto "unified-checkout/internal/handler/dto/response"
	"unified-checkout/internal/pkg/errs"
	"unified-checkout/internal/usecase/commands"
	"unified-checkout/tests/common/httptest"
	commandsmock "unified-checkout/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type CheckoutHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockCheckoutCommands
	handler      *api.CheckoutHandler
}

func (s *CheckoutHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockCheckoutCommands(s.mockCtrl)
	s.handler = api.NewCheckoutHandler(s.mockCommands)

	// Stand-in for the logging middleware's trace id assignment.
	traceMiddleware := func(c *gin.Context) {
		c.Set("trace_id", "test-trace")
		c.Next()
	}

	s.router.POST("/checkout", traceMiddleware, s.handler.Checkout)
}

func (s *CheckoutHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestCheckoutHandlerSuite(t *testing.T) {
	suite.Run(t, new(CheckoutHandlerTestSuite))
}

func validCheckoutBody() map[string]any {
	return map[string]any{
		"session_token":  "cart-session-token",
		"business_id":    uuid.New().String(),
		"customer_name":  "Ada Lovelace",
		"customer_email": "ada@example.com",
		"source_id":      "cnon:card-nonce",
	}
}

// ================================================================================
// TestCheckout
// ================================================================================

func (s *CheckoutHandlerTestSuite) TestCheckout() {
	url := "/checkout"

	s.Run("success: returns 200 OK with payment and record ids", func() {
		orderID := uuid.New()
		bookingID := uuid.New()
		result := &commands.CheckoutResult{
			SessionID:   uuid.New(),
			PaymentID:   "pay_1",
			ShopOrderID: &orderID,
			BookingID:   &bookingID,
		}

		s.mockCommands.EXPECT().Checkout(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, req commands.CheckoutRequest) (*commands.CheckoutResult, error) {
				s.Equal("test-trace", req.TraceID)
				s.Equal("cart-session-token", req.SessionToken)
				return result, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, validCheckoutBody())

		var response resdto.CheckoutResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.True(response.Success)
		s.Equal("test-trace", response.TraceID)
		s.Equal(result.SessionID, response.CheckoutSessionID)
		s.Equal("pay_1", response.SquarePaymentID)
		s.Equal(&orderID, response.ShopOrderID)
		s.Equal(&bookingID, response.BookingID)
	})

	s.Run("success: null record ids survive a partial materialization", func() {
		bookingID := uuid.New()
		result := &commands.CheckoutResult{
			SessionID: uuid.New(),
			PaymentID: "pay_1",
			BookingID: &bookingID,
		}

		s.mockCommands.EXPECT().Checkout(gomock.Any(), gomock.Any()).
			Return(result, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, validCheckoutBody())

		var response resdto.CheckoutResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Nil(response.ShopOrderID)
		s.Equal(&bookingID, response.BookingID)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		testCases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing field: session_token", mutate: func(m map[string]any) { delete(m, "session_token") }},
			{name: "missing field: business_id", mutate: func(m map[string]any) { delete(m, "business_id") }},
			{name: "missing field: customer_name", mutate: func(m map[string]any) { delete(m, "customer_name") }},
			{name: "missing field: customer_email", mutate: func(m map[string]any) { delete(m, "customer_email") }},
			{name: "missing field: source_id", mutate: func(m map[string]any) { delete(m, "source_id") }},
			{name: "malformed email", mutate: func(m map[string]any) { m["customer_email"] = "not-an-email" }},
			{name: "malformed business_id", mutate: func(m map[string]any) { m["business_id"] = "not-a-uuid" }},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				body := validCheckoutBody()
				tc.mutate(body)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body)
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
			})
		}
	})

	s.Run("error: 400 with prior paymentId on duplicate submission", func() {
		s.mockCommands.EXPECT().Checkout(gomock.Any(), gomock.Any()).
			Return(nil, &commands.DuplicateSubmission{PaymentID: "pay_prior"}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, validCheckoutBody())

		body := httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "already completed")
		s.Equal("pay_prior", body["paymentId"])
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "cart not found",
				commandsError:  commands.ErrCartNotFound,
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "Cart not found",
			},
			{
				name:           "cart not active",
				commandsError:  commands.ErrCartNotActive,
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "no longer active",
			},
			{
				name:           "cart expired",
				commandsError:  commands.ErrCartExpired,
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "expired",
			},
			{
				name:           "empty cart",
				commandsError:  commands.ErrEmptyCart,
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "empty",
			},
			{
				name:           "business not configured",
				commandsError:  commands.ErrBusinessNotConfigured,
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "not configured",
			},
			{
				name:           "internal server error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Checkout(gomock.Any(), gomock.Any()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, validCheckoutBody())
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})

	s.Run("error: splits gateway failures by kind", func() {
		testCases := []struct {
			name           string
			kind           commands.GatewayErrorKind
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "declined is the customer's problem",
				kind:           commands.GatewayDeclined,
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "declined",
			},
			{
				name:           "network failure is upstream's problem",
				kind:           commands.GatewayNetwork,
				expectedStatus: http.StatusBadGateway,
				expectedMsg:    "unavailable",
			},
			{
				name:           "auth failure is our problem",
				kind:           commands.GatewayAuth,
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Payment failed",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				gatewayErr := errs.Mark(
					&commands.GatewayError{Kind: tc.kind, Message: "gateway says no"},
					commands.ErrPaymentFailed,
				)
				s.mockCommands.EXPECT().Checkout(gomock.Any(), gomock.Any()).
					Return(nil, gatewayErr).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, validCheckoutBody())
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})

	s.Run("error: 500 when payment failure lost its gateway detail", func() {
		s.mockCommands.EXPECT().Checkout(gomock.Any(), gomock.Any()).
			Return(nil, commands.ErrPaymentFailed).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, validCheckoutBody())
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Payment failed")
	})
}

package api

import (
	"net/http"

	reqdto "unified-checkout/internal/handler/dto/request"
	resdto "unified-checkout/internal/handler/dto/response"
	"unified-checkout/internal/handler/httperr"
	"unified-checkout/internal/handler/middleware"
	"unified-checkout/internal/pkg/errs"
	"unified-checkout/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	checkoutUseCase commands.CheckoutCommands
}

func NewCheckoutHandler(checkoutUseCase commands.CheckoutCommands) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutUseCase: checkoutUseCase,
	}
}

// @Summary Checkout
// @Description Turn a cart into a paid, recorded, and notified transaction
// @Tags checkout
// @Accept json
// @Produce json
// @Param request body reqdto.CheckoutRequest true "Checkout request"
// @Success 200 {object} resdto.CheckoutResponse
// @Failure 400 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /checkout [post]
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	traceID := middleware.GetTraceID(c)

	var req reqdto.CheckoutRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format")
		return
	}

	result, err := h.checkoutUseCase.Checkout(c.Request.Context(), req.ToCommand(traceID))
	if err != nil {
		h.respondCheckoutError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromCheckoutResult(result, traceID))
}

func (h *CheckoutHandler) respondCheckoutError(c *gin.Context, err error) {
	var dup *commands.DuplicateSubmission
	if errs.As(err, &dup) {
		httperr.AbortDuplicate(c, http.StatusBadRequest, err,
			"Checkout already completed for this cart", dup.PaymentID)
		return
	}

	switch {
	case errs.Is(err, commands.ErrCartNotFound):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Cart not found")
	case errs.Is(err, commands.ErrCartNotActive):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Cart is no longer active")
	case errs.Is(err, commands.ErrCartExpired):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Cart has expired")
	case errs.Is(err, commands.ErrEmptyCart):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Cart is empty")
	case errs.Is(err, commands.ErrBusinessNotConfigured):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Business is not configured for payments")
	case errs.Is(err, commands.ErrPaymentFailed):
		h.respondPaymentError(c, err)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error")
	}
}

// respondPaymentError splits gateway failures by who can fix them: declines
// are the customer's problem (400), transport failures are upstream's (502),
// anything else is ours (500).
func (h *CheckoutHandler) respondPaymentError(c *gin.Context, err error) {
	var gw *commands.GatewayError
	if !errs.As(err, &gw) {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Payment failed")
		return
	}

	switch gw.Kind {
	case commands.GatewayDeclined:
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Payment was declined")
	case commands.GatewayNetwork:
		httperr.AbortWithError(c, http.StatusBadGateway, err, "Payment service is unavailable")
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Payment failed")
	}
}

package response

import (
	"time"

	"unified-checkout/internal/usecase/commands"
	"unified-checkout/internal/usecase/queries"

	"github.com/google/uuid"
)

type CheckoutResponse struct {
	Success           bool       `json:"success"`
	TraceID           string     `json:"traceId"`
	CheckoutSessionID uuid.UUID  `json:"checkoutSessionId"`
	SquarePaymentID   string     `json:"squarePaymentId"`
	ShopOrderID       *uuid.UUID `json:"shopOrderId"`
	BookingID         *uuid.UUID `json:"bookingId"`
}

func FromCheckoutResult(result *commands.CheckoutResult, traceID string) *CheckoutResponse {
	return &CheckoutResponse{
		Success:           true,
		TraceID:           traceID,
		CheckoutSessionID: result.SessionID,
		SquarePaymentID:   result.PaymentID,
		ShopOrderID:       result.ShopOrderID,
		BookingID:         result.BookingID,
	}
}

type SessionResponse struct {
	ID               uuid.UUID  `json:"id"`
	CartID           uuid.UUID  `json:"cartId"`
	BusinessID       uuid.UUID  `json:"businessId"`
	AmountTotalCents int64      `json:"amountTotalCents"`
	Currency         string     `json:"currency"`
	Status           string     `json:"status"`
	SquarePaymentID  *string    `json:"squarePaymentId,omitempty"`
	PaidAt           *time.Time `json:"paidAt,omitempty"`
	ErrorMessage     *string    `json:"errorMessage,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

func FromSessionView(rm *queries.SessionView) *SessionResponse {
	return &SessionResponse{
		ID:               rm.ID,
		CartID:           rm.CartID,
		BusinessID:       rm.BusinessID,
		AmountTotalCents: rm.AmountTotalCents,
		Currency:         rm.Currency,
		Status:           rm.Status,
		SquarePaymentID:  rm.SquarePaymentID,
		PaidAt:           rm.PaidAt,
		ErrorMessage:     rm.ErrorMessage,
		CreatedAt:        rm.CreatedAt,
	}
}

package request

import (
	"strings"

	"unified-checkout/internal/usecase/commands"

	"github.com/google/uuid"
)

type CheckoutRequest struct {
	SessionToken  string    `json:"session_token" binding:"required"`
	BusinessID    uuid.UUID `json:"business_id" binding:"required"`
	CustomerName  string    `json:"customer_name" binding:"required"`
	CustomerEmail string    `json:"customer_email" binding:"required,email"`
	CustomerPhone *string   `json:"customer_phone,omitempty"`
	SourceID      string    `json:"source_id" binding:"required"`
}

func (r CheckoutRequest) GetCustomerPhone() *string {
	if r.CustomerPhone == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*r.CustomerPhone)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func (r CheckoutRequest) ToCommand(traceID string) commands.CheckoutRequest {
	return commands.CheckoutRequest{
		SessionToken:  strings.TrimSpace(r.SessionToken),
		BusinessID:    r.BusinessID,
		CustomerName:  strings.TrimSpace(r.CustomerName),
		CustomerEmail: strings.TrimSpace(r.CustomerEmail),
		CustomerPhone: r.GetCustomerPhone(),
		SourceID:      r.SourceID,
		TraceID:       traceID,
	}
}

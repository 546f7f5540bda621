package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"unified-checkout/internal/pkg/config"
	"unified-checkout/internal/usecase/commands"
)

// SquareClient is a thin wrapper around the Square payments API. The caller's
// idempotency key is passed through unchanged, so a transport-level retry of
// the same call can never double-charge.
type SquareClient struct {
	cfg        config.SquareConfig
	httpClient *http.Client
}

func NewSquareClient(cfg config.SquareConfig) *SquareClient {
	return &SquareClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type squareMoney struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type createPaymentBody struct {
	IdempotencyKey string      `json:"idempotency_key"`
	SourceID       string      `json:"source_id"`
	AmountMoney    squareMoney `json:"amount_money"`
	LocationID     string      `json:"location_id"`
	ReferenceID    string      `json:"reference_id,omitempty"`
	BuyerEmail     string      `json:"buyer_email_address,omitempty"`
	Autocomplete   bool        `json:"autocomplete"`
}

type paymentResponse struct {
	Payment struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	} `json:"payment"`
	Errors []squareError `json:"errors"`
}

type squareError struct {
	Category string `json:"category"`
	Code     string `json:"code"`
	Detail   string `json:"detail"`
}

func (e squareError) message() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Code
}

func (c *SquareClient) CreatePayment(ctx context.Context, req commands.PaymentRequest) (*commands.PaymentResult, error) {
	body := createPaymentBody{
		IdempotencyKey: req.IdempotencyKey,
		SourceID:       req.SourceToken,
		AmountMoney: squareMoney{
			Amount:   req.AmountCents,
			Currency: req.Currency,
		},
		LocationID:   req.LocationID,
		ReferenceID:  req.ReferenceID,
		BuyerEmail:   req.BuyerEmail,
		Autocomplete: true,
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, &commands.GatewayError{Kind: commands.GatewayNetwork, Message: "failed to encode payment request", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v2/payments", bytes.NewReader(data))
	if err != nil {
		return nil, &commands.GatewayError{Kind: commands.GatewayNetwork, Message: "failed to build payment request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)
	httpReq.Header.Set("Square-Version", c.cfg.APIVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// Includes context deadline: a timed-out capture is indistinguishable
		// from a failed one at this layer.
		return nil, &commands.GatewayError{Kind: commands.GatewayNetwork, Message: "payment request failed", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &commands.GatewayError{Kind: commands.GatewayNetwork, Message: "failed to read payment response", Err: err}
	}

	var parsed paymentResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, &commands.GatewayError{
			Kind:    commands.GatewayNetwork,
			Message: fmt.Sprintf("unparseable payment response (status %d)", resp.StatusCode),
			Err:     err,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, classifyFailure(resp.StatusCode, parsed.Errors)
	}

	return &commands.PaymentResult{
		PaymentID: parsed.Payment.ID,
		Completed: parsed.Payment.Status == "COMPLETED",
	}, nil
}

// classifyFailure splits client-fixable declines from operator-fixable
// configuration problems so the error message can be routed accordingly.
func classifyFailure(statusCode int, errors []squareError) *commands.GatewayError {
	if len(errors) == 0 {
		return &commands.GatewayError{
			Kind:    commands.GatewayNetwork,
			Message: fmt.Sprintf("payment rejected with status %d", statusCode),
		}
	}

	first := errors[0]
	switch first.Category {
	case "PAYMENT_METHOD_ERROR":
		return &commands.GatewayError{Kind: commands.GatewayDeclined, Message: first.message()}
	case "AUTHENTICATION_ERROR", "INVALID_REQUEST_ERROR":
		return &commands.GatewayError{Kind: commands.GatewayAuth, Message: first.message()}
	default:
		return &commands.GatewayError{Kind: commands.GatewayNetwork, Message: first.message()}
	}
}

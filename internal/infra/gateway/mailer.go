package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"unified-checkout/internal/pkg/config"
	"unified-checkout/internal/pkg/errs"
)

type Email struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	TraceID string `json:"trace_id"`
}

// Mailer posts to the email-dispatch collaborator. Each send is independent;
// retries are the job queue's concern, not the client's.
type Mailer struct {
	cfg        config.MailConfig
	httpClient *http.Client
}

func NewMailer(cfg config.MailConfig) *Mailer {
	return &Mailer{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (m *Mailer) Send(ctx context.Context, email Email) error {
	if email.From == "" {
		email.From = m.cfg.FromAddress
	}

	data, err := json.Marshal(email)
	if err != nil {
		return errs.Wrap(err, "failed to encode email")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.Endpoint, bytes.NewReader(data))
	if err != nil {
		return errs.Wrap(err, "failed to build email request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.cfg.APIKey)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return errs.Wrap(err, "email request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errs.Errorf("email dispatcher returned status %d", resp.StatusCode)
	}

	return nil
}

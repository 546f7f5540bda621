package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"unified-checkout/internal/infra"
	"unified-checkout/internal/infra/repository"
	"unified-checkout/internal/pkg/clock"
	"unified-checkout/internal/pkg/config"
	"unified-checkout/internal/pkg/errs"
	"unified-checkout/internal/usecase/queries"

	"github.com/google/uuid"
)

var ErrCalendarRejected = errs.New("calendar API rejected the event")

type IntegrationStore interface {
	FindByBusinessID(ctx context.Context, businessID uuid.UUID) (*repository.CalendarIntegration, error)
	UpdateToken(ctx context.Context, id uuid.UUID, accessToken string, expiresAt time.Time) error
}

// CalendarClient bridges bookings to the external calendar. Everything here
// is best-effort: a nil event ID with a nil error means sync was skipped
// because the business has no connected integration.
type CalendarClient struct {
	cfg          config.CalendarConfig
	integrations IntegrationStore
	httpClient   *http.Client
	clock        clock.Clock
	logger       *slog.Logger
}

func NewCalendarClient(cfg config.CalendarConfig, integrations IntegrationStore, clk clock.Clock, logger *slog.Logger) *CalendarClient {
	return &CalendarClient{
		cfg:          cfg,
		integrations: integrations,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		clock:        clk,
		logger:       logger,
	}
}

// Sync creates a calendar event for the booking and returns its ID. A nil ID
// without error means the business is not connected and sync is skipped.
func (c *CalendarClient) Sync(ctx context.Context, businessID uuid.UUID, b *queries.BookingView) (*string, error) {
	integration, err := c.integrations.FindByBusinessID(ctx, businessID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil
		}
		return nil, errs.Wrap(err, "failed to load calendar integration")
	}
	if !integration.Connected {
		return nil, nil
	}

	token := integration.AccessToken
	if integration.TokenExpired(c.clock.Now()) {
		token, err = c.refreshToken(ctx, integration)
		if err != nil {
			return nil, errs.Wrap(err, "failed to refresh calendar token")
		}
	}

	eventID, err := c.createEvent(ctx, integration, token, b)
	if err != nil {
		return nil, err
	}

	return &eventID, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (c *CalendarClient) refreshToken(ctx context.Context, integration *repository.CalendarIntegration) (string, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {integration.RefreshToken},
		"client_id":     {c.cfg.ClientID},
		"client_secret": {c.cfg.ClientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", errs.Errorf("token refresh rejected with status %d", resp.StatusCode)
	}

	var parsed tokenResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&parsed); err != nil {
		return "", err
	}

	expiresAt := c.clock.Now().Add(time.Duration(parsed.ExpiresIn) * time.Second)
	if err := c.integrations.UpdateToken(ctx, integration.ID, parsed.AccessToken, expiresAt); err != nil {
		// The refreshed token still works for this request; losing the write
		// only costs a redundant refresh next time.
		c.logger.Warn("failed to persist refreshed calendar token",
			"integration_id", integration.ID, "error", err)
	}

	return parsed.AccessToken, nil
}

type eventTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type eventAttendee struct {
	Email string `json:"email"`
}

type calendarEvent struct {
	Summary     string          `json:"summary"`
	Description string          `json:"description"`
	Start       eventTime       `json:"start"`
	End         eventTime       `json:"end"`
	Attendees   []eventAttendee `json:"attendees,omitempty"`
}

type eventResponse struct {
	ID string `json:"id"`
}

func (c *CalendarClient) createEvent(ctx context.Context, integration *repository.CalendarIntegration, token string, b *queries.BookingView) (string, error) {
	tz := integration.Timezone
	if tz == "" {
		tz = b.Timezone
	}

	event := calendarEvent{
		Summary:     fmt.Sprintf("%s - %s", b.ServiceName, b.CustomerName),
		Description: buildEventDescription(b),
		Start:       eventTime{DateTime: b.StartTime.Format(time.RFC3339), TimeZone: tz},
		End:         eventTime{DateTime: b.EndTime.Format(time.RFC3339), TimeZone: tz},
	}
	if b.CustomerEmail != "" {
		event.Attendees = []eventAttendee{{Email: b.CustomerEmail}}
	}

	data, err := json.Marshal(event)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/calendars/%s/events", c.cfg.APIBaseURL, url.PathEscape(integration.CalendarID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", errs.Mark(errs.Errorf("calendar API returned status %d", resp.StatusCode), ErrCalendarRejected)
	}

	var parsed eventResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&parsed); err != nil {
		return "", err
	}

	return parsed.ID, nil
}

func buildEventDescription(b *queries.BookingView) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Service: %s\nCustomer: %s\nEmail: %s\n", b.ServiceName, b.CustomerName, b.CustomerEmail)
	if b.CustomerPhone != nil {
		fmt.Fprintf(&sb, "Phone: %s\n", *b.CustomerPhone)
	}
	if b.Notes != nil {
		fmt.Fprintf(&sb, "Notes: %s\n", *b.Notes)
	}
	return sb.String()
}

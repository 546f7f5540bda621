package worker

import (
	"context"
	"encoding/json"
	"log/slog"

	"unified-checkout/internal/domain/booking"
	"unified-checkout/internal/infra/gateway"
	"unified-checkout/internal/infra/repository"
	"unified-checkout/internal/pkg/errs"
	"unified-checkout/internal/usecase/commands"
	"unified-checkout/internal/usecase/queries"

	"github.com/google/uuid"
)

var ErrUnknownTopic = errs.New("unknown side-effect topic")

type BookingReads interface {
	FindViewByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error)
}

type OrderReads interface {
	FindViewByID(ctx context.Context, id uuid.UUID) (*queries.OrderView, error)
}

type BusinessReads interface {
	FindViewByID(ctx context.Context, id uuid.UUID) (*queries.BusinessView, error)
}

type BookingSyncWriter interface {
	UpdateCalendarSync(ctx context.Context, bookingID uuid.UUID, eventID *string, status booking.CalendarSyncStatus) error
}

// CalendarSyncer returns the created event's ID, or nil without error when
// the business has no connected integration.
type CalendarSyncer interface {
	Sync(ctx context.Context, businessID uuid.UUID, b *queries.BookingView) (*string, error)
}

type EmailSender interface {
	Send(ctx context.Context, email gateway.Email) error
}

type HandlerFunc func(ctx context.Context, job repository.Job) error

type Dispatcher struct {
	handlers map[string]HandlerFunc
}

func (d *Dispatcher) Dispatch(ctx context.Context, job repository.Job) error {
	handler, ok := d.handlers[job.Topic]
	if !ok {
		return errs.Mark(errs.Errorf("no handler for topic %q", job.Topic), ErrUnknownTopic)
	}
	return handler(ctx, job)
}

func NewDispatcher(
	bookings BookingReads,
	orders OrderReads,
	businesses BusinessReads,
	syncWriter BookingSyncWriter,
	calendar CalendarSyncer,
	mailer EmailSender,
	logger *slog.Logger,
) *Dispatcher {
	h := &handlers{
		bookings:   bookings,
		orders:     orders,
		businesses: businesses,
		syncWriter: syncWriter,
		calendar:   calendar,
		mailer:     mailer,
		logger:     logger,
	}

	return &Dispatcher{handlers: map[string]HandlerFunc{
		commands.TopicCalendarSync:         h.calendarSync,
		commands.TopicCustomerOrderEmail:   h.customerOrderEmail,
		commands.TopicCustomerBookingEmail: h.customerBookingEmail,
		commands.TopicAdminOrderEmail:      h.adminOrderEmail,
		commands.TopicAdminBookingEmail:    h.adminBookingEmail,
	}}
}

type handlers struct {
	bookings   BookingReads
	orders     OrderReads
	businesses BusinessReads
	syncWriter BookingSyncWriter
	calendar   CalendarSyncer
	mailer     EmailSender
	logger     *slog.Logger
}

type bookingPayload struct {
	BookingID uuid.UUID `json:"booking_id"`
	TraceID   string    `json:"trace_id"`
}

type orderPayload struct {
	ShopOrderID uuid.UUID `json:"shop_order_id"`
	TraceID     string    `json:"trace_id"`
}

func (h *handlers) calendarSync(ctx context.Context, job repository.Job) error {
	var payload bookingPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return errs.Wrap(err, "malformed calendar sync payload")
	}

	b, err := h.bookings.FindViewByID(ctx, payload.BookingID)
	if err != nil {
		return err
	}

	eventID, err := h.calendar.Sync(ctx, b.BusinessID, b)
	if err != nil {
		// Record the failure on the booking; the job retries independently,
		// and the booking itself is unaffected either way.
		if updateErr := h.syncWriter.UpdateCalendarSync(ctx, b.ID, nil, booking.SyncFailed); updateErr != nil {
			h.logger.Error("failed to record calendar sync failure",
				"booking_id", b.ID, "error", updateErr)
		}
		return err
	}

	if eventID == nil {
		return h.syncWriter.UpdateCalendarSync(ctx, b.ID, nil, booking.SyncSkipped)
	}
	return h.syncWriter.UpdateCalendarSync(ctx, b.ID, eventID, booking.SyncSynced)
}

func (h *handlers) customerBookingEmail(ctx context.Context, job repository.Job) error {
	var payload bookingPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return errs.Wrap(err, "malformed booking email payload")
	}

	b, err := h.bookings.FindViewByID(ctx, payload.BookingID)
	if err != nil {
		return err
	}

	return h.mailer.Send(ctx, customerBookingEmail(b, payload.TraceID))
}

func (h *handlers) adminBookingEmail(ctx context.Context, job repository.Job) error {
	var payload bookingPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return errs.Wrap(err, "malformed booking email payload")
	}

	b, err := h.bookings.FindViewByID(ctx, payload.BookingID)
	if err != nil {
		return err
	}

	business, err := h.businesses.FindViewByID(ctx, b.BusinessID)
	if err != nil {
		return err
	}
	if business.AdminEmail == nil || *business.AdminEmail == "" {
		// No admin address configured: skip, not fail.
		h.logger.Info("skipping admin booking alert, no admin email configured",
			"business_id", b.BusinessID)
		return nil
	}

	return h.mailer.Send(ctx, adminBookingEmail(b, *business.AdminEmail, payload.TraceID))
}

func (h *handlers) customerOrderEmail(ctx context.Context, job repository.Job) error {
	var payload orderPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return errs.Wrap(err, "malformed order email payload")
	}

	o, err := h.orders.FindViewByID(ctx, payload.ShopOrderID)
	if err != nil {
		return err
	}

	return h.mailer.Send(ctx, customerOrderEmail(o, payload.TraceID))
}

func (h *handlers) adminOrderEmail(ctx context.Context, job repository.Job) error {
	var payload orderPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return errs.Wrap(err, "malformed order email payload")
	}

	o, err := h.orders.FindViewByID(ctx, payload.ShopOrderID)
	if err != nil {
		return err
	}

	business, err := h.businesses.FindViewByID(ctx, o.BusinessID)
	if err != nil {
		return err
	}
	if business.AdminEmail == nil || *business.AdminEmail == "" {
		h.logger.Info("skipping admin order alert, no admin email configured",
			"business_id", o.BusinessID)
		return nil
	}

	return h.mailer.Send(ctx, adminOrderEmail(o, *business.AdminEmail, payload.TraceID))
}

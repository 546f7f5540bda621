package repository

import (
	"context"

	"unified-checkout/internal/domain/booking"
	"unified-checkout/internal/infra"
	"unified-checkout/internal/pkg/pgconv"
	"unified-checkout/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

const createBookingQuery = `
INSERT INTO bookings (
	id, business_id, service_id, checkout_session_id, service_name,
	customer_name, customer_email, customer_phone, notes,
	start_time, end_time, timezone, duration_minutes, status,
	payment_amount_cents, payment_status, payment_id, calendar_sync_status, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
`

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	_, err := r.pool.Exec(ctx, createBookingQuery,
		b.ID(),
		b.BusinessID(),
		b.ServiceID(),
		b.SessionID(),
		b.ServiceName(),
		b.CustomerName(),
		b.CustomerEmail(),
		pgconv.StringPtrToPgtype(b.CustomerPhone()),
		pgconv.StringPtrToPgtype(b.Notes()),
		b.StartTime(),
		b.EndTime(),
		b.Timezone(),
		b.DurationMinutes(),
		b.Status().String(),
		b.PaymentAmountCents(),
		b.PaymentStatus().String(),
		b.PaymentID(),
		b.CalendarSyncStatus().String(),
		b.CreatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create booking", err)
	}
	return nil
}

const bookingViewQuery = `
SELECT id, business_id, service_id, checkout_session_id, service_name,
       customer_name, customer_email, customer_phone, notes,
       start_time, end_time, timezone, duration_minutes, status,
       payment_amount_cents, payment_status, payment_id,
       calendar_event_id, calendar_sync_status
FROM bookings
WHERE id = $1
`

func (r *BookingRepository) FindViewByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	var (
		view      queries.BookingView
		sessionID uuid.UUID
		phone     pgtype.Text
		notes     pgtype.Text
		eventID   pgtype.Text
	)
	err := r.pool.QueryRow(ctx, bookingViewQuery, id).Scan(
		&view.ID, &view.BusinessID, &view.ServiceID, &sessionID, &view.ServiceName,
		&view.CustomerName, &view.CustomerEmail, &phone, &notes,
		&view.StartTime, &view.EndTime, &view.Timezone, &view.DurationMinutes, &view.Status,
		&view.PaymentAmountCents, &view.PaymentStatus, &view.PaymentID,
		&eventID, &view.CalendarSyncStatus,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}

	view.CustomerPhone = pgconv.StringPtrFromPgtype(phone)
	view.Notes = pgconv.StringPtrFromPgtype(notes)
	view.CalendarEventID = pgconv.StringPtrFromPgtype(eventID)

	return &view, nil
}

const updateCalendarSyncQuery = `
UPDATE bookings
SET calendar_event_id = $2, calendar_sync_status = $3, updated_at = now()
WHERE id = $1
`

// UpdateCalendarSync is the only mutation this core performs on a booking
// after creation; admin confirm/cancel/complete actions live outside it.
func (r *BookingRepository) UpdateCalendarSync(ctx context.Context, bookingID uuid.UUID, eventID *string, status booking.CalendarSyncStatus) error {
	_, err := r.pool.Exec(ctx, updateCalendarSyncQuery,
		bookingID,
		pgconv.StringPtrToPgtype(eventID),
		status.String(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update booking calendar sync", err)
	}
	return nil
}

package booking

import (
	"errors"
	"time"

	"unified-checkout/internal/domain/cart"

	"github.com/google/uuid"
)

var (
	ErrMissingCustomerEmail = errors.New("booking requires a customer email")
	ErrInvalidSlot          = errors.New("booking end time must be after start time")
)

// Booking is the materialized appointment record. It is created confirmed;
// payment status lives alongside, not instead of, the booking status.
type Booking struct {
	id                 uuid.UUID
	businessID         uuid.UUID
	serviceID          uuid.UUID
	sessionID          uuid.UUID
	serviceName        string
	customerName       string
	customerEmail      string
	customerPhone      *string
	notes              *string
	startTime          time.Time
	endTime            time.Time
	timezone           string
	durationMinutes    int32
	status             Status
	paymentAmountCents int64
	paymentStatus      PaymentStatus
	paymentID          string
	calendarEventID    *string
	calendarSyncStatus CalendarSyncStatus
	createdAt          time.Time
}

type CheckoutContact struct {
	Name  string
	Email string
	Phone *string
}

// NewBookingFromDraft materializes a cart's booking draft. Contact fields
// submitted at checkout time take precedence over the draft's
// earlier-collected values; duration is derived from the slot bounds.
func NewBookingFromDraft(
	businessID, sessionID uuid.UUID,
	draft cart.BookingDraft,
	contact CheckoutContact,
	paymentAmountCents int64,
	paymentStatus PaymentStatus,
	paymentID string,
	now time.Time,
) (*Booking, error) {
	if !draft.EndTime.After(draft.StartTime) {
		return nil, ErrInvalidSlot
	}

	name := contact.Name
	if name == "" && draft.CustomerName != nil {
		name = *draft.CustomerName
	}

	email := contact.Email
	if email == "" && draft.CustomerEmail != nil {
		email = *draft.CustomerEmail
	}
	if email == "" {
		return nil, ErrMissingCustomerEmail
	}

	phone := contact.Phone
	if phone == nil {
		phone = draft.CustomerPhone
	}

	return &Booking{
		id:                 uuid.New(),
		businessID:         businessID,
		serviceID:          draft.ServiceID,
		sessionID:          sessionID,
		serviceName:        draft.ServiceName,
		customerName:       name,
		customerEmail:      email,
		customerPhone:      phone,
		notes:              draft.Notes,
		startTime:          draft.StartTime,
		endTime:            draft.EndTime,
		timezone:           draft.Timezone,
		durationMinutes:    draft.DurationMinutes(),
		status:             StatusConfirmed,
		paymentAmountCents: paymentAmountCents,
		paymentStatus:      paymentStatus,
		paymentID:          paymentID,
		calendarSyncStatus: SyncPending,
		createdAt:          now,
	}, nil
}

func (b *Booking) ID() uuid.UUID                         { return b.id }
func (b *Booking) BusinessID() uuid.UUID                 { return b.businessID }
func (b *Booking) ServiceID() uuid.UUID                  { return b.serviceID }
func (b *Booking) SessionID() uuid.UUID                  { return b.sessionID }
func (b *Booking) ServiceName() string                   { return b.serviceName }
func (b *Booking) CustomerName() string                  { return b.customerName }
func (b *Booking) CustomerEmail() string                 { return b.customerEmail }
func (b *Booking) CustomerPhone() *string                { return b.customerPhone }
func (b *Booking) Notes() *string                        { return b.notes }
func (b *Booking) StartTime() time.Time                  { return b.startTime }
func (b *Booking) EndTime() time.Time                    { return b.endTime }
func (b *Booking) Timezone() string                      { return b.timezone }
func (b *Booking) DurationMinutes() int32                { return b.durationMinutes }
func (b *Booking) Status() Status                        { return b.status }
func (b *Booking) PaymentAmountCents() int64             { return b.paymentAmountCents }
func (b *Booking) PaymentStatus() PaymentStatus          { return b.paymentStatus }
func (b *Booking) PaymentID() string                     { return b.paymentID }
func (b *Booking) CalendarEventID() *string              { return b.calendarEventID }
func (b *Booking) CalendarSyncStatus() CalendarSyncStatus { return b.calendarSyncStatus }
func (b *Booking) CreatedAt() time.Time                  { return b.createdAt }

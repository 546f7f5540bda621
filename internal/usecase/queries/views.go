package queries

import (
	"time"

	"github.com/google/uuid"
)

// BookingView is the read model the side-effect worker renders calendar
// events and confirmation emails from.
type BookingView struct {
	ID                 uuid.UUID
	BusinessID         uuid.UUID
	ServiceID          uuid.UUID
	ServiceName        string
	CustomerName       string
	CustomerEmail      string
	CustomerPhone      *string
	Notes              *string
	StartTime          time.Time
	EndTime            time.Time
	Timezone           string
	DurationMinutes    int32
	Status             string
	PaymentAmountCents int64
	PaymentStatus      string
	PaymentID          string
	CalendarEventID    *string
	CalendarSyncStatus string
}

type OrderItemView struct {
	Name           string
	UnitPriceCents int64
	Quantity       int32
	LineTotalCents int64
}

type OrderView struct {
	ID            uuid.UUID
	BusinessID    uuid.UUID
	CustomerName  string
	CustomerEmail string
	SubtotalCents int64
	TaxCents      int64
	TotalCents    int64
	PaymentID     string
	PaidAt        *time.Time
	Items         []OrderItemView
}

type BusinessView struct {
	ID         uuid.UUID
	Name       string
	AdminEmail *string
}

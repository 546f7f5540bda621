package booking

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCanceled  Status = "canceled"
	StatusCompleted Status = "completed"
)

func (s Status) String() string {
	return string(s)
}

// CalendarSyncStatus tracks the best-effort calendar bridge, independent of
// the booking's own lifecycle.
type CalendarSyncStatus string

const (
	SyncPending CalendarSyncStatus = "pending"
	SyncSynced  CalendarSyncStatus = "synced"
	SyncSkipped CalendarSyncStatus = "skipped"
	SyncFailed  CalendarSyncStatus = "failed"
)

func (s CalendarSyncStatus) String() string {
	return string(s)
}

type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentPending PaymentStatus = "pending"
)

func (s PaymentStatus) String() string {
	return string(s)
}

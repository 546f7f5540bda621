package checkout

type SessionStatus string

const (
	// StatusProcessing is the only non-terminal state; every session is
	// created here and transitions exactly once.
	StatusProcessing SessionStatus = "processing"
	StatusPaid       SessionStatus = "paid"
	StatusPending    SessionStatus = "pending"
	StatusFailed     SessionStatus = "failed"
)

func (s SessionStatus) String() string {
	return string(s)
}

func (s SessionStatus) IsTerminal() bool {
	switch s {
	case StatusPaid, StatusPending, StatusFailed:
		return true
	default:
		return false
	}
}

const DefaultCurrency = "USD"

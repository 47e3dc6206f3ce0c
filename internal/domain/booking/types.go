package booking

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCanceled  Status = "canceled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCanceled:
		return true
	default:
		return false
	}
}

// IsActive reports whether a booking in this status still occupies its nights.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

func NewStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

type CancelReason string

const (
	ReasonUserRequested  CancelReason = "user_requested"
	ReasonPaymentTimeout CancelReason = "payment_timeout"
	ReasonConflictLost   CancelReason = "conflict_lost"
	ReasonRefunded       CancelReason = "refunded"
)

func (r CancelReason) String() string {
	return string(r)
}

func (r CancelReason) IsValid() bool {
	switch r {
	case ReasonUserRequested, ReasonPaymentTimeout, ReasonConflictLost, ReasonRefunded:
		return true
	default:
		return false
	}
}

func NewCancelReason(s string) (CancelReason, error) {
	r := CancelReason(s)
	if !r.IsValid() {
		return "", ErrInvalidReason
	}
	return r, nil
}

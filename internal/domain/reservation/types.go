package reservation

import "errors"

var (
	ErrInvalidStatus     = errors.New("invalid reservation status")
	ErrInvalidTransition = errors.New("status transition not allowed")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// transitions is the closed state machine: pending and confirmed can be
// cancelled, pending can be confirmed, cancelled is terminal. Same-state
// requests are not listed and therefore rejected.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled},
	StatusCancelled: {},
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsActive reports whether the reservation participates in the overlap
// invariant for its resource.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

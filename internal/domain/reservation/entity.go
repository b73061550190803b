package reservation

import (
	"errors"
	"time"
)

var (
	ErrEmptyUserID          = errors.New("user id is required")
	ErrEmptyResourceID      = errors.New("resource id is required")
	ErrInvalidInitialStatus = errors.New("reservation cannot be created as cancelled")
)

type Reservation struct {
	id         int64
	userID     string
	resourceID string
	timeSpan   TimeSpan
	status     Status
	note       Note
	createdAt  time.Time
	updatedAt  time.Time
}

// NewReservation builds an unpersisted reservation (id stays 0 until the
// store assigns one). An empty status defaults to pending; confirmed is
// accepted as an explicit initial state, cancelled is not.
func NewReservation(
	userID string,
	resourceID string,
	span TimeSpan,
	status Status,
	note Note,
) (*Reservation, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}
	if resourceID == "" {
		return nil, ErrEmptyResourceID
	}
	if span.IsZero() {
		return nil, ErrInvalidTimeSpan
	}

	if status == "" {
		status = StatusPending
	}
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}
	if status == StatusCancelled {
		return nil, ErrInvalidInitialStatus
	}

	return &Reservation{
		userID:     userID,
		resourceID: resourceID,
		timeSpan:   span,
		status:     status,
		note:       note,
	}, nil
}

func ReconstructReservation(
	id int64,
	userID, resourceID string,
	span TimeSpan,
	status Status,
	note Note,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:         id,
		userID:     userID,
		resourceID: resourceID,
		timeSpan:   span,
		status:     status,
		note:       note,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

// TransitionTo validates the move against the state machine before
// applying it.
func (r *Reservation) TransitionTo(next Status) error {
	if !next.IsValid() {
		return ErrInvalidStatus
	}
	if !r.status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	r.status = next
	return nil
}

func (r *Reservation) IsPersisted() bool {
	return r.id != 0
}

func (r *Reservation) IsActive() bool {
	return r.status.IsActive()
}

func (r *Reservation) ID() int64           { return r.id }
func (r *Reservation) UserID() string      { return r.userID }
func (r *Reservation) ResourceID() string  { return r.resourceID }
func (r *Reservation) TimeSpan() TimeSpan  { return r.timeSpan }
func (r *Reservation) Status() Status      { return r.status }
func (r *Reservation) Note() Note          { return r.note }
func (r *Reservation) CreatedAt() time.Time { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time { return r.updatedAt }

package queries

import (
	"context"
	"time"

	"rsvp-service/internal/domain/reservation"
	"rsvp-service/internal/infra"
	"rsvp-service/internal/pkg/errs"
)

// Read models (DTO for read side)
type ReservationView struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"user_id"`
	ResourceID string    `json:"resource_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	Status     string    `json:"status"`
	Note       *string   `json:"note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TimeWindow is a half-open [From,To) filter; a reservation matches when
// its timespan has a non-empty intersection with the window.
type TimeWindow struct {
	From time.Time
	To   time.Time
}

// SearchFilter combines all provided conditions with logical AND.
// Nil fields mean "any".
type SearchFilter struct {
	ResourceID *string
	UserID     *string
	Status     *reservation.Status
	Window     *TimeWindow
}

type ReservationQueries interface {
	GetByID(ctx context.Context, id int64) (*ReservationView, error)
	Search(ctx context.Context, filter SearchFilter) ([]*ReservationView, error)
}

type ReservationReadStore interface {
	FindByID(ctx context.Context, id int64) (*ReservationView, error)
	Search(ctx context.Context, filter SearchFilter) ([]*ReservationView, error)
}

type reservationQueriesImpl struct {
	store ReservationReadStore
}

func NewReservationQueries(store ReservationReadStore) ReservationQueries {
	return &reservationQueriesImpl{store: store}
}

func (q *reservationQueriesImpl) GetByID(ctx context.Context, id int64) (*ReservationView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrReservationNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return view, nil
}

// Search validates the window before touching the store; results arrive
// ordered by timespan start, ties broken by id, so repeated queries over
// an unchanged store return identical sequences.
func (q *reservationQueriesImpl) Search(ctx context.Context, filter SearchFilter) ([]*ReservationView, error) {
	if filter.Window != nil {
		if _, err := reservation.NewTimeSpan(filter.Window.From, filter.Window.To); err != nil {
			return nil, errs.Mark(err, errs.ErrInvalidTimeSpan)
		}
	}
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, errs.Mark(reservation.ErrInvalidStatus, errs.ErrDomainValidation)
	}

	views, err := q.store.Search(ctx, filter)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return views, nil
}

package commands

import (
	"context"
	"errors"
	"time"

	"rsvp-service/internal/domain/reservation"
	"rsvp-service/internal/infra"
	"rsvp-service/internal/infra/db"
	"rsvp-service/internal/pkg/errs"
	"rsvp-service/internal/usecase/queries"
	"rsvp-service/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ReserveParams struct {
	UserID     string
	ResourceID string
	StartTime  time.Time
	EndTime    time.Time
	Status     string // empty defaults to pending
	Note       *string
}

type ReservationRepository interface {
	Create(ctx context.Context, tx db.DBTX, res *reservation.Reservation) (int64, error)
	FindForUpdate(ctx context.Context, tx db.DBTX, id int64) (*reservation.Reservation, error)
	UpdateStatus(ctx context.Context, tx db.DBTX, id int64, status reservation.Status) error
	UpdateNote(ctx context.Context, id int64, note reservation.Note) error
	Delete(ctx context.Context, id int64) error
}

type ReservationCommands interface {
	Reserve(ctx context.Context, params ReserveParams) (*queries.ReservationView, error)
	ChangeStatus(ctx context.Context, id int64, status reservation.Status) (*queries.ReservationView, error)
	UpdateNote(ctx context.Context, id int64, note string) (*queries.ReservationView, error)
	Delete(ctx context.Context, id int64) error
}

type reservationCommandsImpl struct {
	repo  ReservationRepository
	reads queries.ReservationReadStore
	pool  *pgxpool.Pool
}

func NewReservationCommands(
	repo ReservationRepository,
	reads queries.ReservationReadStore,
	pool *pgxpool.Pool,
) ReservationCommands {
	return &reservationCommandsImpl{
		repo:  repo,
		reads: reads,
		pool:  pool,
	}
}

// Reserve validates the candidate's shape, then issues one atomic
// insert; overlap detection happens inside that statement, never as a
// separate read beforehand.
func (c *reservationCommandsImpl) Reserve(ctx context.Context, params ReserveParams) (*queries.ReservationView, error) {
	span, err := reservation.NewTimeSpan(params.StartTime, params.EndTime)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidTimeSpan)
	}

	var status reservation.Status
	if params.Status != "" {
		status, err = reservation.ParseStatus(params.Status)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrDomainValidation)
		}
	}

	note := reservation.NewNote("")
	if params.Note != nil {
		note = reservation.NewNote(*params.Note)
	}

	entity, err := reservation.NewReservation(params.UserID, params.ResourceID, span, status, note)
	if err != nil {
		if errors.Is(err, reservation.ErrInvalidTimeSpan) {
			return nil, errs.Mark(err, errs.ErrInvalidTimeSpan)
		}
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	id, err := c.repo.Create(ctx, c.pool, entity)
	if err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return nil, errs.Mark(err, errs.ErrReservationConflict)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	return c.findView(ctx, id)
}

const changeStatusMaxRetries = 3

// ChangeStatus locks the row, validates the transition against the
// state machine, and applies it, all in one transaction.
func (c *reservationCommandsImpl) ChangeStatus(ctx context.Context, id int64, status reservation.Status) (*queries.ReservationView, error) {
	_, err := shared.RunInTxWithRetry(ctx, c.pool, changeStatusMaxRetries, func(tx db.DBTX) (struct{}, error) {
		entity, txErr := c.repo.FindForUpdate(ctx, tx, id)
		if txErr != nil {
			return struct{}{}, txErr
		}

		if txErr = entity.TransitionTo(status); txErr != nil {
			return struct{}{}, txErr
		}

		return struct{}{}, c.repo.UpdateStatus(ctx, tx, id, status)
	})
	if err != nil {
		switch {
		case infra.IsKind(err, infra.KindNotFound):
			return nil, errs.Mark(err, errs.ErrReservationNotFound)
		case errors.Is(err, reservation.ErrInvalidTransition), errors.Is(err, reservation.ErrInvalidStatus):
			return nil, errs.Mark(err, errs.ErrInvalidTransition)
		case infra.IsKind(err, infra.KindConflict):
			return nil, errs.Mark(err, errs.ErrReservationConflict)
		default:
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
	}

	return c.findView(ctx, id)
}

func (c *reservationCommandsImpl) UpdateNote(ctx context.Context, id int64, note string) (*queries.ReservationView, error) {
	if err := c.repo.UpdateNote(ctx, id, reservation.NewNote(note)); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrReservationNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	return c.findView(ctx, id)
}

func (c *reservationCommandsImpl) Delete(ctx context.Context, id int64) error {
	if err := c.repo.Delete(ctx, id); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, errs.ErrReservationNotFound)
		}
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}

// Read-after-write: mutations return the persisted view from the read
// store rather than echoing caller input.
func (c *reservationCommandsImpl) findView(ctx context.Context, id int64) (*queries.ReservationView, error) {
	view, err := c.reads.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrReservationNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return view, nil
}

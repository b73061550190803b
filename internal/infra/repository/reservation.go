package repository

import (
	"context"
	"errors"

	"rsvp-service/internal/domain/reservation"
	"rsvp-service/internal/infra"
	"rsvp-service/internal/infra/db"
	"rsvp-service/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	pgErrCodeUniqueViolation    = "23505"
	pgErrCodeExclusionViolation = "23P01"
)

// ReservationRepository is the write side of the store. The timespan
// overlap invariant is not checked here in Go code: the insert relies on
// the reservations_no_overlap exclusion constraint so the check and the
// write are a single atomic statement under concurrent writers.
type ReservationRepository struct {
	db db.DBTX
}

func NewReservationRepository(pool db.DBTX) *ReservationRepository {
	return &ReservationRepository{db: pool}
}

const createReservationSQL = `
INSERT INTO reservations (user_id, resource_id, timespan, note, status)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`

// Create persists the reservation and returns the store-assigned id.
// An overlapping active reservation on the same resource surfaces as
// KindConflict; any other failure as KindDBFailure.
func (r *ReservationRepository) Create(ctx context.Context, tx db.DBTX, res *reservation.Reservation) (int64, error) {
	span := res.TimeSpan()

	var id int64
	err := tx.QueryRow(ctx, createReservationSQL,
		res.UserID(),
		res.ResourceID(),
		pgconv.TstzrangeFromTimes(span.Start(), span.End()),
		noteToPgtype(res.Note()),
		res.Status().String(),
	).Scan(&id)
	if err != nil {
		if isExclusionViolation(err) {
			return 0, infra.WrapRepoErr("reservation overlaps an active reservation", err, infra.KindConflict)
		}
		if isUniqueViolation(err) {
			return 0, infra.WrapRepoErr("duplicate reservation", err, infra.KindDuplicateKey)
		}
		return 0, infra.WrapRepoErr("failed to create reservation", err)
	}

	return id, nil
}

const findReservationForUpdateSQL = `
SELECT id, user_id, resource_id, timespan, note, status, created_at, updated_at
FROM reservations
WHERE id = $1
FOR UPDATE`

// FindForUpdate locks the row for the duration of the enclosing
// transaction so a status check and the following update act as a unit.
func (r *ReservationRepository) FindForUpdate(ctx context.Context, tx db.DBTX, id int64) (*reservation.Reservation, error) {
	row := tx.QueryRow(ctx, findReservationForUpdateSQL, id)

	res, err := scanReservation(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock reservation", err)
	}

	return res, nil
}

const updateStatusSQL = `
UPDATE reservations
SET status = $2, updated_at = now()
WHERE id = $1`

func (r *ReservationRepository) UpdateStatus(ctx context.Context, tx db.DBTX, id int64, status reservation.Status) error {
	tag, err := tx.Exec(ctx, updateStatusSQL, id, status.String())
	if err != nil {
		if isExclusionViolation(err) {
			return infra.WrapRepoErr("status change collides with an active reservation", err, infra.KindConflict)
		}
		return infra.WrapRepoErr("failed to update reservation status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return nil
}

const updateNoteSQL = `
UPDATE reservations
SET note = $2, updated_at = now()
WHERE id = $1`

func (r *ReservationRepository) UpdateNote(ctx context.Context, id int64, note reservation.Note) error {
	tag, err := r.db.Exec(ctx, updateNoteSQL, id, noteToPgtype(note))
	if err != nil {
		return infra.WrapRepoErr("failed to update reservation note", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return nil
}

const deleteReservationSQL = `
DELETE FROM reservations
WHERE id = $1`

// Delete is unconditional: no status precondition applies.
func (r *ReservationRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, deleteReservationSQL, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete reservation", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(row rowScanner) (*reservation.Reservation, error) {
	var (
		id                   int64
		userID, resourceID   string
		timespan             pgtype.Range[pgtype.Timestamptz]
		note                 pgtype.Text
		status               string
		createdAt, updatedAt pgtype.Timestamptz
	)

	if err := row.Scan(&id, &userID, &resourceID, &timespan, &note, &status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	start, end, err := pgconv.TimesFromTstzrange(timespan)
	if err != nil {
		return nil, err
	}

	span, err := reservation.NewTimeSpan(start, end)
	if err != nil {
		return nil, err
	}

	return reservation.ReconstructReservation(
		id,
		userID,
		resourceID,
		span,
		reservation.Status(status),
		reservation.NewNote(note.String),
		pgconv.TimeFromPgtype(createdAt),
		pgconv.TimeFromPgtype(updatedAt),
	), nil
}

func noteToPgtype(n reservation.Note) pgtype.Text {
	if n.IsEmpty() {
		return pgtype.Text{Valid: false}
	}
	return pgconv.StringToPgtype(n.String())
}

func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgErrCodeExclusionViolation
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgErrCodeUniqueViolation
}

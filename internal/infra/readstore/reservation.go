package readstore

import (
	"context"
	"fmt"
	"strings"

	"rsvp-service/internal/infra"
	"rsvp-service/internal/infra/db"
	"rsvp-service/internal/pkg/pgconv"
	"rsvp-service/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgtype"
)

type ReservationReadStore struct {
	db db.DBTX
}

func NewReservationReadStore(pool db.DBTX) *ReservationReadStore {
	return &ReservationReadStore{db: pool}
}

const reservationViewColumns = `id, user_id, resource_id, timespan, note, status, created_at, updated_at`

func (r *ReservationReadStore) FindByID(ctx context.Context, id int64) (*queries.ReservationView, error) {
	sql := fmt.Sprintf(`SELECT %s FROM reservations WHERE id = $1`, reservationViewColumns)

	row := r.db.QueryRow(ctx, sql, id)
	view, err := scanReservationView(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation by ID", err)
	}

	return view, nil
}

// Search applies the AND of all provided filters and orders by
// (lower(timespan), id) ascending for a deterministic sequence. The
// window condition uses the && range operator so the GiST index over
// (resource_id, timespan) serves resource+window queries.
func (r *ReservationReadStore) Search(ctx context.Context, filter queries.SearchFilter) ([]*queries.ReservationView, error) {
	sql := fmt.Sprintf(`SELECT %s FROM reservations`, reservationViewColumns)

	var (
		conds []string
		args  []any
	)
	if filter.ResourceID != nil {
		args = append(args, *filter.ResourceID)
		conds = append(conds, fmt.Sprintf("resource_id = $%d", len(args)))
	}
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		conds = append(conds, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, filter.Status.String())
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Window != nil {
		args = append(args, pgconv.TstzrangeFromTimes(filter.Window.From, filter.Window.To))
		conds = append(conds, fmt.Sprintf("timespan && $%d", len(args)))
	}
	if len(conds) > 0 {
		sql += " WHERE " + strings.Join(conds, " AND ")
	}
	sql += " ORDER BY lower(timespan) ASC, id ASC"

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to search reservations", err)
	}
	defer rows.Close()

	result := make([]*queries.ReservationView, 0)
	for rows.Next() {
		view, scanErr := scanReservationView(rows)
		if scanErr != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation row", scanErr)
		}
		result = append(result, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate reservation rows", err)
	}

	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservationView(row rowScanner) (*queries.ReservationView, error) {
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

	return &queries.ReservationView{
		ID:         id,
		UserID:     userID,
		ResourceID: resourceID,
		StartTime:  start,
		EndTime:    end,
		Status:     status,
		Note:       pgconv.StringPtrFromPgtype(note),
		CreatedAt:  pgconv.TimeFromPgtype(createdAt),
		UpdatedAt:  pgconv.TimeFromPgtype(updatedAt),
	}, nil
}

package pgconv

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

var ErrInvalidRangeValue = errors.New("invalid range value in pgtype.Range")

func StringPtrFromPgtype(pt pgtype.Text) *string {
	if !pt.Valid {
		return nil
	}
	return &pt.String
}

func StringPtrToPgtype(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func StringToPgtype(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: true}
}

func TimeFromPgtype(pt pgtype.Timestamptz) time.Time {
	return pt.Time
}

func TimeToPgtype(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

// TstzrangeFromTimes builds a half-open [start,end) tstzrange value.
func TstzrangeFromTimes(start, end time.Time) pgtype.Range[pgtype.Timestamptz] {
	return pgtype.Range[pgtype.Timestamptz]{
		Lower:     TimeToPgtype(start),
		Upper:     TimeToPgtype(end),
		LowerType: pgtype.Inclusive,
		UpperType: pgtype.Exclusive,
		Valid:     true,
	}
}

// TimesFromTstzrange extracts both endpoints; unbounded or empty ranges
// never occur for reservation timespans, so they are reported as errors.
func TimesFromTstzrange(r pgtype.Range[pgtype.Timestamptz]) (start, end time.Time, err error) {
	if !r.Valid || !r.Lower.Valid || !r.Upper.Valid {
		return time.Time{}, time.Time{}, ErrInvalidRangeValue
	}
	return r.Lower.Time, r.Upper.Time, nil
}

// IsNoRows checks if the error is a "no rows" error from either sql or pgx
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows)
}

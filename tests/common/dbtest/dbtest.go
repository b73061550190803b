//go:build e2e

package dbtest

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ResetDB truncates all reservation data between subtests so each one
// starts from an empty store with fresh ids.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := pool.Exec(ctx, "TRUNCATE TABLE reservations RESTART IDENTITY")
	return err
}

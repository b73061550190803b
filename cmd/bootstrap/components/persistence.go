package components

import (
	"rsvp-service/internal/infra/db"
	"rsvp-service/internal/infra/readstore"
	"rsvp-service/internal/infra/repository"
	"rsvp-service/internal/usecase/commands"
	"rsvp-service/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewDBTX,
		fx.Annotate(
			repository.NewReservationRepository,
			fx.As(new(commands.ReservationRepository)),
		),
		fx.Annotate(
			readstore.NewReservationReadStore,
			fx.As(new(queries.ReservationReadStore)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}

package components

import (
	"rsvp-service/internal/usecase/commands"
	"rsvp-service/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		commands.NewReservationCommands,
		queries.NewReservationQueries,
	),
)

package bootstrap

import (
	"rsvp-service/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DBModule,
	components.PersistenceModule,
	components.UseCaseModule,
	components.HandlerModule,
)

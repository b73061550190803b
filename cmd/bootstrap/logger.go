package bootstrap

import (
	"log/slog"

	"rsvp-service/internal/handler/middleware"
	"rsvp-service/internal/pkg/config"

	"go.uber.org/fx"
)

var LoggerModule = fx.Module("logger",
	fx.Provide(
		NewLogger,
	),
)

func NewLogger(cfg config.Config) *slog.Logger {
	return middleware.NewLogger(cfg.Log).GetSlogLogger()
}

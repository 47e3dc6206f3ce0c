package bootstrap

import (
	"context"
	"log/slog"

	"rental-booking/internal/infra/messaging"
	"rental-booking/internal/pkg/config"
	"rental-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

var MessagingModule = fx.Module("messaging",
	fx.Provide(
		NewEventPublisher,
	),
)

// NewEventPublisher publishes to RabbitMQ when BROKER_ENABLED is set and
// otherwise only logs events.
func NewEventPublisher(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) shared.EventPublisher {
	if !cfg.Broker.Enabled {
		return messaging.NewLogPublisher(logger)
	}

	publisher := messaging.NewAMQPPublisher(cfg.Broker, logger)
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return publisher.Close()
		},
	})
	return publisher
}

package bootstrap

import (
	"context"
	"log/slog"

	"rental-booking/internal/infra/db"
	"rental-booking/internal/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var DBModule = fx.Module("db",
	fx.Provide(
		NewDB,
	),
)

// NewDB returns a nil pool when the in-memory store is selected.
func NewDB(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	if cfg.Booking.Store != config.StorePostgres {
		logger.Info("postgres disabled", "store", cfg.Booking.Store)
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Booking.OperationTimeout)
	defer cancel()

	pool, cleanup, err := db.Connect(ctx, cfg.DB, logger)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if cleanup != nil {
				cleanup()
			}
			return nil
		},
	})

	return pool, nil
}

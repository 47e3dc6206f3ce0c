package components

import (
	"errors"
	"log/slog"

	"rental-booking/internal/infra/memstore"
	"rental-booking/internal/infra/pgsql"
	"rental-booking/internal/infra/readstore"
	"rental-booking/internal/infra/uow"
	"rental-booking/internal/pkg/config"
	"rental-booking/internal/usecase/queries"
	"rental-booking/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewSQLQueries,
		NewPersistence,
	),
)

type PersistenceParams struct {
	fx.In

	Config  config.Config
	Logger  *slog.Logger
	Queries *pgsql.Queries
	Pool    *pgxpool.Pool `optional:"true"`
}

type Persistence struct {
	fx.Out

	UnitOfWork shared.UnitOfWork
	ReadStore  queries.BookingReadStore
}

func NewSQLQueries() *pgsql.Queries {
	return pgsql.New()
}

// NewPersistence wires both sides of the store selected by BOOKING_STORE.
func NewPersistence(p PersistenceParams) (Persistence, error) {
	switch p.Config.Booking.Store {
	case config.StoreMemory:
		store := memstore.New()
		p.Logger.Warn("using in-memory booking store; data is lost on restart")
		return Persistence{UnitOfWork: store, ReadStore: store}, nil
	default:
		if p.Pool == nil {
			return Persistence{}, errors.New("postgres store selected but no connection pool is available")
		}
		return Persistence{
			UnitOfWork: uow.NewPostgresUoW(p.Pool, p.Queries, p.Logger),
			ReadStore:  readstore.NewBookingReadStore(p.Queries, p.Pool),
		}, nil
	}
}

package components

import (
	"rental-booking/internal/domain/availability"
	"rental-booking/internal/domain/booking"
	"rental-booking/internal/pkg/clock"
	"rental-booking/internal/pkg/config"
	"rental-booking/internal/usecase"
	"rental-booking/internal/usecase/commands"
	"rental-booking/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	fx.Annotate(
		booking.NewNightlyRateCalculator,
		fx.As(new(booking.PriceCalculator)),
	),
	func(clk clock.Clock, calc booking.PriceCalculator, cfg config.BookingConfig) *booking.Factory {
		return booking.NewFactory(clk, calc, cfg.AllowPastStart)
	},
	// One index per process, shared by every request.
	availability.NewIndex,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		fx.Annotate(
			commands.NewBookingCoordinator,
			fx.As(new(commands.BookingCommands)),
		),
		commands.NewPropertyCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewBookingQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

package bootstrap

import (
	"rental-booking/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(config.LoadConfig),
	ConfigSections,
)

// ConfigSections exposes the parts of Config that constructors take directly.
var ConfigSections = fx.Provide(
	func(cfg config.Config) config.BookingConfig { return cfg.Booking },
)

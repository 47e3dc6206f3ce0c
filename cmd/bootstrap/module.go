package bootstrap

import (
	"rental-booking/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DBModule,
	JWTModule,
	MessagingModule,
	components.PersistenceModule,
	components.UseCaseModule,
	components.HandlerModule,
)

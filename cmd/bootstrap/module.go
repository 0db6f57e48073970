package bootstrap

import (
	"stockflow/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	RedisModule,
	JWTModule,
	ClockModule,
	AuditModule,
	components.PersistenceModule,
	components.UseCaseModule,
	components.HandlerModule,
	SeedModule,
)

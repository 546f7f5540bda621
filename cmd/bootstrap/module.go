package bootstrap

import (
	"unified-checkout/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	components.RepositoryModule,
	components.UseCaseModule,
	components.GatewayModule,
	components.HandlerModule,
	components.WorkerModule,
)

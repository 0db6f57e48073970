package components

import (
	"stockflow/internal/infra/audit"
	"stockflow/internal/pkg/clock"
	"stockflow/internal/pkg/config"
	"stockflow/internal/usecase/commands"
	"stockflow/internal/usecase/queries"
	"stockflow/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseCommandsModule,
	usecaseQueriesModule,
	usecaseValidatorsModule,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewLoanCommands,
		commands.NewStockCommands,
		commands.NewSetupCommands,
		func(u shared.UnitOfWork, clk clock.Clock, cfg config.Config, sink audit.Sink) commands.ProductCommands {
			return commands.NewProductCommands(u, clk, cfg.Label.Secret, sink)
		},
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewUserQueries,
		queries.NewProductQueries,
		queries.NewLoanQueries,
		queries.NewStockQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		commands.NewTokenValidator,
	),
)

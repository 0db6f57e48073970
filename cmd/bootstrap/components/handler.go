package components

import (
	"stockflow/internal/handler"
	"stockflow/internal/handler/api"
	"stockflow/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewProductHandler,
		api.NewLabelHandler,
		api.NewLoanHandler,
		api.NewStockHandler,
		api.NewSetupHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)

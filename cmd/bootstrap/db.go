package bootstrap

import (
	"context"

	"stockflow/internal/infra/db"
	"stockflow/internal/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var DBModule = fx.Module("db",
	fx.Provide(NewDB),
)

func NewDB(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	pool, cleanup, err := db.Connect(context.Background(), cfg.DB)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.StopHook(func() {
		if cleanup != nil {
			cleanup()
		}
	}))

	return pool, nil
}

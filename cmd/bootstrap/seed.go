package bootstrap

import (
	"context"

	"stockflow/internal/pkg/config"
	"stockflow/internal/usecase/commands"

	"go.uber.org/fx"
)

var SeedModule = fx.Module("seed",
	fx.Invoke(SeedAdminUser),
)

// SeedAdminUser guarantees a usable login exists on a fresh database.
func SeedAdminUser(lc fx.Lifecycle, cfg config.Config, authCommands commands.AuthCommands) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return authCommands.EnsureAdminUser(ctx, cfg.Admin.Email, cfg.Admin.Password)
		},
	})
}

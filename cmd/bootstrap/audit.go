package bootstrap

import (
	"stockflow/internal/infra/audit"
	"stockflow/internal/pkg/clock"
	"stockflow/internal/pkg/config"

	"go.uber.org/fx"
)

var AuditModule = fx.Module("audit",
	fx.Provide(
		fx.Annotate(
			NewAuditSink,
			fx.As(new(audit.Sink)),
		),
	),
)

func NewAuditSink(cfg config.Config, clk clock.Clock) *audit.JSONLSink {
	return audit.NewJSONLSink(cfg.Audit.Dir, clk)
}

package bootstrap

import (
	"time"

	"stockflow/internal/pkg/clock"
	"stockflow/internal/pkg/config"

	"go.uber.org/fx"
)

var ClockModule = fx.Module("clock",
	fx.Provide(
		NewClock,
	),
)

func NewClock(cfg config.Config) (clock.Clock, error) {
	loc, err := time.LoadLocation(cfg.Server.TimeZone)
	if err != nil {
		return nil, err
	}
	return clock.NewRealClock(loc), nil
}

package gauge

import (
	"context"

	"curvance/core"

	"github.com/fox-one/pkg/logger"
)

type gaugePool struct{}

// New new gauge pool notifier. The hook only records position lifecycle
// signals; reward accounting lives outside this service.
func New() core.IGaugePool {
	return &gaugePool{}
}

func (p *gaugePool) PositionChanged(ctx context.Context, tokenAddress, account string, hasPosition bool) error {
	logger.FromContext(ctx).
		WithField("token", tokenAddress).
		WithField("account", account).
		WithField("has_position", hasPosition).
		Debugln("gauge position changed")

	return nil
}

package core

import "context"

// IGaugePool reward distribution collaborator. The market manager only feeds
// it has-position signals; epoch accounting lives elsewhere.
type IGaugePool interface {
	PositionChanged(ctx context.Context, tokenAddress, account string, hasPosition bool) error
}

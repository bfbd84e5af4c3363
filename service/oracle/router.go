package oracle

import (
	"context"
	"fmt"
	"time"

	"curvance/core"

	"github.com/bluele/gcache"
	"github.com/shopspring/decimal"
)

// Router multi-adaptor price router. A bad price is reported through the
// code field, never through an error or a panic.
type Router struct {
	adaptors   map[string][]core.IPriceAdaptor
	cache      gcache.Cache
	divergence decimal.Decimal
	cacheTTL   time.Duration
}

// NewRouter new oracle router
func NewRouter(cfg *core.Config) *Router {
	divergence := decimal.NewFromFloat(cfg.Oracle.DivergenceLimit)
	if !divergence.IsPositive() {
		divergence = decimal.NewFromFloat(0.02)
	}

	ttl := time.Duration(cfg.Oracle.CacheTTL) * time.Second
	if ttl <= 0 {
		ttl = 15 * time.Second
	}

	return &Router{
		adaptors:   make(map[string][]core.IPriceAdaptor),
		cache:      gcache.New(512).LRU().Build(),
		divergence: divergence,
		cacheTTL:   ttl,
	}
}

// AddAdaptor register an adaptor for an asset; at most two are consulted
func (r *Router) AddAdaptor(assetID string, adaptor core.IPriceAdaptor) {
	r.adaptors[assetID] = append(r.adaptors[assetID], adaptor)
}

// GetPrice routed price for an asset. preferLower picks the conservative
// side when two adaptors disagree.
func (r *Router) GetPrice(ctx context.Context, assetID string, inUSD, preferLower bool) core.PriceData {
	key := cacheKey(assetID, inUSD, preferLower)
	if v, err := r.cache.Get(key); err == nil {
		if data, ok := v.(core.PriceData); ok {
			return data
		}
	}

	data := r.route(ctx, assetID, inUSD, preferLower)
	if data.Code != core.PriceCodeBad {
		_ = r.cache.SetWithExpire(key, data, r.cacheTTL)
	}

	return data
}

func (r *Router) route(ctx context.Context, assetID string, inUSD, preferLower bool) core.PriceData {
	adaptors := r.adaptors[assetID]
	if len(adaptors) == 0 {
		return core.PriceData{Code: core.PriceCodeBad}
	}

	first := adaptors[0].Price(ctx, assetID, inUSD)
	if len(adaptors) == 1 {
		if !first.Usable() {
			return core.PriceData{Code: core.PriceCodeBad}
		}
		return first
	}

	second := adaptors[1].Price(ctx, assetID, inUSD)

	if !first.Usable() && !second.Usable() {
		return core.PriceData{Code: core.PriceCodeBad}
	}

	// one dead source leaves the survivor usable but degraded
	if !first.Usable() {
		second.Code = core.PriceCodeCaution
		return second
	}
	if !second.Usable() {
		first.Code = core.PriceCodeCaution
		return first
	}

	picked, other := first, second
	if second.Price.LessThan(first.Price) == preferLower {
		picked, other = second, first
	}

	if diverged(picked.Price, other.Price, r.divergence) {
		picked.Code = core.PriceCodeCaution
	}

	if other.Code > picked.Code {
		picked.Code = other.Code
	}

	return picked
}

func diverged(lower, upper, limit decimal.Decimal) bool {
	if !lower.IsPositive() {
		return true
	}

	if upper.LessThan(lower) {
		lower, upper = upper, lower
	}

	return upper.Sub(lower).Div(lower).GreaterThan(limit)
}

func cacheKey(assetID string, inUSD, preferLower bool) string {
	return fmt.Sprintf("price:%s:%t:%t", assetID, inUSD, preferLower)
}

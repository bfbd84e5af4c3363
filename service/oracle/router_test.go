package oracle

import (
	"context"
	"testing"

	"curvance/core"
	"curvance/pkg/number"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type fakeAdaptor struct {
	name string
	data core.PriceData
}

func (a *fakeAdaptor) Name() string {
	return a.name
}

func (a *fakeAdaptor) Price(ctx context.Context, assetID string, inUSD bool) core.PriceData {
	return a.data
}

func ok(price string) core.PriceData {
	return core.PriceData{Price: number.Decimal(price), Code: core.PriceCodeOK}
}

func bad() core.PriceData {
	return core.PriceData{Code: core.PriceCodeBad}
}

func newTestRouter() *Router {
	return NewRouter(&core.Config{
		Oracle: core.Oracle{
			DivergenceLimit: 0.02,
			CacheTTL:        1,
		},
	})
}

func TestRouterNoAdaptor(t *testing.T) {
	r := newTestRouter()

	data := r.GetPrice(context.Background(), "btc", true, true)
	assert.Equal(t, core.PriceCodeBad, data.Code)
	assert.False(t, data.Usable())
}

func TestRouterSingleAdaptor(t *testing.T) {
	r := newTestRouter()
	r.AddAdaptor("btc", &fakeAdaptor{name: "a", data: ok("50000")})

	data := r.GetPrice(context.Background(), "btc", true, true)
	assert.Equal(t, core.PriceCodeOK, data.Code)
	assert.Equal(t, "50000", data.Price.String())

	r.AddAdaptor("eth", &fakeAdaptor{name: "a", data: bad()})
	data = r.GetPrice(context.Background(), "eth", true, true)
	assert.Equal(t, core.PriceCodeBad, data.Code)
}

func TestRouterOneDeadSource(t *testing.T) {
	r := newTestRouter()
	r.AddAdaptor("btc", &fakeAdaptor{name: "a", data: bad()})
	r.AddAdaptor("btc", &fakeAdaptor{name: "b", data: ok("50000")})

	// the survivor answers, degraded
	data := r.GetPrice(context.Background(), "btc", true, true)
	assert.Equal(t, core.PriceCodeCaution, data.Code)
	assert.Equal(t, "50000", data.Price.String())
	assert.True(t, data.Usable())
}

func TestRouterPreferLower(t *testing.T) {
	r := newTestRouter()
	r.AddAdaptor("btc", &fakeAdaptor{name: "a", data: ok("50000")})
	r.AddAdaptor("btc", &fakeAdaptor{name: "b", data: ok("50005")})

	lower := r.GetPrice(context.Background(), "btc", true, true)
	assert.Equal(t, "50000", lower.Price.String())
	assert.Equal(t, core.PriceCodeOK, lower.Code)

	upper := r.GetPrice(context.Background(), "btc", true, false)
	assert.Equal(t, "50005", upper.Price.String())
	assert.Equal(t, core.PriceCodeOK, upper.Code)
}

func TestRouterDivergence(t *testing.T) {
	r := newTestRouter()
	r.AddAdaptor("btc", &fakeAdaptor{name: "a", data: ok("50000")})
	r.AddAdaptor("btc", &fakeAdaptor{name: "b", data: ok("55000")})

	data := r.GetPrice(context.Background(), "btc", true, true)
	assert.Equal(t, core.PriceCodeCaution, data.Code)
	assert.Equal(t, "50000", data.Price.String())
}

func TestRouterBadAnswerNotCached(t *testing.T) {
	r := newTestRouter()
	source := &fakeAdaptor{name: "a", data: bad()}
	r.AddAdaptor("btc", source)

	data := r.GetPrice(context.Background(), "btc", true, true)
	assert.Equal(t, core.PriceCodeBad, data.Code)

	// a recovered source answers immediately
	source.data = ok("50000")
	data = r.GetPrice(context.Background(), "btc", true, true)
	assert.Equal(t, core.PriceCodeOK, data.Code)
}

func TestDiverged(t *testing.T) {
	limit := number.Decimal("0.02")

	assert.False(t, diverged(number.Decimal("100"), number.Decimal("101"), limit))
	assert.False(t, diverged(number.Decimal("100"), number.Decimal("102"), limit))
	assert.True(t, diverged(number.Decimal("100"), number.Decimal("103"), limit))

	// order must not matter
	assert.True(t, diverged(number.Decimal("103"), number.Decimal("100"), limit))

	assert.True(t, diverged(decimal.Zero, number.Decimal("100"), limit))
}

package oracle

import (
	"context"
	"sync/atomic"
	"time"

	"curvance/core"
)

// StoredAdaptor serves prices persisted by the price-sync worker. While a
// refresh is in flight the adaptor reports caution so the risk engine never
// trusts a price mid-update.
type StoredAdaptor struct {
	priceStore core.IPriceStore
	maxAge     time.Duration
	refreshing int32
}

// NewStoredAdaptor new stored price adaptor
func NewStoredAdaptor(priceStore core.IPriceStore, maxAge time.Duration) *StoredAdaptor {
	if maxAge <= 0 {
		maxAge = 5 * time.Minute
	}

	return &StoredAdaptor{
		priceStore: priceStore,
		maxAge:     maxAge,
	}
}

// Name adaptor name
func (a *StoredAdaptor) Name() string {
	return "stored"
}

// BeginRefresh mark a refresh in flight
func (a *StoredAdaptor) BeginRefresh() {
	atomic.StoreInt32(&a.refreshing, 1)
}

// EndRefresh clear the refresh flag
func (a *StoredAdaptor) EndRefresh() {
	atomic.StoreInt32(&a.refreshing, 0)
}

// Price stored price of an asset
func (a *StoredAdaptor) Price(ctx context.Context, assetID string, inUSD bool) core.PriceData {
	price, err := a.priceStore.Find(ctx, assetID)
	if err != nil || price.ID == 0 || !price.Price.IsPositive() {
		return core.PriceData{Code: core.PriceCodeBad}
	}

	data := core.PriceData{
		Price:     price.Price,
		Code:      core.PriceCodeOK,
		UpdatedAt: price.Time,
	}

	if atomic.LoadInt32(&a.refreshing) == 1 {
		data.Code = core.PriceCodeCaution
	}

	if time.Since(price.Time) > a.maxAge {
		data.Code = core.PriceCodeCaution
	}

	return data
}

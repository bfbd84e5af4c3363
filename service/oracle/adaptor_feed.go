package oracle

import (
	"context"
	"fmt"
	"time"

	"curvance/core"
	"curvance/pkg/resthttp"

	"github.com/fox-one/pkg/logger"
)

// FeedAdaptor pulls tickers from a remote price feed endpoint
type FeedAdaptor struct {
	endpoint string
}

// NewFeedAdaptor new feed adaptor
func NewFeedAdaptor(cfg *core.Config) *FeedAdaptor {
	return &FeedAdaptor{
		endpoint: cfg.Oracle.EndPoint,
	}
}

// Name adaptor name
func (a *FeedAdaptor) Name() string {
	return "feed"
}

// Price current ticker price of an asset
func (a *FeedAdaptor) Price(ctx context.Context, assetID string, inUSD bool) core.PriceData {
	ticker, err := a.PullPriceTicker(ctx, assetID, time.Now())
	if err != nil {
		logger.FromContext(ctx).WithError(err).Debugln("feed adaptor pull failed")
		return core.PriceData{Code: core.PriceCodeBad}
	}

	if !ticker.Price.IsPositive() {
		return core.PriceData{Code: core.PriceCodeBad}
	}

	return core.PriceData{
		Price:     ticker.Price,
		Code:      core.PriceCodeOK,
		UpdatedAt: time.Now(),
	}
}

// PullPriceTicker pull price ticker
func (a *FeedAdaptor) PullPriceTicker(ctx context.Context, assetID string, t time.Time) (*core.PriceTicker, error) {
	url := fmt.Sprintf("%s/api/v2/tickers/%s?ts=%d", a.endpoint, assetID, t.UTC().Unix())
	resp, err := resthttp.Request(ctx).Get(url)
	if err != nil {
		return nil, err
	}

	var ticker core.PriceTicker
	if err := resthttp.ParseResponse(resp, &ticker); err != nil {
		return nil, err
	}

	return &ticker, nil
}

// PullAllPriceTickers pull all price tickers
func (a *FeedAdaptor) PullAllPriceTickers(ctx context.Context, t time.Time) ([]*core.PriceTicker, error) {
	url := fmt.Sprintf("%s/api/tickers?ts=%d", a.endpoint, t.UTC().Unix())
	resp, err := resthttp.Request(ctx).Get(url)
	if err != nil {
		return nil, err
	}

	var tickers []*core.PriceTicker
	if err := resthttp.ParseResponse(resp, &tickers); err != nil {
		return nil, err
	}

	return tickers, nil
}

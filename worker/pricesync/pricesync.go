package pricesync

import (
	"context"
	"time"

	"curvance/core"
	"curvance/service/oracle"
	"curvance/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/robfig/cron/v3"
)

const pruneAge = 24 * time.Hour

// Worker pulls remote feed tickers into the stored price table. The stored
// adaptor is flagged as refreshing for the duration of a pull so readers see
// the mid-update window as degraded rather than trustworthy.
type Worker struct {
	worker.BaseJob
	config     *core.Config
	tokenStore core.IMarketTokenStore
	priceStore core.IPriceStore
	feed       *oracle.FeedAdaptor
	stored     *oracle.StoredAdaptor
}

// New new price sync worker
func New(
	cfg *core.Config,
	tokenStore core.IMarketTokenStore,
	priceStore core.IPriceStore,
	feed *oracle.FeedAdaptor,
	stored *oracle.StoredAdaptor,
) *Worker {
	job := Worker{
		config:     cfg,
		tokenStore: tokenStore,
		priceStore: priceStore,
		feed:       feed,
		stored:     stored,
	}

	l, _ := time.LoadLocation(cfg.App.Location)
	job.Cron = cron.New(cron.WithLocation(l))
	job.Cron.AddFunc("@every 5s", job.Run)
	job.OnWork = func() error {
		return job.onWork(context.Background())
	}

	return &job
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "pricesync")

	tokens, err := w.tokenStore.All(ctx)
	if err != nil {
		log.WithError(err).Errorln("fetch all market tokens")
		return err
	}

	underlyings := make(map[string]bool, len(tokens))
	for _, token := range tokens {
		if token.Listed {
			underlyings[token.Underlying] = true
		}
	}

	if len(underlyings) == 0 {
		return nil
	}

	tickers, err := w.feed.PullAllPriceTickers(ctx, time.Now())
	if err != nil {
		log.WithError(err).Errorln("pull price tickers")
		return err
	}

	w.stored.BeginRefresh()
	defer w.stored.EndRefresh()

	for _, ticker := range tickers {
		if !underlyings[ticker.AssetID] {
			continue
		}

		if !ticker.Price.IsPositive() {
			log.WithField("asset", ticker.AssetID).Errorln("invalid ticker price:", ticker.Price)
			continue
		}

		price := &core.Price{
			AssetID: ticker.AssetID,
			Price:   ticker.Price,
			Time:    time.Now(),
		}

		if err := w.priceStore.Save(ctx, price); err != nil {
			log.WithError(err).WithField("asset", ticker.AssetID).Errorln("save price")
		}
	}

	if err := w.priceStore.DeleteBefore(ctx, time.Now().Add(-pruneAge)); err != nil {
		log.WithError(err).Errorln("prune stale prices")
	}

	return nil
}

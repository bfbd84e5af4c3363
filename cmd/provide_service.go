package cmd

import (
	"context"
	"time"

	"curvance/core"
	accountservice "curvance/service/account"
	"curvance/service/gauge"
	"curvance/service/liquidate"
	managerservice "curvance/service/manager"
	"curvance/service/oracle"
	tokenservice "curvance/service/token"

	"github.com/fox-one/pkg/store/db"
)

func provideConfig() *core.Config {
	return &cfg
}

func provideSystem() *core.System {
	return &core.System{
		Admins:    cfg.Admins,
		ManagerID: cfg.App.ManagerID,
		Location:  cfg.App.Location,
		Version:   rootCmd.Version,
	}
}

func provideMarketTokenService() core.IMarketTokenService {
	return tokenservice.New()
}

func provideStoredAdaptor(database *db.DB) *oracle.StoredAdaptor {
	maxAge := time.Duration(cfg.Oracle.MaxPriceAge) * time.Second
	return oracle.NewStoredAdaptor(providePriceStore(database), maxAge)
}

func provideFeedAdaptor() *oracle.FeedAdaptor {
	return oracle.NewFeedAdaptor(provideConfig())
}

// provideOracleRouter registers the stored and remote feed adaptors for every
// listed underlying asset
func provideOracleRouter(database *db.DB) core.IOracleRouter {
	router := oracle.NewRouter(provideConfig())

	stored := provideStoredAdaptor(database)
	feed := provideFeedAdaptor()

	tokens, err := provideMarketTokenStore(database).All(context.Background())
	if err != nil {
		panic(err)
	}

	seen := make(map[string]bool)
	for _, token := range tokens {
		if !token.Listed || seen[token.Underlying] {
			continue
		}
		seen[token.Underlying] = true

		router.AddAdaptor(token.Underlying, stored)
		router.AddAdaptor(token.Underlying, feed)
	}

	return router
}

func provideAccountService(database *db.DB, oracleRouter core.IOracleRouter) core.IAccountService {
	return accountservice.New(
		provideMarketTokenStore(database),
		providePositionStore(database),
		provideAccountStore(database),
		provideMarketTokenService(),
		oracleRouter,
	)
}

func provideGaugePool() core.IGaugePool {
	return gauge.New()
}

func provideMarketManager(database *db.DB, oracleRouter core.IOracleRouter) core.IMarketManager {
	return managerservice.New(
		provideSystem(),
		database,
		providePropertyStore(database),
		provideMarketTokenStore(database),
		providePositionStore(database),
		provideAccountStore(database),
		provideEventStore(database),
		provideMarketTokenService(),
		provideAccountService(database, oracleRouter),
		oracleRouter,
		provideGaugePool(),
	)
}

func provideLiquidationService(database *db.DB, oracleRouter core.IOracleRouter) core.ILiquidationService {
	return liquidate.New(
		provideSystem(),
		database,
		provideMarketManager(database, oracleRouter),
		provideMarketTokenStore(database),
		providePositionStore(database),
		provideEventStore(database),
		provideMarketTokenService(),
		provideGaugePool(),
	)
}

package cmd

import (
	"curvance/core"
	"curvance/store/account"
	"curvance/store/event"
	"curvance/store/position"
	"curvance/store/price"
	"curvance/store/token"

	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	propertystore "github.com/fox-one/pkg/store/property"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func providePropertyStore(db *db.DB) property.Store {
	return propertystore.New(db)
}

func provideMarketTokenStore(db *db.DB) core.IMarketTokenStore {
	return token.New(db)
}

func providePositionStore(db *db.DB) core.IPositionStore {
	return position.New(db)
}

func provideAccountStore(db *db.DB) core.IAccountStore {
	return account.New(db)
}

func providePriceStore(db *db.DB) core.IPriceStore {
	return price.New(db)
}

func provideEventStore(db *db.DB) core.IEventStore {
	return event.New(db)
}

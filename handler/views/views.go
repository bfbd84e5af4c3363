package views

import (
	"curvance/core"

	"github.com/shopspring/decimal"
)

// Market market token view with derived figures
type Market struct {
	core.MarketToken
	CurExchangeRate decimal.Decimal `json:"cur_exchange_rate"`
	PostedTotal     decimal.Decimal `json:"posted_total"`
}

// Account account view
type Account struct {
	Address   string                  `json:"address"`
	Status    *core.AccountStatus     `json:"status"`
	Snapshot  *core.LiquidationStatus `json:"snapshot"`
	Liquidity decimal.Decimal         `json:"liquidity"`
	Positions []*core.Position        `json:"positions"`
}

package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PriceCode error severity attached to every price read
type PriceCode int

const (
	// PriceCodeOK trustworthy price
	PriceCodeOK PriceCode = 0
	// PriceCodeCaution degraded or stale but usable price
	PriceCodeCaution PriceCode = 1
	// PriceCodeBad unusable price
	PriceCodeBad PriceCode = 2
)

// PriceData tagged oracle answer; a bad price is reported, never raised
type PriceData struct {
	Price     decimal.Decimal `json:"price"`
	Code      PriceCode       `json:"code"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Usable the price may back a risk decision
func (d PriceData) Usable() bool {
	return d.Code != PriceCodeBad && d.Price.IsPositive()
}

// IPriceAdaptor a single price source, treated as a black box
type IPriceAdaptor interface {
	Name() string
	Price(ctx context.Context, assetID string, inUSD bool) PriceData
}

// IOracleRouter aggregates price adaptors per asset
type IOracleRouter interface {
	// GetPrice never returns an error for bad data; the code carries severity.
	// preferLower picks the conservative side when adaptors disagree.
	GetPrice(ctx context.Context, assetID string, inUSD, preferLower bool) PriceData
}

// Price persisted oracle price
type Price struct {
	ID        uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	AssetID   string          `sql:"size:64;unique_index:price_asset_idx" json:"asset_id"`
	Price     decimal.Decimal `sql:"type:decimal(32,18)" json:"price"`
	Time      time.Time       `json:"time"`
	Version   int64           `sql:"default:0" json:"version"`
	CreatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// PriceTicker remote feed answer
type PriceTicker struct {
	AssetID string          `json:"asset_id"`
	Symbol  string          `json:"symbol"`
	Price   decimal.Decimal `json:"price"`
}

// IPriceStore price store interface
type IPriceStore interface {
	Save(ctx context.Context, price *Price) error
	Find(ctx context.Context, assetID string) (*Price, error)
	DeleteBefore(ctx context.Context, t time.Time) error
}

package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Position per account/token balance record. Collateral tokens track share
// balance and the posted-as-collateral part of it; debt tokens track the
// borrow principal with its interest index.
type Position struct {
	ID           uint64 `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Account      string `sql:"size:64;unique_index:position_idx" json:"account"`
	TokenAddress string `sql:"size:64;unique_index:position_idx" json:"token_address"`
	// share balance held; a holder may keep shares without posting them
	Shares decimal.Decimal `sql:"type:decimal(32,18)" json:"shares"`
	// shares posted as usable collateral, never above Shares
	CollateralPosted decimal.Decimal `sql:"type:decimal(32,18)" json:"collateral_posted"`
	// debt principal (debt tokens)
	Principal     decimal.Decimal `sql:"type:decimal(32,18)" json:"principal"`
	InterestIndex decimal.Decimal `sql:"type:decimal(32,18);default:1" json:"interest_index"`
	Version       int64           `sql:"default:0" json:"version"`
	CreatedAt     time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IPositionStore position store interface
type IPositionStore interface {
	Save(ctx context.Context, tx *db.DB, position *Position) error
	Find(ctx context.Context, account, tokenAddress string) (*Position, error)
	FindByAccount(ctx context.Context, account string) ([]*Position, error)
	FindByToken(ctx context.Context, tokenAddress string) ([]*Position, error)
	// Accounts all accounts with nonzero debt principal
	Accounts(ctx context.Context) ([]string, error)
	SumCollateral(ctx context.Context, tokenAddress string) (decimal.Decimal, error)
	Update(ctx context.Context, tx *db.DB, position *Position, version int64) error
}

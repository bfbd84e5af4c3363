package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Account borrowing account
type Account struct {
	ID      uint64 `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Address string `sql:"size:64;unique_index:account_address_idx" json:"address"`
	// last recorded borrow, enforces the minimum hold period
	CooldownTimestamp time.Time `json:"cooldown_timestamp"`
	Version           int64     `sql:"default:0" json:"version"`
	CreatedAt         time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Membership a market the account has an active position in. Insertion order
// is preserved through the auto-increment id so reads stay deterministic.
type Membership struct {
	ID           uint64    `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Account      string    `sql:"size:64;unique_index:membership_idx" json:"account"`
	TokenAddress string    `sql:"size:64;unique_index:membership_idx" json:"token_address"`
	CreatedAt    time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// IAccountStore account store interface
type IAccountStore interface {
	FindOrCreate(ctx context.Context, address string) (*Account, error)
	Find(ctx context.Context, address string) (*Account, error)
	Update(ctx context.Context, tx *db.DB, account *Account, version int64) error
	EnterMarket(ctx context.Context, address, tokenAddress string) error
	ExitMarket(ctx context.Context, address, tokenAddress string) error
	AssetsEntered(ctx context.Context, address string) ([]string, error)
	IsEntered(ctx context.Context, address, tokenAddress string) (bool, error)
}

// AccountStatus risk-adjusted aggregate of an account: collateral value scaled
// by each token's collateralization ratio against raw debt value.
type AccountStatus struct {
	Collateral decimal.Decimal `json:"collateral"`
	Debt       decimal.Decimal `json:"debt"`
	// a price source answered with a caution code
	Degraded bool `json:"degraded"`
}

// Liquidity spare borrowing power
func (s *AccountStatus) Liquidity() decimal.Decimal {
	return s.Collateral.Sub(s.Debt)
}

// LiquidationStatus aggregate of an account measured against the
// collateral-requirement premiums instead of the collateralization ratio.
type LiquidationStatus struct {
	// unadjusted collateral value of posted collateral
	Collateral decimal.Decimal `json:"collateral"`
	Debt       decimal.Decimal `json:"debt"`
	// debt scaled by the soft and hard requirement premiums
	SoftRequirement decimal.Decimal `json:"soft_requirement"`
	HardRequirement decimal.Decimal `json:"hard_requirement"`
	Degraded        bool            `json:"degraded"`
}

// Liquidatable debt must strictly exceed the requirement-scaled collateral
func (s *LiquidationStatus) Liquidatable() bool {
	return s.Collateral.LessThan(s.SoftRequirement)
}

// IAccountService account aggregation interface
type IAccountService interface {
	AccountStatus(ctx context.Context, address string) (*AccountStatus, error)
	LiquidationStatus(ctx context.Context, address string) (*LiquidationStatus, error)
	// HypotheticalLiquidity liquidity after removing redeemTokens shares of
	// modifyToken and adding borrowAmount of its underlying debt
	HypotheticalLiquidity(ctx context.Context, address, modifyToken string, redeemTokens, borrowAmount decimal.Decimal) (decimal.Decimal, error)
	HasDebt(ctx context.Context, address, tokenAddress string) (bool, error)
	LiquidatableAccounts(ctx context.Context) ([]string, error)
}

package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// PauseState tri-state action switch
type PauseState int

const (
	// PauseStateUnset no explicit decision recorded
	PauseStateUnset PauseState = iota
	// PauseStateActive action explicitly allowed
	PauseStateActive
	// PauseStatePaused action disallowed
	PauseStatePaused
)

// Action action classes gated by pause flags
type Action string

const (
	ActionMint     Action = "mint"
	ActionBorrow   Action = "borrow"
	ActionTransfer Action = "transfer"
	ActionSeize    Action = "seize"
)

// RiskParams mutable risk parameter record of a listed market token
type RiskParams struct {
	// fraction of collateral value counted toward borrowing power
	CollateralizationRatio decimal.Decimal `json:"collateralization_ratio"`
	// soft liquidation collateral-requirement premium
	CollReqSoft decimal.Decimal `json:"coll_req_soft"`
	// hard liquidation collateral-requirement premium
	CollReqHard decimal.Decimal `json:"coll_req_hard"`
	// liquidation incentive at the soft threshold
	LiqIncentiveSoft decimal.Decimal `json:"liq_incentive_soft"`
	// liquidation incentive at the hard threshold
	LiqIncentiveHard decimal.Decimal `json:"liq_incentive_hard"`
	// protocol cut of every liquidation seize
	LiqFee decimal.Decimal `json:"liq_fee"`
	// close factor at the soft threshold
	BaseCFactor decimal.Decimal `json:"base_c_factor"`
	// close factor growth with shortfall severity
	CFactorCurve decimal.Decimal `json:"c_factor_curve"`
}

// MarketToken a listed collateral (CToken) or debt (DToken) market token
type MarketToken struct {
	ID         uint64 `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Address    string `sql:"size:64;unique_index:token_address_idx" json:"address"`
	Symbol     string `sql:"size:20" json:"symbol"`
	Underlying string `sql:"size:64" json:"underlying"`
	// manager identity, checked by canSeize across token pairs
	ManagerID string `sql:"size:64" json:"manager_id"`
	IsCToken  bool   `json:"is_ctoken"`
	Listed    bool   `json:"listed"`

	// share accounting (collateral tokens)
	TotalCash        decimal.Decimal `sql:"type:decimal(32,18)" json:"total_cash"`
	Reserves         decimal.Decimal `sql:"type:decimal(32,18)" json:"reserves"`
	Shares           decimal.Decimal `sql:"type:decimal(32,18)" json:"shares"`
	InitExchangeRate decimal.Decimal `sql:"type:decimal(32,18);default:1" json:"init_exchange_rate"`
	ExchangeRate     decimal.Decimal `sql:"type:decimal(32,18)" json:"exchange_rate"`

	// debt accounting (debt tokens)
	TotalBorrows decimal.Decimal `sql:"type:decimal(32,18)" json:"total_borrows"`
	BorrowIndex  decimal.Decimal `sql:"type:decimal(32,18);default:1" json:"borrow_index"`

	// risk parameter record, zeroed until configured by the admin
	CollateralizationRatio decimal.Decimal `sql:"type:decimal(32,18)" json:"collateralization_ratio"`
	CollReqSoft            decimal.Decimal `sql:"type:decimal(32,18)" json:"coll_req_soft"`
	CollReqHard            decimal.Decimal `sql:"type:decimal(32,18)" json:"coll_req_hard"`
	LiqIncentiveSoft       decimal.Decimal `sql:"type:decimal(32,18)" json:"liq_incentive_soft"`
	LiqIncentiveHard       decimal.Decimal `sql:"type:decimal(32,18)" json:"liq_incentive_hard"`
	LiqFee                 decimal.Decimal `sql:"type:decimal(32,18)" json:"liq_fee"`
	BaseCFactor            decimal.Decimal `sql:"type:decimal(32,18)" json:"base_c_factor"`
	CFactorCurve           decimal.Decimal `sql:"type:decimal(32,18)" json:"c_factor_curve"`
	// 0 means uncapped
	CollateralCap decimal.Decimal `sql:"type:decimal(32,18)" json:"collateral_cap"`
	BorrowCap     decimal.Decimal `sql:"type:decimal(32,18)" json:"borrow_cap"`

	MintPaused     PauseState `sql:"default:0" json:"mint_paused"`
	BorrowPaused   PauseState `sql:"default:0" json:"borrow_paused"`
	TransferPaused PauseState `sql:"default:0" json:"transfer_paused"`
	SeizePaused    PauseState `sql:"default:0" json:"seize_paused"`

	Version   int64     `sql:"default:0" json:"version"`
	CreatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// RiskParams snapshot of the token's risk record
func (t *MarketToken) RiskParams() RiskParams {
	return RiskParams{
		CollateralizationRatio: t.CollateralizationRatio,
		CollReqSoft:            t.CollReqSoft,
		CollReqHard:            t.CollReqHard,
		LiqIncentiveSoft:       t.LiqIncentiveSoft,
		LiqIncentiveHard:       t.LiqIncentiveHard,
		LiqFee:                 t.LiqFee,
		BaseCFactor:            t.BaseCFactor,
		CFactorCurve:           t.CFactorCurve,
	}
}

// ApplyRiskParams overwrite the risk record atomically
func (t *MarketToken) ApplyRiskParams(p RiskParams) {
	t.CollateralizationRatio = p.CollateralizationRatio
	t.CollReqSoft = p.CollReqSoft
	t.CollReqHard = p.CollReqHard
	t.LiqIncentiveSoft = p.LiqIncentiveSoft
	t.LiqIncentiveHard = p.LiqIncentiveHard
	t.LiqFee = p.LiqFee
	t.BaseCFactor = p.BaseCFactor
	t.CFactorCurve = p.CFactorCurve
}

// PauseOf per-token pause flag of an action class
func (t *MarketToken) PauseOf(action Action) PauseState {
	switch action {
	case ActionMint:
		return t.MintPaused
	case ActionBorrow:
		return t.BorrowPaused
	case ActionTransfer:
		return t.TransferPaused
	case ActionSeize:
		return t.SeizePaused
	default:
		return PauseStateUnset
	}
}

// SetPauseOf set the per-token pause flag of an action class
func (t *MarketToken) SetPauseOf(action Action, state PauseState) {
	switch action {
	case ActionMint:
		t.MintPaused = state
	case ActionBorrow:
		t.BorrowPaused = state
	case ActionTransfer:
		t.TransferPaused = state
	case ActionSeize:
		t.SeizePaused = state
	}
}

// IMarketTokenStore market token store interface
type IMarketTokenStore interface {
	Save(ctx context.Context, token *MarketToken) error
	Find(ctx context.Context, address string) (*MarketToken, error)
	All(ctx context.Context) ([]*MarketToken, error)
	AllAsMap(ctx context.Context) (map[string]*MarketToken, error)
	Update(ctx context.Context, tx *db.DB, token *MarketToken, version int64) error
}

// IMarketTokenService market token snapshot interface consumed by the risk engine
type IMarketTokenService interface {
	CurExchangeRate(ctx context.Context, token *MarketToken) decimal.Decimal
	DebtBalance(ctx context.Context, position *Position, token *MarketToken) decimal.Decimal
	// ProbeMint zero-amount mint probe verifying the token is a compatible market token
	ProbeMint(ctx context.Context, token *MarketToken) error
}

package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// LiquidationOrder outcome of canLiquidate, executed by the settlement flow
type LiquidationOrder struct {
	Account         string          `json:"account"`
	DebtToken       string          `json:"debt_token"`
	CollateralToken string          `json:"collateral_token"`
	// debt underlying actually repayable
	Repay decimal.Decimal `json:"repay"`
	// collateral shares seized in total
	SeizedTokens decimal.Decimal `json:"seized_tokens"`
	// portion of SeizedTokens kept by the protocol
	ProtocolFee decimal.Decimal `json:"protocol_fee"`
	// a price source answered with a caution code
	Degraded bool `json:"degraded"`
}

// LiquidatorTokens seized shares net of the protocol cut
func (o *LiquidationOrder) LiquidatorTokens() decimal.Decimal {
	return o.SeizedTokens.Sub(o.ProtocolFee)
}

// IMarketManager the central risk ledger. Market tokens call the gate methods
// before mutating their own state; admin methods reconfigure risk policy.
type IMarketManager interface {
	// membership & listing
	ListToken(ctx context.Context, caller, tokenAddress string) error
	EnterMarkets(ctx context.Context, account string, tokenAddresses []string) error
	ExitMarket(ctx context.Context, account, tokenAddress string) error

	// action gates
	CanMint(ctx context.Context, tokenAddress string) error
	CanRedeem(ctx context.Context, caller, tokenAddress, account string, amount decimal.Decimal) error
	CanPostCollateral(ctx context.Context, caller, tokenAddress, account string, amount decimal.Decimal) error
	CanReduceCollateral(ctx context.Context, caller, tokenAddress, account string, amount decimal.Decimal) error
	CanBorrow(ctx context.Context, caller, tokenAddress, account string, amount decimal.Decimal) error
	CanBorrowWithNotify(ctx context.Context, caller, tokenAddress, account string, amount decimal.Decimal) error
	CanRepay(ctx context.Context, tokenAddress, account string) error
	CanTransfer(ctx context.Context, caller, tokenAddress, account string, amount decimal.Decimal) error
	CanSeize(ctx context.Context, collateralToken, debtToken string) error
	CanLiquidate(ctx context.Context, debtToken, collateralToken, account string, repay decimal.Decimal, wholePosition bool) (*LiquidationOrder, error)

	// admin
	UpdateCollateralToken(ctx context.Context, caller, tokenAddress string, params RiskParams) error
	SetCloseFactor(ctx context.Context, caller string, closeFactor decimal.Decimal) error
	SetLiquidationIncentive(ctx context.Context, caller string, incentive decimal.Decimal) error
	SetActionPaused(ctx context.Context, caller, tokenAddress string, action Action, paused bool) error
	SetBorrowCap(ctx context.Context, caller, tokenAddress string, cap decimal.Decimal) error
	SetCollateralCap(ctx context.Context, caller, tokenAddress string, cap decimal.Decimal) error
	SetPositionFolding(ctx context.Context, caller, address string) error
}

// ILiquidationService sizes a liquidation through the market manager and
// settles the resulting order against positions and token totals
type ILiquidationService interface {
	Liquidate(ctx context.Context, liquidator, debtToken, collateralToken, account string, repay decimal.Decimal, wholePosition bool) (*LiquidationOrder, error)
}

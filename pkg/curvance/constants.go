package curvance

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	// MaxCollateralizationRatio max fraction of collateral value counted toward borrowing power
	MaxCollateralizationRatio = decimal.NewFromFloat(0.91)
	// MaxCollateralRequirement max soft/hard liquidation collateral-requirement premium
	MaxCollateralRequirement = decimal.NewFromFloat(0.4)
	// MinLiquidationIncentive liquidation incentive must be no less than this value, on top of the liquidation fee
	MinLiquidationIncentive = decimal.NewFromFloat(0.01)
	// MaxLiquidationIncentive liquidation incentive must be no greater than this value
	MaxLiquidationIncentive = decimal.NewFromFloat(0.3)
	// MaxLiquidationFee max protocol cut of a liquidation seize
	MaxLiquidationFee = decimal.NewFromFloat(0.05)
	// MinHoldPeriod minimum time between a borrow and any solvency-sensitive exit action
	MinHoldPeriod = 15 * time.Minute
	// MaxPrecision max precision
	MaxPrecision int32 = 18

	one = decimal.New(1, 0)
)

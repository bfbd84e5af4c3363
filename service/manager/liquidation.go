package manager

import (
	"context"

	"curvance/core"
	"curvance/pkg/curvance"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

// CanLiquidate sizes a liquidation against the account's shortfall severity
// and returns the executable order. Nothing is settled here; the settlement
// flow executes the order it gets back.
func (s *managerService) CanLiquidate(ctx context.Context, debtToken, collateralToken, account string, repay decimal.Decimal, wholePosition bool) (*core.LiquidationOrder, error) {
	if err := s.enter(); err != nil {
		return nil, err
	}
	defer s.leave()

	log := logger.FromContext(ctx).WithField("account", account)

	debt, err := s.requireListed(ctx, debtToken)
	if err != nil {
		return nil, err
	}

	collateral, err := s.requireListed(ctx, collateralToken)
	if err != nil {
		return nil, err
	}

	if debt.IsCToken || !collateral.IsCToken {
		return nil, core.ErrInvalidParameter
	}

	// an unconfigured collateral token never contributed borrowing power,
	// so there is nothing coherent to seize against
	if !collateral.CollateralizationRatio.IsPositive() {
		return nil, core.ErrInvalidParameter
	}

	entered, err := s.accountStore.AssetsEntered(ctx, account)
	if err != nil {
		return nil, err
	}

	if len(entered) == 0 {
		return nil, core.ErrInvalidParameter
	}

	status, err := s.accountSrv.LiquidationStatus(ctx, account)
	if err != nil {
		return nil, err
	}

	if !status.Liquidatable() {
		return nil, core.ErrNoLiquidationAvailable
	}

	severity := curvance.Severity(status.Collateral, status.SoftRequirement, status.HardRequirement)

	base, curve := debt.BaseCFactor, debt.CFactorCurve
	if !base.IsPositive() {
		base = s.globalDecimal(ctx, PropertyCloseFactor)
	}
	closeFactor := curvance.CloseFactor(base, curve, severity)

	incentiveSoft, incentiveHard := collateral.LiqIncentiveSoft, collateral.LiqIncentiveHard
	if incentiveSoft.IsZero() && incentiveHard.IsZero() {
		g := s.globalDecimal(ctx, PropertyLiquidationIncentive)
		incentiveSoft, incentiveHard = g, g
	}
	incentive := curvance.LiquidationIncentive(incentiveSoft, incentiveHard, severity)

	debtPosition, err := s.positionStore.Find(ctx, account, debtToken)
	if err != nil {
		return nil, err
	}

	debtBalance := s.tokenService.DebtBalance(ctx, debtPosition, debt)
	if !debtBalance.IsPositive() {
		return nil, core.ErrNoLiquidationAvailable
	}

	// a whole-position close is honored only in the hard tier; below it the
	// close factor caps the repay
	maxRepay := debtBalance.Mul(closeFactor).Truncate(curvance.MaxPrecision)
	if wholePosition && severity.GreaterThanOrEqual(decimal.New(1, 0)) {
		maxRepay = debtBalance
	}

	actualRepay := repay
	if !actualRepay.IsPositive() || actualRepay.GreaterThan(maxRepay) {
		actualRepay = maxRepay
	}

	debtPrice := s.oracle.GetPrice(ctx, debt.Underlying, true, false)
	collateralPrice := s.oracle.GetPrice(ctx, collateral.Underlying, true, true)
	if !debtPrice.Usable() || !collateralPrice.Usable() {
		return nil, core.ErrPriceError
	}

	exchangeRate := s.tokenService.CurExchangeRate(ctx, collateral)
	seized := curvance.SeizeTokens(actualRepay, debtPrice.Price, collateralPrice.Price, exchangeRate, incentive)
	if !seized.IsPositive() {
		return nil, core.ErrNoLiquidationAvailable
	}

	collateralPosition, err := s.positionStore.Find(ctx, account, collateralToken)
	if err != nil {
		return nil, err
	}

	if !collateralPosition.CollateralPosted.IsPositive() {
		return nil, core.ErrNoLiquidationAvailable
	}

	// a seize cannot exceed posted collateral; shrink it and back-compute
	// the repay so both legs stay proportional
	if seized.GreaterThan(collateralPosition.CollateralPosted) {
		ratio := collateralPosition.CollateralPosted.Div(seized)
		actualRepay = actualRepay.Mul(ratio).Truncate(curvance.MaxPrecision)
		seized = collateralPosition.CollateralPosted
	}

	order := &core.LiquidationOrder{
		Account:         account,
		DebtToken:       debtToken,
		CollateralToken: collateralToken,
		Repay:           actualRepay,
		SeizedTokens:    seized,
		ProtocolFee:     curvance.ProtocolFee(seized, collateral.LiqFee, incentive),
		Degraded:        status.Degraded || debtPrice.Code != core.PriceCodeOK || collateralPrice.Code != core.PriceCodeOK,
	}

	log.WithField("severity", severity).
		WithField("repay", order.Repay).
		WithField("seized", order.SeizedTokens).
		Debugln("liquidation order sized")

	return order, nil
}

// globalDecimal decimal-valued global property, zero when unset or malformed
func (s *managerService) globalDecimal(ctx context.Context, key string) decimal.Decimal {
	v, err := s.propertyStore.Get(ctx, key)
	if err != nil {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero
	}

	return d
}

package curvance

import (
	"curvance/pkg/number"

	"github.com/shopspring/decimal"
)

// GetExchangeRate exchange rate between collateral shares and underlying
// exchange_rate = (total_cash + total_borrows - reserves) / share_supply
func GetExchangeRate(totalCash, totalBorrows, reserves, shareSupply, initExchangeRate decimal.Decimal) decimal.Decimal {
	if !shareSupply.IsPositive() {
		return initExchangeRate
	}

	return totalCash.Add(totalBorrows).Sub(reserves).Div(shareSupply).Truncate(MaxPrecision)
}

// DebtBalance current debt balance of a position
// balance = principal * borrow_index / interest_index
func DebtBalance(principal, interestIndex, borrowIndex decimal.Decimal) decimal.Decimal {
	if !principal.IsPositive() {
		return decimal.Zero
	}

	if !borrowIndex.IsPositive() {
		borrowIndex = one
	}

	if !interestIndex.IsPositive() {
		interestIndex = borrowIndex
	}

	// carry the quotient past the stored scale before rounding up, the
	// default division precision rounds half-even and can understate debt
	return number.Ceil(principal.Mul(borrowIndex).DivRound(interestIndex, MaxPrecision+2), MaxPrecision)
}

// SoftRequirement collateral an account must keep to stay clear of soft liquidation
func SoftRequirement(debtValue, collReqSoft decimal.Decimal) decimal.Decimal {
	return debtValue.Mul(one.Add(collReqSoft))
}

// HardRequirement collateral floor below which the hard liquidation tier applies
func HardRequirement(debtValue, collReqHard decimal.Decimal) decimal.Decimal {
	return debtValue.Mul(one.Add(collReqHard))
}

// Severity normalized measure of how far an account is past the soft liquidation
// threshold: 0 at the soft requirement, 1 at (or past) the hard requirement.
// An account with collateral at or above the soft requirement is not liquidatable.
func Severity(collateralValue, softRequirement, hardRequirement decimal.Decimal) decimal.Decimal {
	if collateralValue.GreaterThanOrEqual(softRequirement) {
		return decimal.Zero
	}

	span := softRequirement.Sub(hardRequirement)
	if !span.IsPositive() {
		return one
	}

	severity := softRequirement.Sub(collateralValue).Div(span).Truncate(MaxPrecision)
	if severity.GreaterThan(one) {
		return one
	}

	return severity
}

// CloseFactor fraction of a liquidatable position repayable in one call,
// clamped to [base, 1]
func CloseFactor(base, curve, severity decimal.Decimal) decimal.Decimal {
	factor := base.Add(curve.Mul(severity)).Truncate(MaxPrecision)
	if factor.LessThan(base) {
		return base
	}

	if factor.GreaterThan(one) {
		return one
	}

	return factor
}

// LiquidationIncentive interpolates between the soft and hard incentive bounds
// by shortfall severity; deeper shortfall pays the liquidator more.
func LiquidationIncentive(soft, hard, severity decimal.Decimal) decimal.Decimal {
	return soft.Add(hard.Sub(soft).Mul(severity)).Truncate(MaxPrecision)
}

// SeizeTokens collateral share amount seized for a repayment
// seized = repay * debt_price * (1 + incentive) / (coll_price * exchange_rate)
func SeizeTokens(repayAmount, debtPrice, collateralPrice, exchangeRate, incentive decimal.Decimal) decimal.Decimal {
	denominator := collateralPrice.Mul(exchangeRate)
	if !denominator.IsPositive() {
		return decimal.Zero
	}

	return repayAmount.Mul(debtPrice).Mul(one.Add(incentive)).
		Div(denominator).Truncate(MaxPrecision)
}

// ProtocolFee protocol share of a seize, proportional to the base repay value
// rather than the full incentive paid to the liquidator
func ProtocolFee(seizedTokens, liquidationFee, incentive decimal.Decimal) decimal.Decimal {
	if !liquidationFee.IsPositive() {
		return decimal.Zero
	}

	return seizedTokens.Mul(liquidationFee).Div(one.Add(incentive)).Truncate(MaxPrecision)
}

// PremiumConsistent reports whether a collateralization ratio leaves room for
// the soft-liquidation premium: cr <= 1 / (1 + collReqSoft)
func PremiumConsistent(cr, collReqSoft decimal.Decimal) bool {
	return cr.Mul(one.Add(collReqSoft)).LessThanOrEqual(one)
}

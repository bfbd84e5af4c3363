package manager

import (
	"context"
	"strconv"

	"curvance/core"
	"curvance/pkg/curvance"

	"github.com/shopspring/decimal"
)

// UpdateCollateralToken rewrites a collateral token's risk record. The checks
// run in a fixed order and the first failure rejects the whole update, so a
// token never ends up with a half-applied record.
func (s *managerService) UpdateCollateralToken(ctx context.Context, caller, tokenAddress string, params core.RiskParams) error {
	if err := s.enter(); err != nil {
		return err
	}
	defer s.leave()

	if !s.system.IsAdmin(caller) {
		return core.ErrUnauthorized
	}

	token, err := s.requireListed(ctx, tokenAddress)
	if err != nil {
		return err
	}

	if !token.IsCToken {
		return core.ErrInvalidParameter
	}

	if err := validateRiskParams(params); err != nil {
		return err
	}

	// a token cannot be armed as collateral without a live trustworthy price
	price := s.oracle.GetPrice(ctx, token.Underlying, true, true)
	if price.Code != core.PriceCodeOK || !price.Price.IsPositive() {
		return core.ErrPriceError
	}

	old := token.RiskParams()
	token.ApplyRiskParams(params)
	if err := s.tokenStore.Update(ctx, s.db, token, token.Version+1); err != nil {
		return err
	}

	s.emit(ctx, core.EventCollateralTokenUpdated, tokenAddress, "", map[string]interface{}{
		"old": old,
		"new": params,
	})

	return nil
}

func validateRiskParams(p core.RiskParams) error {
	if p.CollateralizationRatio.IsNegative() ||
		p.CollateralizationRatio.GreaterThan(curvance.MaxCollateralizationRatio) {
		return core.ErrInvalidParameter
	}

	if p.CollReqSoft.GreaterThan(curvance.MaxCollateralRequirement) ||
		p.CollReqHard.GreaterThan(p.CollReqSoft) ||
		p.CollReqHard.IsNegative() {
		return core.ErrInvalidParameter
	}

	if !curvance.PremiumConsistent(p.CollateralizationRatio, p.CollReqSoft) {
		return core.ErrInvalidParameter
	}

	if p.LiqFee.IsNegative() || p.LiqFee.GreaterThan(curvance.MaxLiquidationFee) {
		return core.ErrInvalidParameter
	}

	// the liquidator's floor payout must cover the protocol cut on top of the
	// minimum incentive
	if p.LiqIncentiveSoft.LessThan(curvance.MinLiquidationIncentive.Add(p.LiqFee)) ||
		p.LiqIncentiveHard.LessThan(p.LiqIncentiveSoft) ||
		p.LiqIncentiveHard.GreaterThan(curvance.MaxLiquidationIncentive) {
		return core.ErrInvalidParameter
	}

	// the incentive paid at the soft tier must fit inside the hard premium,
	// or a soft liquidation could push the account past the hard threshold
	if p.LiqIncentiveSoft.GreaterThan(p.CollReqHard) {
		return core.ErrInvalidParameter
	}

	one := decimal.New(1, 0)
	if p.BaseCFactor.IsNegative() || p.BaseCFactor.GreaterThan(one) ||
		p.CFactorCurve.IsNegative() {
		return core.ErrInvalidParameter
	}

	return nil
}

// SetCloseFactor global default close factor, used by debt tokens without
// their own curve
func (s *managerService) SetCloseFactor(ctx context.Context, caller string, closeFactor decimal.Decimal) error {
	if !s.system.IsAdmin(caller) {
		return core.ErrUnauthorized
	}

	if !closeFactor.IsPositive() || closeFactor.GreaterThan(decimal.New(1, 0)) {
		return core.ErrInvalidValue
	}

	if err := s.propertyStore.Save(ctx, PropertyCloseFactor, closeFactor.String()); err != nil {
		return err
	}

	s.emit(ctx, core.EventNewCloseFactor, "", "", map[string]interface{}{
		"close_factor": closeFactor,
	})

	return nil
}

// SetLiquidationIncentive global default incentive, used by collateral tokens
// without their own bounds
func (s *managerService) SetLiquidationIncentive(ctx context.Context, caller string, incentive decimal.Decimal) error {
	if !s.system.IsAdmin(caller) {
		return core.ErrUnauthorized
	}

	if incentive.LessThan(curvance.MinLiquidationIncentive) ||
		incentive.GreaterThan(curvance.MaxLiquidationIncentive) {
		return core.ErrInvalidValue
	}

	if err := s.propertyStore.Save(ctx, PropertyLiquidationIncentive, incentive.String()); err != nil {
		return err
	}

	s.emit(ctx, core.EventNewLiquidationIncentive, "", "", map[string]interface{}{
		"incentive": incentive,
	})

	return nil
}

// SetActionPaused an empty token address flips the global switch; otherwise
// the token's own tri-state flag is set and shadows the global one.
func (s *managerService) SetActionPaused(ctx context.Context, caller, tokenAddress string, action core.Action, paused bool) error {
	if !s.system.IsAdmin(caller) {
		return core.ErrUnauthorized
	}

	state := core.PauseStateActive
	if paused {
		state = core.PauseStatePaused
	}

	if tokenAddress == "" {
		if err := s.propertyStore.Save(ctx, propertyPausePrefix+string(action), strconv.Itoa(int(state))); err != nil {
			return err
		}
	} else {
		token, err := s.requireListed(ctx, tokenAddress)
		if err != nil {
			return err
		}

		token.SetPauseOf(action, state)
		if err := s.tokenStore.Update(ctx, s.db, token, token.Version+1); err != nil {
			return err
		}
	}

	s.emit(ctx, core.EventActionPaused, tokenAddress, "", map[string]interface{}{
		"action": action,
		"paused": paused,
	})

	return nil
}

// SetBorrowCap zero removes the cap
func (s *managerService) SetBorrowCap(ctx context.Context, caller, tokenAddress string, cap decimal.Decimal) error {
	if !s.system.IsAdmin(caller) {
		return core.ErrUnauthorized
	}

	if cap.IsNegative() {
		return core.ErrInvalidValue
	}

	token, err := s.requireListed(ctx, tokenAddress)
	if err != nil {
		return err
	}

	if token.IsCToken {
		return core.ErrInvalidParameter
	}

	token.BorrowCap = cap
	if err := s.tokenStore.Update(ctx, s.db, token, token.Version+1); err != nil {
		return err
	}

	s.emit(ctx, core.EventNewBorrowCap, tokenAddress, "", map[string]interface{}{
		"cap": cap,
	})

	return nil
}

// SetCollateralCap zero removes the cap
func (s *managerService) SetCollateralCap(ctx context.Context, caller, tokenAddress string, cap decimal.Decimal) error {
	if !s.system.IsAdmin(caller) {
		return core.ErrUnauthorized
	}

	if cap.IsNegative() {
		return core.ErrInvalidValue
	}

	token, err := s.requireListed(ctx, tokenAddress)
	if err != nil {
		return err
	}

	if !token.IsCToken {
		return core.ErrInvalidParameter
	}

	token.CollateralCap = cap
	if err := s.tokenStore.Update(ctx, s.db, token, token.Version+1); err != nil {
		return err
	}

	s.emit(ctx, core.EventNewCollateralCap, tokenAddress, "", map[string]interface{}{
		"cap": cap,
	})

	return nil
}

// SetPositionFolding registers the delegate address allowed to act for any
// account in gate calls
func (s *managerService) SetPositionFolding(ctx context.Context, caller, address string) error {
	if !s.system.IsAdmin(caller) {
		return core.ErrUnauthorized
	}

	if address == "" {
		return core.ErrInvalidParameter
	}

	if err := s.propertyStore.Save(ctx, PropertyPositionFolding, address); err != nil {
		return err
	}

	s.emit(ctx, core.EventNewPositionFolding, "", address, nil)
	return nil
}

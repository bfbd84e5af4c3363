package manager

import (
	"context"
	"time"

	"curvance/core"
	"curvance/pkg/curvance"

	"github.com/shopspring/decimal"
)

// CanMint pause and listing check only; minting shares against an underlying
// deposit creates no risk by itself.
func (s *managerService) CanMint(ctx context.Context, tokenAddress string) error {
	token, err := s.requireListed(ctx, tokenAddress)
	if err != nil {
		return err
	}

	return s.checkPaused(ctx, token, core.ActionMint)
}

// CanRedeem debt tokens redeem freely; collateral tokens must clear the
// minimum hold period and stay solvent without the redeemed shares.
func (s *managerService) CanRedeem(ctx context.Context, caller, tokenAddress, account string, amount decimal.Decimal) error {
	token, err := s.requireListed(ctx, tokenAddress)
	if err != nil {
		return err
	}

	if !token.IsCToken {
		return nil
	}

	if err := s.authorize(ctx, caller, token, account); err != nil {
		return err
	}

	if err := s.checkHoldPeriod(ctx, account); err != nil {
		return err
	}

	return s.checkHypotheticalSolvency(ctx, account, tokenAddress, amount, decimal.Zero)
}

// CanPostCollateral gate before shares are posted as usable collateral
func (s *managerService) CanPostCollateral(ctx context.Context, caller, tokenAddress, account string, amount decimal.Decimal) error {
	token, err := s.requireListed(ctx, tokenAddress)
	if err != nil {
		return err
	}

	if !token.IsCToken {
		return core.ErrInvalidParameter
	}

	if err := s.checkPaused(ctx, token, core.ActionMint); err != nil {
		return err
	}

	if caller != token.Address && caller != account && caller != s.positionFolding(ctx) {
		return core.ErrUnauthorized
	}

	if token.CollateralCap.IsPositive() {
		posted, err := s.positionStore.SumCollateral(ctx, tokenAddress)
		if err != nil {
			return err
		}

		if posted.Add(amount).GreaterThan(token.CollateralCap) {
			return core.ErrCollateralCapReached
		}
	}

	return s.enterMarket(ctx, account, tokenAddress)
}

// CanReduceCollateral gate before posted collateral is released back to the
// free share balance
func (s *managerService) CanReduceCollateral(ctx context.Context, caller, tokenAddress, account string, amount decimal.Decimal) error {
	token, err := s.requireListed(ctx, tokenAddress)
	if err != nil {
		return err
	}

	if !token.IsCToken {
		return core.ErrInvalidParameter
	}

	if err := s.authorize(ctx, caller, token, account); err != nil {
		return err
	}

	if err := s.checkHoldPeriod(ctx, account); err != nil {
		return err
	}

	return s.checkHypotheticalSolvency(ctx, account, tokenAddress, amount, decimal.Zero)
}

// CanBorrow membership auto-entry, borrow cap and solvency including the
// hypothetical new borrow
func (s *managerService) CanBorrow(ctx context.Context, caller, tokenAddress, account string, amount decimal.Decimal) error {
	token, err := s.requireListed(ctx, tokenAddress)
	if err != nil {
		return err
	}

	if token.IsCToken {
		return core.ErrInvalidParameter
	}

	if err := s.checkPaused(ctx, token, core.ActionBorrow); err != nil {
		return err
	}

	if caller != token.Address && caller != account && caller != s.positionFolding(ctx) {
		entered, err := s.accountStore.IsEntered(ctx, account, tokenAddress)
		if err != nil {
			return err
		}

		if !entered {
			return core.ErrUnauthorized
		}
	}

	if err := s.enterMarket(ctx, account, tokenAddress); err != nil {
		return err
	}

	// zero borrow cap means uncapped
	if token.BorrowCap.IsPositive() &&
		token.TotalBorrows.Add(amount).GreaterThan(token.BorrowCap) {
		return core.ErrBorrowCapReached
	}

	return s.checkHypotheticalSolvency(ctx, account, tokenAddress, decimal.Zero, amount)
}

// CanBorrowWithNotify CanBorrow plus the cooldown stamp that arms the
// minimum hold period
func (s *managerService) CanBorrowWithNotify(ctx context.Context, caller, tokenAddress, account string, amount decimal.Decimal) error {
	if err := s.CanBorrow(ctx, caller, tokenAddress, account, amount); err != nil {
		return err
	}

	acc, err := s.accountStore.FindOrCreate(ctx, account)
	if err != nil {
		return err
	}

	acc.CooldownTimestamp = time.Now()
	return s.accountStore.Update(ctx, s.db, acc, acc.Version+1)
}

// CanRepay a repay immediately chained into a solvency-sensitive action is
// the attack surface, so the hold period applies here too
func (s *managerService) CanRepay(ctx context.Context, tokenAddress, account string) error {
	if _, err := s.requireListed(ctx, tokenAddress); err != nil {
		return err
	}

	return s.checkHoldPeriod(ctx, account)
}

// CanTransfer moving collateral shares reduces the sender's posted value the
// same way a redeem does
func (s *managerService) CanTransfer(ctx context.Context, caller, tokenAddress, account string, amount decimal.Decimal) error {
	token, err := s.requireListed(ctx, tokenAddress)
	if err != nil {
		return err
	}

	if err := s.checkPaused(ctx, token, core.ActionTransfer); err != nil {
		return err
	}

	if !token.IsCToken {
		return nil
	}

	if err := s.authorize(ctx, caller, token, account); err != nil {
		return err
	}

	if err := s.checkHoldPeriod(ctx, account); err != nil {
		return err
	}

	return s.checkHypotheticalSolvency(ctx, account, tokenAddress, amount, decimal.Zero)
}

// CanSeize both tokens listed, seize not paused, and both bound to the same
// market manager
func (s *managerService) CanSeize(ctx context.Context, collateralToken, debtToken string) error {
	collateral, err := s.requireListed(ctx, collateralToken)
	if err != nil {
		return err
	}

	debt, err := s.requireListed(ctx, debtToken)
	if err != nil {
		return err
	}

	if !collateral.IsCToken || debt.IsCToken {
		return core.ErrInvalidParameter
	}

	if err := s.checkPaused(ctx, collateral, core.ActionSeize); err != nil {
		return err
	}

	if err := s.checkPaused(ctx, debt, core.ActionSeize); err != nil {
		return err
	}

	if collateral.ManagerID != debt.ManagerID {
		return core.ErrManagerMismatch
	}

	return nil
}

// checkHoldPeriod fails strictly before cooldown + MinHoldPeriod and passes
// at the boundary exactly
func (s *managerService) checkHoldPeriod(ctx context.Context, account string) error {
	acc, err := s.accountStore.Find(ctx, account)
	if err != nil {
		return err
	}

	if acc.ID == 0 || acc.CooldownTimestamp.IsZero() {
		return nil
	}

	if time.Now().Before(acc.CooldownTimestamp.Add(curvance.MinHoldPeriod)) {
		return core.ErrMinimumHoldPeriod
	}

	return nil
}

func (s *managerService) checkHypotheticalSolvency(ctx context.Context, account, tokenAddress string, redeemTokens, borrowAmount decimal.Decimal) error {
	liquidity, err := s.accountSrv.HypotheticalLiquidity(ctx, account, tokenAddress, redeemTokens, borrowAmount)
	if err != nil {
		return err
	}

	if liquidity.IsNegative() {
		return core.ErrInsufficientLiquidity
	}

	return nil
}

package account

import (
	"context"

	"curvance/core"
	"curvance/pkg/curvance"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

type accountService struct {
	tokenStore    core.IMarketTokenStore
	positionStore core.IPositionStore
	accountStore  core.IAccountStore
	tokenService  core.IMarketTokenService
	oracle        core.IOracleRouter
}

// New new account service
func New(
	tokenStore core.IMarketTokenStore,
	positionStore core.IPositionStore,
	accountStore core.IAccountStore,
	tokenService core.IMarketTokenService,
	oracle core.IOracleRouter,
) core.IAccountService {
	return &accountService{
		tokenStore:    tokenStore,
		positionStore: positionStore,
		accountStore:  accountStore,
		tokenService:  tokenService,
		oracle:        oracle,
	}
}

// AccountStatus risk-adjusted aggregation over every entered market:
// collateral counted through each token's collateralization ratio, debt at
// full value. Any unusable price aborts the whole read.
func (s *accountService) AccountStatus(ctx context.Context, address string) (*core.AccountStatus, error) {
	status := &core.AccountStatus{
		Collateral: decimal.Zero,
		Debt:       decimal.Zero,
	}

	entered, err := s.accountStore.AssetsEntered(ctx, address)
	if err != nil {
		return nil, err
	}

	for _, tokenAddress := range entered {
		token, err := s.tokenStore.Find(ctx, tokenAddress)
		if err != nil {
			return nil, err
		}

		if token.ID == 0 || !token.Listed {
			continue
		}

		position, err := s.positionStore.Find(ctx, address, tokenAddress)
		if err != nil {
			return nil, err
		}

		if token.IsCToken {
			if !position.CollateralPosted.IsPositive() {
				continue
			}

			price := s.oracle.GetPrice(ctx, token.Underlying, true, true)
			if !price.Usable() {
				return nil, core.ErrPriceError
			}
			status.Degraded = status.Degraded || price.Code == core.PriceCodeCaution

			exchangeRate := s.tokenService.CurExchangeRate(ctx, token)
			value := position.CollateralPosted.Mul(exchangeRate).
				Mul(price.Price).
				Mul(token.CollateralizationRatio)
			status.Collateral = status.Collateral.Add(value).Truncate(curvance.MaxPrecision)
			continue
		}

		debt := s.tokenService.DebtBalance(ctx, position, token)
		if !debt.IsPositive() {
			continue
		}

		price := s.oracle.GetPrice(ctx, token.Underlying, true, false)
		if !price.Usable() {
			return nil, core.ErrPriceError
		}
		status.Degraded = status.Degraded || price.Code == core.PriceCodeCaution

		status.Debt = status.Debt.Add(debt.Mul(price.Price)).Truncate(curvance.MaxPrecision)
	}

	return status, nil
}

// LiquidationStatus aggregation against the collateral-requirement premiums:
// collateral at full value, requirements derived from debt scaled by the
// collateral-weighted soft and hard premiums.
func (s *accountService) LiquidationStatus(ctx context.Context, address string) (*core.LiquidationStatus, error) {
	status := &core.LiquidationStatus{
		Collateral:      decimal.Zero,
		Debt:            decimal.Zero,
		SoftRequirement: decimal.Zero,
		HardRequirement: decimal.Zero,
	}

	entered, err := s.accountStore.AssetsEntered(ctx, address)
	if err != nil {
		return nil, err
	}

	one := decimal.New(1, 0)
	weightedSoft := decimal.Zero
	weightedHard := decimal.Zero

	for _, tokenAddress := range entered {
		token, err := s.tokenStore.Find(ctx, tokenAddress)
		if err != nil {
			return nil, err
		}

		if token.ID == 0 || !token.Listed {
			continue
		}

		position, err := s.positionStore.Find(ctx, address, tokenAddress)
		if err != nil {
			return nil, err
		}

		if token.IsCToken {
			if !position.CollateralPosted.IsPositive() {
				continue
			}

			price := s.oracle.GetPrice(ctx, token.Underlying, true, true)
			if !price.Usable() {
				return nil, core.ErrPriceError
			}
			status.Degraded = status.Degraded || price.Code == core.PriceCodeCaution

			exchangeRate := s.tokenService.CurExchangeRate(ctx, token)
			value := position.CollateralPosted.Mul(exchangeRate).Mul(price.Price)
			status.Collateral = status.Collateral.Add(value).Truncate(curvance.MaxPrecision)
			weightedSoft = weightedSoft.Add(value.Mul(one.Add(token.CollReqSoft)))
			weightedHard = weightedHard.Add(value.Mul(one.Add(token.CollReqHard)))
			continue
		}

		debt := s.tokenService.DebtBalance(ctx, position, token)
		if !debt.IsPositive() {
			continue
		}

		price := s.oracle.GetPrice(ctx, token.Underlying, true, false)
		if !price.Usable() {
			return nil, core.ErrPriceError
		}
		status.Degraded = status.Degraded || price.Code == core.PriceCodeCaution

		status.Debt = status.Debt.Add(debt.Mul(price.Price)).Truncate(curvance.MaxPrecision)
	}

	// collateral-weighted average premium; a debt-only account is past every
	// threshold as soon as any debt exists
	if status.Collateral.IsPositive() {
		softPremium := weightedSoft.Div(status.Collateral)
		hardPremium := weightedHard.Div(status.Collateral)
		status.SoftRequirement = curvance.SoftRequirement(status.Debt, softPremium.Sub(one)).Truncate(curvance.MaxPrecision)
		status.HardRequirement = curvance.HardRequirement(status.Debt, hardPremium.Sub(one)).Truncate(curvance.MaxPrecision)
	} else {
		status.SoftRequirement = status.Debt
		status.HardRequirement = status.Debt
	}

	return status, nil
}

// HypotheticalLiquidity liquidity after hypothetically redeeming shares of
// modifyToken and borrowing borrowAmount of its underlying
func (s *accountService) HypotheticalLiquidity(ctx context.Context, address, modifyToken string, redeemTokens, borrowAmount decimal.Decimal) (decimal.Decimal, error) {
	status, err := s.AccountStatus(ctx, address)
	if err != nil {
		return decimal.Zero, err
	}

	token, err := s.tokenStore.Find(ctx, modifyToken)
	if err != nil {
		return decimal.Zero, err
	}

	if token.ID == 0 || !token.Listed {
		return decimal.Zero, core.ErrTokenNotListed
	}

	adjustment := decimal.Zero
	if redeemTokens.IsPositive() || borrowAmount.IsPositive() {
		// upper price side over-counts the hypothetical outflow
		price := s.oracle.GetPrice(ctx, token.Underlying, true, false)
		if !price.Usable() {
			return decimal.Zero, core.ErrPriceError
		}

		if redeemTokens.IsPositive() {
			exchangeRate := s.tokenService.CurExchangeRate(ctx, token)
			adjustment = adjustment.Add(
				redeemTokens.Mul(exchangeRate).Mul(price.Price).Mul(token.CollateralizationRatio))
		}

		if borrowAmount.IsPositive() {
			adjustment = adjustment.Add(borrowAmount.Mul(price.Price))
		}
	}

	return status.Liquidity().Sub(adjustment).Truncate(curvance.MaxPrecision), nil
}

func (s *accountService) HasDebt(ctx context.Context, address, tokenAddress string) (bool, error) {
	position, err := s.positionStore.Find(ctx, address, tokenAddress)
	if err != nil {
		return false, err
	}

	return position.Principal.IsPositive(), nil
}

func (s *accountService) LiquidatableAccounts(ctx context.Context) ([]string, error) {
	accounts, err := s.positionStore.Accounts(ctx)
	if err != nil {
		return nil, err
	}

	liquidatable := make([]string, 0)
	for _, account := range accounts {
		status, err := s.LiquidationStatus(ctx, account)
		if err != nil {
			logger.FromContext(ctx).WithError(err).
				WithField("account", account).
				Debugln("skip: liquidation status unavailable")
			continue
		}

		if status.Liquidatable() {
			liquidatable = append(liquidatable, account)
		}
	}

	return liquidatable, nil
}

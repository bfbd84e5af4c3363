package token

import (
	"context"

	"curvance/core"
	"curvance/pkg/curvance"

	"github.com/shopspring/decimal"
)

type tokenService struct{}

// New new market token service
func New() core.IMarketTokenService {
	return &tokenService{}
}

func (s *tokenService) CurExchangeRate(ctx context.Context, token *core.MarketToken) decimal.Decimal {
	if !token.IsCToken {
		return decimal.New(1, 0)
	}

	return curvance.GetExchangeRate(
		token.TotalCash,
		token.TotalBorrows,
		token.Reserves,
		token.Shares,
		token.InitExchangeRate,
	)
}

func (s *tokenService) DebtBalance(ctx context.Context, position *core.Position, token *core.MarketToken) decimal.Decimal {
	if token.IsCToken {
		return decimal.Zero
	}

	return curvance.DebtBalance(position.Principal, position.InterestIndex, token.BorrowIndex)
}

// ProbeMint zero-amount mint probe: a compatible market token must expose a
// determinate variant flag, an underlying asset, and a positive share price.
func (s *tokenService) ProbeMint(ctx context.Context, token *core.MarketToken) error {
	if token.ID == 0 || token.Address == "" || token.Underlying == "" {
		return core.ErrInvalidParameter
	}

	if token.IsCToken {
		if !s.CurExchangeRate(ctx, token).IsPositive() {
			return core.ErrInvalidParameter
		}
		return nil
	}

	if !token.BorrowIndex.IsPositive() {
		return core.ErrInvalidParameter
	}

	return nil
}

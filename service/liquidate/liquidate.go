package liquidate

import (
	"context"

	"fmt"

	"curvance/core"
	"curvance/pkg/curvance"
	"curvance/pkg/id"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	foxuuid "github.com/fox-one/pkg/uuid"
	"github.com/shopspring/decimal"
)

type liquidateService struct {
	system        *core.System
	db            *db.DB
	manager       core.IMarketManager
	tokenStore    core.IMarketTokenStore
	positionStore core.IPositionStore
	eventStore    core.IEventStore
	tokenService  core.IMarketTokenService
	gauge         core.IGaugePool
}

// New new liquidation settlement service
func New(
	system *core.System,
	database *db.DB,
	manager core.IMarketManager,
	tokenStore core.IMarketTokenStore,
	positionStore core.IPositionStore,
	eventStore core.IEventStore,
	tokenService core.IMarketTokenService,
	gauge core.IGaugePool,
) core.ILiquidationService {
	return &liquidateService{
		system:        system,
		db:            database,
		manager:       manager,
		tokenStore:    tokenStore,
		positionStore: positionStore,
		eventStore:    eventStore,
		tokenService:  tokenService,
		gauge:         gauge,
	}
}

// Liquidate sizes the order through the market manager, then settles both
// legs and the settlement event in one transaction. A failure on either leg
// rolls the whole settlement back, so the debt and collateral books never
// drift apart.
func (s *liquidateService) Liquidate(ctx context.Context, liquidator, debtToken, collateralToken, account string, repay decimal.Decimal, wholePosition bool) (*core.LiquidationOrder, error) {
	log := logger.FromContext(ctx).
		WithField("liquidator", liquidator).
		WithField("account", account)

	if liquidator == account {
		return nil, core.ErrInvalidParameter
	}

	if err := s.manager.CanSeize(ctx, collateralToken, debtToken); err != nil {
		return nil, err
	}

	order, err := s.manager.CanLiquidate(ctx, debtToken, collateralToken, account, repay, wholePosition)
	if err != nil {
		return nil, err
	}

	var debtCleared, collateralCleared bool
	if err := s.db.Tx(func(tx *db.DB) error {
		var err error
		if debtCleared, err = s.settleDebt(ctx, tx, order); err != nil {
			return err
		}

		if collateralCleared, err = s.settleCollateral(ctx, tx, liquidator, order); err != nil {
			return err
		}

		// trace derived from the settled legs so a retried settlement
		// dedupes on the event's unique trace index
		trace := foxuuid.Modify(id.UUIDFromString(s.system.ManagerID),
			fmt.Sprintf("liquidation:%s:%s:%s:%s", account, debtToken, collateralToken, order.Repay))

		event := &core.Event{
			TraceID:      trace,
			Type:         core.EventLiquidation,
			TokenAddress: collateralToken,
			Account:      account,
		}
		event.SetData(order)
		return s.eventStore.Create(ctx, tx, event)
	}); err != nil {
		return nil, err
	}

	if debtCleared {
		if err := s.gauge.PositionChanged(ctx, debtToken, account, false); err != nil {
			log.WithError(err).Warningln("gauge position signal failed")
		}
	}

	if collateralCleared {
		if err := s.gauge.PositionChanged(ctx, collateralToken, account, false); err != nil {
			log.WithError(err).Warningln("gauge position signal failed")
		}
	}

	log.WithField("repay", order.Repay).
		WithField("seized", order.SeizedTokens).
		Infoln("liquidation settled")

	return order, nil
}

// settleDebt burns the repaid amount out of the borrower's debt position and
// the debt token totals. Reports whether the position was fully cleared.
func (s *liquidateService) settleDebt(ctx context.Context, tx *db.DB, order *core.LiquidationOrder) (bool, error) {
	debt, err := s.tokenStore.Find(ctx, order.DebtToken)
	if err != nil {
		return false, err
	}

	position, err := s.positionStore.Find(ctx, order.Account, order.DebtToken)
	if err != nil {
		return false, err
	}

	balance := s.tokenService.DebtBalance(ctx, position, debt)
	remaining := balance.Sub(order.Repay)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	position.Principal = remaining
	position.InterestIndex = debt.BorrowIndex
	if err := s.positionStore.Update(ctx, tx, position, position.Version+1); err != nil {
		return false, err
	}

	debt.TotalBorrows = debt.TotalBorrows.Sub(order.Repay).Truncate(curvance.MaxPrecision)
	if debt.TotalBorrows.IsNegative() {
		debt.TotalBorrows = decimal.Zero
	}
	debt.TotalCash = debt.TotalCash.Add(order.Repay).Truncate(curvance.MaxPrecision)
	if err := s.tokenStore.Update(ctx, tx, debt, debt.Version+1); err != nil {
		return false, err
	}

	return !remaining.IsPositive(), nil
}

// settleCollateral moves seized shares from the borrower to the liquidator
// and the protocol cut to the reserve holder. Reports whether the borrower's
// posted collateral was fully cleared.
func (s *liquidateService) settleCollateral(ctx context.Context, tx *db.DB, liquidator string, order *core.LiquidationOrder) (bool, error) {
	position, err := s.positionStore.Find(ctx, order.Account, order.CollateralToken)
	if err != nil {
		return false, err
	}

	position.Shares = position.Shares.Sub(order.SeizedTokens)
	position.CollateralPosted = position.CollateralPosted.Sub(order.SeizedTokens)
	if position.Shares.IsNegative() || position.CollateralPosted.IsNegative() {
		return false, core.ErrInvalidValue
	}
	if err := s.positionStore.Update(ctx, tx, position, position.Version+1); err != nil {
		return false, err
	}

	if err := s.creditShares(ctx, tx, liquidator, order.CollateralToken, order.LiquidatorTokens()); err != nil {
		return false, err
	}

	// the protocol cut is parked on a reserve position held by the manager
	if err := s.creditShares(ctx, tx, s.system.ManagerID, order.CollateralToken, order.ProtocolFee); err != nil {
		return false, err
	}

	return !position.CollateralPosted.IsPositive(), nil
}

func (s *liquidateService) creditShares(ctx context.Context, tx *db.DB, account, tokenAddress string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return nil
	}

	position, err := s.positionStore.Find(ctx, account, tokenAddress)
	if err != nil {
		return err
	}

	if position.ID == 0 {
		position.Account = account
		position.TokenAddress = tokenAddress
		position.Shares = amount
		return s.positionStore.Save(ctx, tx, position)
	}

	position.Shares = position.Shares.Add(amount)
	return s.positionStore.Update(ctx, tx, position, position.Version+1)
}

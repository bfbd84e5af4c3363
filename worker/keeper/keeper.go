package keeper

import (
	"context"
	"time"

	"curvance/core"
	"curvance/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

// Keeper scans for accounts past the soft liquidation threshold and settles
// them on behalf of the protocol keeper identity.
type Keeper struct {
	worker.TickWorker
	system        *core.System
	tokenStore    core.IMarketTokenStore
	positionStore core.IPositionStore
	accountSrv    core.IAccountService
	tokenService  core.IMarketTokenService
	liquidateSrv  core.ILiquidationService
}

// New new keeper worker
func New(
	system *core.System,
	tokenStore core.IMarketTokenStore,
	positionStore core.IPositionStore,
	accountSrv core.IAccountService,
	tokenService core.IMarketTokenService,
	liquidateSrv core.ILiquidationService,
) *Keeper {
	return &Keeper{
		TickWorker: worker.TickWorker{
			Delay: 10 * time.Second,
		},
		system:        system,
		tokenStore:    tokenStore,
		positionStore: positionStore,
		accountSrv:    accountSrv,
		tokenService:  tokenService,
		liquidateSrv:  liquidateSrv,
	}
}

// Run run worker
func (w *Keeper) Run(ctx context.Context) error {
	return w.StartTick(ctx, func(ctx context.Context) error {
		return w.onWork(ctx)
	})
}

func (w *Keeper) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "keeper")

	accounts, err := w.accountSrv.LiquidatableAccounts(ctx)
	if err != nil {
		log.WithError(err).Errorln("scan liquidatable accounts")
		return err
	}

	for _, account := range accounts {
		if err := w.liquidate(ctx, account); err != nil {
			log.WithError(err).WithField("account", account).Errorln("keeper liquidation")
		}
	}

	return nil
}

// liquidate settles one account: the largest debt position against the
// largest posted collateral, sized by the close factor
func (w *Keeper) liquidate(ctx context.Context, account string) error {
	tokens, err := w.tokenStore.AllAsMap(ctx)
	if err != nil {
		return err
	}

	positions, err := w.positionStore.FindByAccount(ctx, account)
	if err != nil {
		return err
	}

	var (
		debtToken       string
		collateralToken string
		maxDebt         decimal.Decimal
		maxPosted       decimal.Decimal
	)

	for _, position := range positions {
		token, ok := tokens[position.TokenAddress]
		if !ok || !token.Listed {
			continue
		}

		if token.IsCToken {
			if position.CollateralPosted.GreaterThan(maxPosted) {
				collateralToken, maxPosted = token.Address, position.CollateralPosted
			}
			continue
		}

		balance := w.tokenService.DebtBalance(ctx, position, token)
		if balance.GreaterThan(maxDebt) {
			debtToken, maxDebt = token.Address, balance
		}
	}

	if debtToken == "" || collateralToken == "" {
		return nil
	}

	order, err := w.liquidateSrv.Liquidate(ctx, w.system.ManagerID, debtToken, collateralToken, account, decimal.Zero, false)
	if err != nil {
		return err
	}

	logger.FromContext(ctx).WithField("worker", "keeper").
		WithField("account", account).
		WithField("repay", order.Repay).
		WithField("seized", order.SeizedTokens).
		Infoln("liquidated")

	return nil
}

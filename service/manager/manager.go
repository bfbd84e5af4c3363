package manager

import (
	"context"
	"sync/atomic"

	"curvance/core"
	"curvance/pkg/id"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// property keys of globally scoped risk policy
const (
	PropertyCloseFactor          = "curvance_close_factor"
	PropertyLiquidationIncentive = "curvance_liquidation_incentive"
	PropertyPositionFolding      = "curvance_position_folding"
	propertyPausePrefix          = "curvance_pause_"
)

type managerService struct {
	system        *core.System
	db            *db.DB
	propertyStore property.Store
	tokenStore    core.IMarketTokenStore
	positionStore core.IPositionStore
	accountStore  core.IAccountStore
	eventStore    core.IEventStore
	tokenService  core.IMarketTokenService
	accountSrv    core.IAccountService
	oracle        core.IOracleRouter
	gauge         core.IGaugePool

	// re-entry flag around flows that cross into less trusted code
	entered int32
}

// New new market manager
func New(
	system *core.System,
	database *db.DB,
	propertyStore property.Store,
	tokenStore core.IMarketTokenStore,
	positionStore core.IPositionStore,
	accountStore core.IAccountStore,
	eventStore core.IEventStore,
	tokenService core.IMarketTokenService,
	accountSrv core.IAccountService,
	oracle core.IOracleRouter,
	gauge core.IGaugePool,
) core.IMarketManager {
	return &managerService{
		system:        system,
		db:            database,
		propertyStore: propertyStore,
		tokenStore:    tokenStore,
		positionStore: positionStore,
		accountStore:  accountStore,
		eventStore:    eventStore,
		tokenService:  tokenService,
		accountSrv:    accountSrv,
		oracle:        oracle,
		gauge:         gauge,
	}
}

func (s *managerService) enter() error {
	if !atomic.CompareAndSwapInt32(&s.entered, 0, 1) {
		return core.ErrReentrantCall
	}

	return nil
}

func (s *managerService) leave() {
	atomic.StoreInt32(&s.entered, 0)
}

// ListToken admin-only one-time listing. A fresh listing carries a zero-risk
// record, so it contributes no borrowing power until configured.
func (s *managerService) ListToken(ctx context.Context, caller, tokenAddress string) error {
	if !s.system.IsAdmin(caller) {
		return core.ErrUnauthorized
	}

	token, err := s.tokenStore.Find(ctx, tokenAddress)
	if err != nil {
		return err
	}

	if token.Listed {
		return core.ErrTokenAlreadyListed
	}

	if err := s.tokenService.ProbeMint(ctx, token); err != nil {
		return err
	}

	token.Listed = true
	token.ManagerID = s.system.ManagerID
	token.ApplyRiskParams(core.RiskParams{})
	token.CollateralCap = decimal.Zero
	token.BorrowCap = decimal.Zero

	if err := s.tokenStore.Update(ctx, s.db, token, token.Version+1); err != nil {
		return err
	}

	s.emit(ctx, core.EventMarketListed, tokenAddress, "", map[string]interface{}{
		"is_ctoken": token.IsCToken,
		"symbol":    token.Symbol,
	})

	return nil
}

func (s *managerService) EnterMarkets(ctx context.Context, account string, tokenAddresses []string) error {
	if len(tokenAddresses) == 0 {
		return core.ErrInvalidParameter
	}

	for _, tokenAddress := range tokenAddresses {
		token, err := s.tokenStore.Find(ctx, tokenAddress)
		if err != nil {
			return err
		}

		// unlisted entries are skipped, the real gate sits at borrow and
		// post-collateral time
		if token.ID == 0 || !token.Listed {
			continue
		}

		if err := s.enterMarket(ctx, account, tokenAddress); err != nil {
			return err
		}
	}

	return nil
}

func (s *managerService) enterMarket(ctx context.Context, account, tokenAddress string) error {
	entered, err := s.accountStore.IsEntered(ctx, account, tokenAddress)
	if err != nil {
		return err
	}

	if entered {
		return nil
	}

	if err := s.accountStore.EnterMarket(ctx, account, tokenAddress); err != nil {
		return err
	}

	if err := s.gauge.PositionChanged(ctx, tokenAddress, account, true); err != nil {
		logger.FromContext(ctx).WithError(err).Warningln("gauge position signal failed")
	}

	s.emit(ctx, core.EventMarketEntered, tokenAddress, account, nil)
	return nil
}

func (s *managerService) ExitMarket(ctx context.Context, account, tokenAddress string) error {
	token, err := s.tokenStore.Find(ctx, tokenAddress)
	if err != nil {
		return err
	}

	if token.ID == 0 || !token.Listed {
		return core.ErrTokenNotListed
	}

	if !token.IsCToken {
		hasDebt, err := s.accountSrv.HasDebt(ctx, account, tokenAddress)
		if err != nil {
			return err
		}

		if hasDebt {
			return core.ErrHasActiveLoan
		}
	}

	if err := s.accountStore.ExitMarket(ctx, account, tokenAddress); err != nil {
		return err
	}

	if err := s.gauge.PositionChanged(ctx, tokenAddress, account, false); err != nil {
		logger.FromContext(ctx).WithError(err).Warningln("gauge position signal failed")
	}

	s.emit(ctx, core.EventMarketExited, tokenAddress, account, nil)
	return nil
}

// requireListed listed token lookup
func (s *managerService) requireListed(ctx context.Context, tokenAddress string) (*core.MarketToken, error) {
	token, err := s.tokenStore.Find(ctx, tokenAddress)
	if err != nil {
		return nil, err
	}

	if token.ID == 0 || !token.Listed {
		return nil, core.ErrTokenNotListed
	}

	return token, nil
}

// checkPaused an action proceeds only when neither the global flag nor the
// token flag is in the paused state
func (s *managerService) checkPaused(ctx context.Context, token *core.MarketToken, action core.Action) error {
	if s.globalPause(ctx, action) == core.PauseStatePaused {
		return core.ErrPaused
	}

	if token.PauseOf(action) == core.PauseStatePaused {
		return core.ErrPaused
	}

	return nil
}

func (s *managerService) globalPause(ctx context.Context, action core.Action) core.PauseState {
	v, err := s.propertyStore.Get(ctx, propertyPausePrefix+string(action))
	if err != nil {
		return core.PauseStateUnset
	}

	return core.PauseState(cast.ToInt(v.String()))
}

// authorize a gate call: the token contract itself, the position folding
// contract, the account on its own behalf, or anyone for an account that is
// already tracked. Third parties cannot opt an untracked account in.
func (s *managerService) authorize(ctx context.Context, caller string, token *core.MarketToken, account string) error {
	if caller == token.Address || caller == account {
		return nil
	}

	if folding := s.positionFolding(ctx); folding != "" && caller == folding {
		return nil
	}

	entered, err := s.accountStore.IsEntered(ctx, account, token.Address)
	if err != nil {
		return err
	}

	if !entered {
		return core.ErrUnauthorized
	}

	return nil
}

func (s *managerService) positionFolding(ctx context.Context) string {
	v, err := s.propertyStore.Get(ctx, PropertyPositionFolding)
	if err != nil {
		return ""
	}

	return v.String()
}

func (s *managerService) emit(ctx context.Context, eventType, tokenAddress, account string, data interface{}) {
	event := &core.Event{
		TraceID:      id.GenTraceID(),
		Type:         eventType,
		TokenAddress: tokenAddress,
		Account:      account,
	}
	event.SetData(data)

	if err := s.eventStore.Create(ctx, s.db, event); err != nil {
		logger.FromContext(ctx).WithError(err).
			WithField("event", eventType).
			Errorln("events.Create")
	}

	logger.FromContext(ctx).
		WithField("event", eventType).
		WithField("token", tokenAddress).
		WithField("account", account).
		Infoln(event.Data)
}

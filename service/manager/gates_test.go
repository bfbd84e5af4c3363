package manager

import (
	"context"
	"testing"
	"time"

	"curvance/core"
	"curvance/pkg/curvance"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanBorrowSolvency(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.addCToken("ctoken-1", "btc")
	env.addDToken("dtoken-1", "usd")
	env.oracle.set("btc", "1")
	env.oracle.set("usd", "1")

	// 100 posted at price 1 and ratio 0.8 backs exactly 80 of debt
	env.postCollateral("alice", "ctoken-1", "100", "100")

	require.Nil(t, env.manager.CanBorrow(ctx, "alice", "dtoken-1", "alice", mustDecimal("80")))
	assert.Equal(t, core.ErrInsufficientLiquidity,
		env.manager.CanBorrow(ctx, "alice", "dtoken-1", "alice", mustDecimal("80.000000000000000001")))

	// borrowing against a collateral token is malformed
	assert.Equal(t, core.ErrInvalidParameter,
		env.manager.CanBorrow(ctx, "alice", "ctoken-1", "alice", mustDecimal("1")))
}

func TestCanBorrowRegistersMembership(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.addDToken("dtoken-1", "usd")
	env.oracle.set("usd", "1")

	// even a zero-amount borrow tracks the account in the market
	require.Nil(t, env.manager.CanBorrow(ctx, "alice", "dtoken-1", "alice", mustDecimal("0")))

	entered, err := env.accountStore.IsEntered(ctx, "alice", "dtoken-1")
	require.Nil(t, err)
	assert.True(t, entered)
}

func TestCanBorrowCap(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.addCToken("ctoken-1", "btc")
	token := env.addDToken("dtoken-1", "usd")
	env.oracle.set("btc", "1")
	env.oracle.set("usd", "1")

	token.BorrowCap = mustDecimal("50")
	require.Nil(t, env.tokenStore.Update(ctx, nil, token, token.Version+1))

	env.postCollateral("alice", "ctoken-1", "1000", "1000")

	require.Nil(t, env.manager.CanBorrow(ctx, "alice", "dtoken-1", "alice", mustDecimal("50")))
	assert.Equal(t, core.ErrBorrowCapReached,
		env.manager.CanBorrow(ctx, "alice", "dtoken-1", "alice", mustDecimal("50.01")))
}

func TestCanBorrowWithNotifyArmsCooldown(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.addCToken("ctoken-1", "btc")
	env.addDToken("dtoken-1", "usd")
	env.oracle.set("btc", "1")
	env.oracle.set("usd", "1")
	env.postCollateral("alice", "ctoken-1", "100", "100")

	require.Nil(t, env.manager.CanBorrowWithNotify(ctx, "alice", "dtoken-1", "alice", mustDecimal("10")))

	account, err := env.accountStore.Find(ctx, "alice")
	require.Nil(t, err)
	assert.False(t, account.CooldownTimestamp.IsZero())

	// redeeming right after a borrow trips the hold period
	assert.Equal(t, core.ErrMinimumHoldPeriod,
		env.manager.CanRedeem(ctx, "alice", "ctoken-1", "alice", mustDecimal("1")))
	assert.Equal(t, core.ErrMinimumHoldPeriod,
		env.manager.CanRepay(ctx, "dtoken-1", "alice"))
}

func TestHoldPeriodBoundary(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.addCToken("ctoken-1", "btc")
	env.oracle.set("btc", "1")
	env.postCollateral("alice", "ctoken-1", "100", "100")

	account, err := env.accountStore.FindOrCreate(ctx, "alice")
	require.Nil(t, err)

	// one second short of the hold period still fails
	account.CooldownTimestamp = time.Now().Add(-curvance.MinHoldPeriod + time.Second)
	require.Nil(t, env.accountStore.Update(ctx, nil, account, account.Version+1))
	assert.Equal(t, core.ErrMinimumHoldPeriod,
		env.manager.CanRedeem(ctx, "alice", "ctoken-1", "alice", mustDecimal("1")))

	// at the boundary the hold period has elapsed
	account.CooldownTimestamp = time.Now().Add(-curvance.MinHoldPeriod)
	require.Nil(t, env.accountStore.Update(ctx, nil, account, account.Version+1))
	assert.Nil(t, env.manager.CanRedeem(ctx, "alice", "ctoken-1", "alice", mustDecimal("1")))
}

func TestCanRedeemSolvency(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.addCToken("ctoken-1", "btc")
	env.addDToken("dtoken-1", "usd")
	env.oracle.set("btc", "1")
	env.oracle.set("usd", "1")

	env.postCollateral("alice", "ctoken-1", "100", "100")
	env.borrow("alice", "dtoken-1", "40")

	// power 80, debt 40: up to 50 of collateral may leave
	require.Nil(t, env.manager.CanRedeem(ctx, "alice", "ctoken-1", "alice", mustDecimal("50")))
	assert.Equal(t, core.ErrInsufficientLiquidity,
		env.manager.CanRedeem(ctx, "alice", "ctoken-1", "alice", mustDecimal("51")))

	// debt tokens redeem freely
	assert.Nil(t, env.manager.CanRedeem(ctx, "alice", "dtoken-1", "alice", mustDecimal("1000")))
}

func TestCanPostCollateralCap(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	token := env.addCToken("ctoken-1", "btc")
	env.oracle.set("btc", "1")

	token.CollateralCap = mustDecimal("150")
	require.Nil(t, env.tokenStore.Update(ctx, nil, token, token.Version+1))

	env.postCollateral("alice", "ctoken-1", "100", "100")

	require.Nil(t, env.manager.CanPostCollateral(ctx, "bob", "ctoken-1", "bob", mustDecimal("50")))
	assert.Equal(t, core.ErrCollateralCapReached,
		env.manager.CanPostCollateral(ctx, "bob", "ctoken-1", "bob", mustDecimal("50.01")))

	// posting tracks the account in the market
	entered, _ := env.accountStore.IsEntered(ctx, "bob", "ctoken-1")
	assert.True(t, entered)
}

func TestActionPause(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.addCToken("ctoken-1", "btc")
	env.addDToken("dtoken-1", "usd")
	env.oracle.set("btc", "1")
	env.oracle.set("usd", "1")
	env.postCollateral("alice", "ctoken-1", "100", "100")

	assert.Equal(t, core.ErrUnauthorized,
		env.manager.SetActionPaused(ctx, "somebody", "dtoken-1", core.ActionBorrow, true))

	require.Nil(t, env.manager.SetActionPaused(ctx, "admin", "dtoken-1", core.ActionBorrow, true))
	assert.Equal(t, core.ErrPaused,
		env.manager.CanBorrow(ctx, "alice", "dtoken-1", "alice", mustDecimal("1")))

	require.Nil(t, env.manager.SetActionPaused(ctx, "admin", "dtoken-1", core.ActionBorrow, false))
	assert.Nil(t, env.manager.CanBorrow(ctx, "alice", "dtoken-1", "alice", mustDecimal("1")))

	assert.Equal(t, 2, env.eventStore.typeCount(core.EventActionPaused))
}

func TestCanSeize(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.addCToken("ctoken-1", "btc")
	env.addDToken("dtoken-1", "usd")

	require.Nil(t, env.manager.CanSeize(ctx, "ctoken-1", "dtoken-1"))

	// swapped kinds are malformed
	assert.Equal(t, core.ErrInvalidParameter, env.manager.CanSeize(ctx, "dtoken-1", "ctoken-1"))

	// a token bound to another manager cannot be seized against
	foreign := env.addDToken("dtoken-2", "eur")
	foreign.ManagerID = "other-manager"
	require.Nil(t, env.tokenStore.Update(ctx, nil, foreign, foreign.Version+1))
	assert.Equal(t, core.ErrManagerMismatch, env.manager.CanSeize(ctx, "ctoken-1", "dtoken-2"))
}

func TestCanTransfer(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.addCToken("ctoken-1", "btc")
	env.addDToken("dtoken-1", "usd")
	env.oracle.set("btc", "1")
	env.oracle.set("usd", "1")

	env.postCollateral("alice", "ctoken-1", "100", "100")
	env.borrow("alice", "dtoken-1", "40")

	require.Nil(t, env.manager.CanTransfer(ctx, "alice", "ctoken-1", "alice", mustDecimal("50")))
	assert.Equal(t, core.ErrInsufficientLiquidity,
		env.manager.CanTransfer(ctx, "alice", "ctoken-1", "alice", mustDecimal("51")))
}

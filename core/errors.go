package core

import "strconv"

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unknown
	ErrUnknown ErrorCode = 100000
	// ErrUnauthorized caller is neither the token contract nor an account with standing
	ErrUnauthorized ErrorCode = 100001
	// ErrReentrantCall recursive entry into a guarded flow
	ErrReentrantCall ErrorCode = 100002

	// ErrTokenNotListed token not listed in the market manager
	ErrTokenNotListed ErrorCode = 100100
	// ErrTokenAlreadyListed token already listed
	ErrTokenAlreadyListed ErrorCode = 100101
	// ErrManagerMismatch tokens belong to different market managers
	ErrManagerMismatch ErrorCode = 100102

	// ErrPaused action paused globally or for the token
	ErrPaused ErrorCode = 100200
	// ErrBorrowCapReached aggregate borrows over the token borrow cap
	ErrBorrowCapReached ErrorCode = 100201
	// ErrCollateralCapReached posted collateral over the token collateral cap
	ErrCollateralCapReached ErrorCode = 100202
	// ErrInsufficientLiquidity operation would leave the account under-collateralized
	ErrInsufficientLiquidity ErrorCode = 100203
	// ErrNoLiquidationAvailable account is not past the liquidation threshold
	ErrNoLiquidationAvailable ErrorCode = 100204
	// ErrHasActiveLoan debt outstanding blocks market exit
	ErrHasActiveLoan ErrorCode = 100205
	// ErrMinimumHoldPeriod action attempted before the borrow hold period elapsed
	ErrMinimumHoldPeriod ErrorCode = 100206

	// ErrInvalidParameter caller-supplied arguments violate documented invariants
	ErrInvalidParameter ErrorCode = 100300
	// ErrInvalidValue invalid value
	ErrInvalidValue ErrorCode = 100301

	// ErrPriceError oracle could not supply a trustworthy price
	ErrPriceError ErrorCode = 100400
)

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	return e.String()
}

package codes

import (
	"strconv"

	"curvance/core"

	"github.com/twitchtv/twirp"
)

// CustomCodeKey meta key carrying the internal error code on twirp errors
const CustomCodeKey = "custom_code"

// With attach the internal error code to a twirp error
func With(err error, code core.ErrorCode) error {
	twerr, ok := err.(twirp.Error)
	if !ok {
		twerr = twirp.InternalErrorWith(err)
	}

	return twerr.WithMeta(CustomCodeKey, strconv.Itoa(int(code)))
}

// Twirp maps an internal error code onto the closest twirp error class
func Twirp(code core.ErrorCode) twirp.ErrorCode {
	switch code {
	case core.ErrUnauthorized:
		return twirp.PermissionDenied
	case core.ErrTokenNotListed, core.ErrNoLiquidationAvailable:
		return twirp.NotFound
	case core.ErrTokenAlreadyListed:
		return twirp.AlreadyExists
	case core.ErrInvalidParameter, core.ErrInvalidValue:
		return twirp.InvalidArgument
	case core.ErrPaused, core.ErrMinimumHoldPeriod, core.ErrReentrantCall:
		return twirp.FailedPrecondition
	case core.ErrBorrowCapReached, core.ErrCollateralCapReached:
		return twirp.ResourceExhausted
	case core.ErrInsufficientLiquidity, core.ErrHasActiveLoan, core.ErrManagerMismatch:
		return twirp.FailedPrecondition
	case core.ErrPriceError:
		return twirp.Unavailable
	default:
		return twirp.Internal
	}
}

// HTTPStatus HTTP status of an internal error code
func HTTPStatus(code core.ErrorCode) int {
	return twirp.ServerHTTPStatusFromErrorCode(Twirp(code))
}

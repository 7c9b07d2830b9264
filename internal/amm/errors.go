package amm

import "errors"

// Sentinel errors returned by pool operations. Callers match them with
// errors.Is; wrapping adds operation context.
var (
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
	ErrInsufficientShares    = errors.New("insufficient shares")
	ErrInvalidReserves       = errors.New("invalid reserves")
	ErrArithmeticOverflow    = errors.New("arithmetic overflow")
	ErrTransferFailure       = errors.New("transfer failure")
	ErrIdenticalAssets       = errors.New("identical assets")
	ErrPoolExists            = errors.New("pool already exists")
	ErrPoolNotFound          = errors.New("pool not found")
)

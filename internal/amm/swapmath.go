package amm

import (
	"fmt"

	"cosmossdk.io/math"
)

// Swap fee retained by the pool: 0.3% (997/1000 of the input trades).
var (
	feeNumerator   = math.NewInt(997)
	feeDenominator = math.NewInt(1000)
)

// Quote returns the constant-product output for amountIn against the given
// reserves, with the 997/1000 fee applied to the input:
//
//	out = floor(amountIn*997*reserveOut / (reserveIn*1000 + amountIn*997))
//
// Pure function; it reads nothing but its arguments and mutates nothing.
func Quote(amountIn, reserveIn, reserveOut math.Int) (math.Int, error) {
	if amountIn.IsNil() || !amountIn.IsPositive() {
		return math.Int{}, fmt.Errorf("quote input must be positive: %w", ErrInvalidAmount)
	}
	if reserveIn.IsNil() || reserveOut.IsNil() || !reserveIn.IsPositive() || !reserveOut.IsPositive() {
		return math.Int{}, fmt.Errorf("quote requires funded reserves: %w", ErrInvalidReserves)
	}

	amountInWithFee, err := safeMul(amountIn, feeNumerator)
	if err != nil {
		return math.Int{}, err
	}
	scaledReserveIn, err := safeMul(reserveIn, feeDenominator)
	if err != nil {
		return math.Int{}, err
	}
	denominator, err := safeAdd(scaledReserveIn, amountInWithFee)
	if err != nil {
		return math.Int{}, err
	}
	return safeMulDiv(amountInWithFee, reserveOut, denominator)
}

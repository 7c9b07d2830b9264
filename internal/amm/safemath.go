package amm

import (
	"fmt"
	"math/big"

	"cosmossdk.io/math"
)

// maxIntValue is the 2^256 bound enforced by math.Int. Arithmetic goes
// through big.Int so an out-of-range result surfaces as an error instead
// of a panic inside math.Int.
var maxIntValue = new(big.Int).Exp(big.NewInt(2), big.NewInt(256), nil)

func safeAdd(a, b math.Int) (math.Int, error) {
	result := new(big.Int).Add(a.BigInt(), b.BigInt())
	if result.CmpAbs(maxIntValue) >= 0 {
		return math.Int{}, fmt.Errorf("add %s + %s: %w", a, b, ErrArithmeticOverflow)
	}
	return math.NewIntFromBigInt(result), nil
}

func safeSub(a, b math.Int) (math.Int, error) {
	if a.LT(b) {
		return math.Int{}, fmt.Errorf("sub %s - %s underflows: %w", a, b, ErrArithmeticOverflow)
	}
	return a.Sub(b), nil
}

func safeMul(a, b math.Int) (math.Int, error) {
	result := new(big.Int).Mul(a.BigInt(), b.BigInt())
	if result.CmpAbs(maxIntValue) >= 0 {
		return math.Int{}, fmt.Errorf("mul %s * %s: %w", a, b, ErrArithmeticOverflow)
	}
	return math.NewIntFromBigInt(result), nil
}

// safeMulDiv computes floor((a * b) / c). The intermediate product is held
// in a big.Int, so only the final quotient is subject to the 256-bit bound.
func safeMulDiv(a, b, c math.Int) (math.Int, error) {
	if c.IsZero() {
		return math.Int{}, fmt.Errorf("division by zero: %w", ErrArithmeticOverflow)
	}
	product := new(big.Int).Mul(a.BigInt(), b.BigInt())
	result := product.Quo(product, c.BigInt())
	if result.CmpAbs(maxIntValue) >= 0 {
		return math.Int{}, fmt.Errorf("muldiv %s * %s / %s: %w", a, b, c, ErrArithmeticOverflow)
	}
	return math.NewIntFromBigInt(result), nil
}

// intSqrt returns floor(sqrt(value)); value must be non-negative.
func intSqrt(value math.Int) math.Int {
	return math.NewIntFromBigInt(new(big.Int).Sqrt(value.BigInt()))
}

package amm

import (
	"errors"
	"math/big"
	"testing"

	"cosmossdk.io/math"
)

func bigPow2(exp uint) math.Int {
	return math.NewIntFromBigInt(new(big.Int).Lsh(big.NewInt(1), exp))
}

func TestSafeAddOverflow(t *testing.T) {
	almost := bigPow2(255)
	if _, err := safeAdd(almost, almost); !errors.Is(err, ErrArithmeticOverflow) {
		t.Fatalf("error mismatch: got %v, want %v", err, ErrArithmeticOverflow)
	}

	sum, err := safeAdd(math.NewInt(2), math.NewInt(3))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !sum.Equal(math.NewInt(5)) {
		t.Fatalf("sum mismatch: got %s, want 5", sum)
	}
}

func TestSafeSubUnderflow(t *testing.T) {
	if _, err := safeSub(math.NewInt(1), math.NewInt(2)); !errors.Is(err, ErrArithmeticOverflow) {
		t.Fatalf("error mismatch: got %v, want %v", err, ErrArithmeticOverflow)
	}
}

func TestSafeMulOverflow(t *testing.T) {
	if _, err := safeMul(bigPow2(130), bigPow2(130)); !errors.Is(err, ErrArithmeticOverflow) {
		t.Fatalf("error mismatch: got %v, want %v", err, ErrArithmeticOverflow)
	}
}

func TestSafeMulDiv(t *testing.T) {
	// floor(7 * 10 / 3) = 23
	got, err := safeMulDiv(math.NewInt(7), math.NewInt(10), math.NewInt(3))
	if err != nil {
		t.Fatalf("muldiv: %v", err)
	}
	if !got.Equal(math.NewInt(23)) {
		t.Fatalf("result mismatch: got %s, want 23", got)
	}
}

func TestSafeMulDivIntermediateExceedsBound(t *testing.T) {
	// The product overflows 256 bits but the quotient does not.
	huge := bigPow2(200)
	got, err := safeMulDiv(huge, huge, huge)
	if err != nil {
		t.Fatalf("muldiv: %v", err)
	}
	if !got.Equal(huge) {
		t.Fatalf("result mismatch: got %s, want %s", got, huge)
	}
}

func TestSafeMulDivZeroDenominator(t *testing.T) {
	if _, err := safeMulDiv(math.NewInt(1), math.NewInt(1), math.ZeroInt()); !errors.Is(err, ErrArithmeticOverflow) {
		t.Fatalf("error mismatch: got %v, want %v", err, ErrArithmeticOverflow)
	}
}

func TestIntSqrt(t *testing.T) {
	tests := []struct {
		value int64
		want  int64
	}{
		{0, 0},
		{1, 1},
		{6, 2},
		{10000, 100},
		{20000, 141},
	}
	for _, tt := range tests {
		if got := intSqrt(math.NewInt(tt.value)); !got.Equal(math.NewInt(tt.want)) {
			t.Fatalf("sqrt(%d) mismatch: got %s, want %d", tt.value, got, tt.want)
		}
	}
}

package amm

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
)

// Direction selects which asset a swap feeds into the pool.
type Direction uint8

const (
	AToB Direction = iota
	BToA
)

func (d Direction) String() string {
	switch d {
	case AToB:
		return "a_to_b"
	case BToA:
		return "b_to_a"
	default:
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
}

// ParseDirection converts the wire form ("a_to_b" / "b_to_a") into a
// Direction.
func ParseDirection(input string) (Direction, error) {
	switch input {
	case "a_to_b":
		return AToB, nil
	case "b_to_a":
		return BToA, nil
	default:
		return 0, fmt.Errorf("invalid swap direction: %q", input)
	}
}

// ExecuteSwap trades amountIn of the input asset for the output asset. The
// quote is taken against the reserves as they stood before this swap's
// reserve update; the input reserve grows by the full amountIn, so the 0.3%
// fee stays in the pool and the reserve product never decreases.
func (p *Pool) ExecuteSwap(ctx context.Context, trader common.Address, amountIn math.Int, direction Direction) (math.Int, error) {
	if amountIn.IsNil() || !amountIn.IsPositive() {
		return math.Int{}, fmt.Errorf("swap input must be positive: %w", ErrInvalidAmount)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var assetIn, assetOut common.Address
	var reserveIn, reserveOut math.Int
	switch direction {
	case AToB:
		assetIn, assetOut = p.assetA, p.assetB
		reserveIn, reserveOut = p.reserveA, p.reserveB
	case BToA:
		assetIn, assetOut = p.assetB, p.assetA
		reserveIn, reserveOut = p.reserveB, p.reserveA
	default:
		return math.Int{}, fmt.Errorf("invalid swap direction %d: %w", direction, ErrInvalidAmount)
	}

	amountOut, err := Quote(amountIn, reserveIn, reserveOut)
	if err != nil {
		return math.Int{}, err
	}
	// The formula's denominator keeps amountOut below reserveOut; the
	// explicit check stays as the underflow safety net.
	if amountOut.GTE(reserveOut) {
		return math.Int{}, fmt.Errorf("output %s would drain reserve %s: %w", amountOut, reserveOut, ErrInsufficientLiquidity)
	}

	newReserveIn, err := safeAdd(reserveIn, amountIn)
	if err != nil {
		return math.Int{}, err
	}
	newReserveOut, err := safeSub(reserveOut, amountOut)
	if err != nil {
		return math.Int{}, err
	}

	if err := p.ledger.Pull(ctx, assetIn, trader, amountIn); err != nil {
		return math.Int{}, fmt.Errorf("pull %s: %v: %w", assetIn, err, ErrTransferFailure)
	}
	if err := p.ledger.Push(ctx, assetOut, trader, amountOut); err != nil {
		if refundErr := p.ledger.Push(ctx, assetIn, trader, amountIn); refundErr != nil {
			return math.Int{}, fmt.Errorf("push %s: %v; refund %s also failed: %v: %w",
				assetOut, err, assetIn, refundErr, ErrTransferFailure)
		}
		return math.Int{}, fmt.Errorf("push %s: %v: %w", assetOut, err, ErrTransferFailure)
	}

	if direction == AToB {
		p.reserveA = newReserveIn
		p.reserveB = newReserveOut
	} else {
		p.reserveB = newReserveIn
		p.reserveA = newReserveOut
	}

	p.emitter.Emit(Swap{
		Trader:    trader,
		AssetIn:   assetIn,
		AssetOut:  assetOut,
		AmountIn:  amountIn,
		AmountOut: amountOut,
	})
	return amountOut, nil
}

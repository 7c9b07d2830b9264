package replay

import (
	"context"
	"fmt"

	"cosmossdk.io/math"

	"dexamm/internal/amm"
	"dexamm/internal/model"
)

// applyOperation dispatches one operation record to the engine. It returns
// the pool the operation touched so events can be decorated with its state.
func (r *Runner) applyOperation(ctx context.Context, record model.OperationRecord) (*amm.Pool, error) {
	assetA, err := parseAddress(record.AssetA)
	if err != nil {
		return nil, fmt.Errorf("asset_a: %w", err)
	}
	assetB, err := parseAddress(record.AssetB)
	if err != nil {
		return nil, fmt.Errorf("asset_b: %w", err)
	}

	if record.Op == model.OpCreatePool {
		return r.registry.Create(assetA, assetB)
	}

	caller, err := parseAddress(record.Caller)
	if err != nil {
		return nil, fmt.Errorf("caller: %w", err)
	}
	pool, err := r.registry.Get(assetA, assetB)
	if err != nil {
		return nil, err
	}

	switch record.Op {
	case model.OpAddLiquidity:
		amountA, err := parseAmount(record.AmountA, "amount_a")
		if err != nil {
			return nil, err
		}
		amountB, err := parseAmount(record.AmountB, "amount_b")
		if err != nil {
			return nil, err
		}
		_, err = pool.AddLiquidity(ctx, caller, amountA, amountB)
		return pool, err

	case model.OpRemoveLiquidity:
		shares, err := parseAmount(record.Shares, "shares")
		if err != nil {
			return nil, err
		}
		_, _, err = pool.RemoveLiquidity(ctx, caller, shares)
		return pool, err

	case model.OpSwap:
		amountIn, err := parseAmount(record.AmountIn, "amount_in")
		if err != nil {
			return nil, err
		}
		direction, err := amm.ParseDirection(record.Direction)
		if err != nil {
			return nil, err
		}
		_, err = pool.ExecuteSwap(ctx, caller, amountIn, direction)
		return pool, err

	default:
		return nil, fmt.Errorf("unknown op: %q", record.Op)
	}
}

func parseAmount(input, field string) (math.Int, error) {
	amount, ok := math.NewIntFromString(input)
	if !ok {
		return math.Int{}, fmt.Errorf("invalid %s: %q", field, input)
	}
	return amount, nil
}

package stats

import (
	"fmt"
	"math/big"
	"strings"

	"dexamm/internal/model"
)

// Accumulator holds running totals for one pool.
type Accumulator struct {
	Pool         string
	AssetA       string
	AssetB       string
	SwapCount    uint64
	VolumeA      *big.Int
	VolumeB      *big.Int
	FeeA         *big.Int
	FeeB         *big.Int
	LastReserveA string
	LastReserveB string
	LastSeq      uint64
}

func NewAccumulator(record model.EventRecord) *Accumulator {
	return &Accumulator{
		Pool:         record.Pool,
		AssetA:       record.AssetA,
		AssetB:       record.AssetB,
		VolumeA:      big.NewInt(0),
		VolumeB:      big.NewInt(0),
		FeeA:         big.NewInt(0),
		FeeB:         big.NewInt(0),
		LastReserveA: record.ReserveA,
		LastReserveB: record.ReserveB,
		LastSeq:      record.Seq,
	}
}

// AddEvent folds one event into the totals. Every event refreshes the
// reserve snapshot; only swaps contribute volume and fees.
func (a *Accumulator) AddEvent(record model.EventRecord) error {
	if record.Seq >= a.LastSeq {
		a.LastSeq = record.Seq
		a.LastReserveA = record.ReserveA
		a.LastReserveB = record.ReserveB
	}

	if record.EventName != model.EventSwap {
		return nil
	}

	amountIn, err := parseBigInt(record.AmountIn)
	if err != nil {
		return fmt.Errorf("amount_in: %w", err)
	}
	fee := feeFromInput(amountIn)

	switch {
	case strings.EqualFold(record.AssetIn, a.AssetA):
		a.VolumeA.Add(a.VolumeA, amountIn)
		a.FeeA.Add(a.FeeA, fee)
	case strings.EqualFold(record.AssetIn, a.AssetB):
		a.VolumeB.Add(a.VolumeB, amountIn)
		a.FeeB.Add(a.FeeB, fee)
	default:
		return fmt.Errorf("swap asset_in %s matches neither pool asset", record.AssetIn)
	}

	a.SwapCount++
	return nil
}

// Stats converts the totals into their storage form.
func (a *Accumulator) Stats() model.PoolStats {
	return model.PoolStats{
		Pool:         a.Pool,
		AssetA:       a.AssetA,
		AssetB:       a.AssetB,
		SwapCount:    a.SwapCount,
		VolumeA:      a.VolumeA.String(),
		VolumeB:      a.VolumeB.String(),
		FeeA:         a.FeeA.String(),
		FeeB:         a.FeeB.String(),
		LastReserveA: a.LastReserveA,
		LastReserveB: a.LastReserveB,
		LastSeq:      a.LastSeq,
	}
}

func parseBigInt(value string) (*big.Int, error) {
	if value == "" {
		return big.NewInt(0), nil
	}
	parsed, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, fmt.Errorf("invalid int: %s", value)
	}
	return parsed, nil
}

// feeFromInput returns the pool's retained slice of a swap input:
// floor(amountIn * 3 / 1000).
func feeFromInput(amountIn *big.Int) *big.Int {
	fee := new(big.Int).Mul(amountIn, big.NewInt(3))
	return fee.Div(fee, big.NewInt(1000))
}

package replay

import (
	"time"

	"dexamm/internal/amm"
	"dexamm/internal/model"
)

// recorder captures events emitted during a single operation. The runner is
// single-threaded, so no locking is needed.
type recorder struct {
	events []amm.Event
}

func (r *recorder) Emit(event amm.Event) {
	r.events = append(r.events, event)
}

func (r *recorder) drain() []amm.Event {
	events := r.events
	r.events = nil
	return events
}

func buildEventRecord(pool *amm.Pool, seq uint64, event amm.Event, emittedAt time.Time) model.EventRecord {
	assetA, assetB := pool.Assets()
	reserveA, reserveB := pool.Reserves()

	record := model.EventRecord{
		Seq:       seq,
		Pool:      pool.ID(),
		EventName: event.Name(),
		AssetA:    assetA.Hex(),
		AssetB:    assetB.Hex(),
		ReserveA:  reserveA.String(),
		ReserveB:  reserveB.String(),
		EmittedAt: emittedAt.UTC().Format(time.RFC3339Nano),
	}

	switch typed := event.(type) {
	case amm.LiquidityAdded:
		record.Provider = typed.Provider.Hex()
		record.AmountA = typed.AmountA.String()
		record.AmountB = typed.AmountB.String()
		record.Shares = typed.SharesMinted.String()
	case amm.LiquidityRemoved:
		record.Provider = typed.Provider.Hex()
		record.AmountA = typed.AmountA.String()
		record.AmountB = typed.AmountB.String()
		record.Shares = typed.SharesBurned.String()
	case amm.Swap:
		record.Trader = typed.Trader.Hex()
		record.AssetIn = typed.AssetIn.Hex()
		record.AssetOut = typed.AssetOut.Hex()
		record.AmountIn = typed.AmountIn.String()
		record.AmountOut = typed.AmountOut.String()
	}

	return record
}

func buildPoolSnapshot(pool *amm.Pool, lastSeq uint64, updatedAt time.Time) model.PoolSnapshot {
	assetA, assetB := pool.Assets()
	reserveA, reserveB := pool.Reserves()

	return model.PoolSnapshot{
		Pool:        pool.ID(),
		AssetA:      assetA.Hex(),
		AssetB:      assetB.Hex(),
		ReserveA:    reserveA.String(),
		ReserveB:    reserveB.String(),
		TotalShares: pool.TotalShares().String(),
		LastSeq:     lastSeq,
		UpdatedAt:   updatedAt.UTC().Format(time.RFC3339Nano),
	}
}

package amm

import (
	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
)

// Event is a domain event produced by a successful pool mutation.
type Event interface {
	Name() string
}

// Emitter receives events after the owning operation has committed.
// Implementations must not call back into the pool.
type Emitter interface {
	Emit(event Event)
}

// LiquidityAdded is emitted when a provider mints shares.
type LiquidityAdded struct {
	Provider     common.Address
	AmountA      math.Int
	AmountB      math.Int
	SharesMinted math.Int
}

func (LiquidityAdded) Name() string { return "liquidity_added" }

// LiquidityRemoved is emitted when a provider burns shares.
type LiquidityRemoved struct {
	Provider     common.Address
	AmountA      math.Int
	AmountB      math.Int
	SharesBurned math.Int
}

func (LiquidityRemoved) Name() string { return "liquidity_removed" }

// Swap is emitted when a trade settles.
type Swap struct {
	Trader    common.Address
	AssetIn   common.Address
	AssetOut  common.Address
	AmountIn  math.Int
	AmountOut math.Int
}

func (Swap) Name() string { return "swap" }

type nopEmitter struct{}

func (nopEmitter) Emit(Event) {}

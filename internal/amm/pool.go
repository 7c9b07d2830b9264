package amm

import (
	"fmt"
	"strings"
	"sync"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
)

// Pool holds the reserves of a fixed asset pair, the total share count, and
// the per-holder share ledger. It is the single source of truth for one
// pair; every mutation runs under the write lock, so concurrent operations
// serialize into a total order and queries never observe a torn state.
//
// Mutating operations compute and run all fallible ledger calls first and
// publish state only after the last external call succeeds, so a failure at
// any point leaves the pool untouched.
type Pool struct {
	assetA common.Address
	assetB common.Address

	ledger  AssetLedger
	emitter Emitter

	mu          sync.RWMutex
	reserveA    math.Int
	reserveB    math.Int
	totalShares math.Int
	shares      map[common.Address]math.Int
}

// NewPool creates an empty pool for the given asset pair. The emitter may
// be nil, in which case events are dropped.
func NewPool(assetA, assetB common.Address, ledger AssetLedger, emitter Emitter) (*Pool, error) {
	if assetA == assetB {
		return nil, fmt.Errorf("pool assets must differ: %w", ErrIdenticalAssets)
	}
	if ledger == nil {
		return nil, fmt.Errorf("asset ledger is required")
	}
	if emitter == nil {
		emitter = nopEmitter{}
	}
	return &Pool{
		assetA:      assetA,
		assetB:      assetB,
		ledger:      ledger,
		emitter:     emitter,
		reserveA:    math.ZeroInt(),
		reserveB:    math.ZeroInt(),
		totalShares: math.ZeroInt(),
		shares:      make(map[common.Address]math.Int),
	}, nil
}

// Assets returns the fixed asset pair in creation order.
func (p *Pool) Assets() (common.Address, common.Address) {
	return p.assetA, p.assetB
}

// ID is a stable identifier for the pool, derived from its asset pair.
func (p *Pool) ID() string {
	return PairID(p.assetA, p.assetB)
}

// PairID returns the canonical identifier for an asset pair, independent of
// argument order.
func PairID(assetA, assetB common.Address) string {
	a := strings.ToLower(assetA.Hex())
	b := strings.ToLower(assetB.Hex())
	if b < a {
		a, b = b, a
	}
	return a + ":" + b
}

// Reserves returns a consistent snapshot of both reserves.
func (p *Pool) Reserves() (math.Int, math.Int) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.reserveA, p.reserveB
}

// TotalShares returns the outstanding share count.
func (p *Pool) TotalShares() math.Int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.totalShares
}

// Price returns floor(reserveB / reserveA). Sub-unit precision is
// intentionally discarded.
func (p *Pool) Price() (math.Int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.reserveA.IsZero() {
		return math.Int{}, fmt.Errorf("price on empty pool: %w", ErrInvalidReserves)
	}
	return p.reserveB.Quo(p.reserveA), nil
}

// Balance returns the holder's share balance; zero for unknown holders.
func (p *Pool) Balance(holder common.Address) math.Int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if shares, ok := p.shares[holder]; ok {
		return shares
	}
	return math.ZeroInt()
}

// CheckInvariants verifies the pool's accounting identities: the pool is
// either fully empty or fully funded, and the share ledger sums to
// totalShares.
func (p *Pool) CheckInvariants() error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	empty := p.reserveA.IsZero()
	if p.reserveB.IsZero() != empty || p.totalShares.IsZero() != empty {
		return fmt.Errorf("pool %s is partially funded: reserves (%s, %s), shares %s: %w",
			p.ID(), p.reserveA, p.reserveB, p.totalShares, ErrInvalidReserves)
	}

	sum := math.ZeroInt()
	for _, shares := range p.shares {
		sum = sum.Add(shares)
	}
	if !sum.Equal(p.totalShares) {
		return fmt.Errorf("pool %s share ledger sums to %s, total is %s: %w",
			p.ID(), sum, p.totalShares, ErrInvalidReserves)
	}
	return nil
}

package amm

import (
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Registry creates and resolves pools by asset pair. Lookup is independent
// of argument order; at most one pool exists per pair.
type Registry struct {
	ledger  AssetLedger
	emitter Emitter

	mu    sync.RWMutex
	pools map[string]*Pool
}

// NewRegistry builds an empty registry. Pools created through it share the
// given ledger and emitter.
func NewRegistry(ledger AssetLedger, emitter Emitter) *Registry {
	return &Registry{
		ledger:  ledger,
		emitter: emitter,
		pools:   make(map[string]*Pool),
	}
}

// Create adds an empty pool for the pair.
func (r *Registry) Create(assetA, assetB common.Address) (*Pool, error) {
	pool, err := NewPool(assetA, assetB, r.ledger, r.emitter)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	id := pool.ID()
	if _, ok := r.pools[id]; ok {
		return nil, fmt.Errorf("pool %s: %w", id, ErrPoolExists)
	}
	r.pools[id] = pool
	return pool, nil
}

// Get resolves the pool for a pair.
func (r *Registry) Get(assetA, assetB common.Address) (*Pool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pool, ok := r.pools[PairID(assetA, assetB)]
	if !ok {
		return nil, fmt.Errorf("pool %s: %w", PairID(assetA, assetB), ErrPoolNotFound)
	}
	return pool, nil
}

// Pools returns all registered pools.
func (r *Registry) Pools() []*Pool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pools := make([]*Pool, 0, len(r.pools))
	for _, pool := range r.pools {
		pools = append(pools, pool)
	}
	return pools
}

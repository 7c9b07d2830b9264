package ledger

import (
	"context"
	"fmt"
	"sync"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
)

// EscrowAccount holds pooled assets on behalf of every pool. A single
// escrow account is enough for accounting because the engine's reserve
// bookkeeping, not the ledger, attributes funds to pools.
var EscrowAccount = common.BytesToAddress([]byte("dexamm/escrow"))

// InMemory is an in-process asset ledger keyed by asset then holder.
// Holding a balance is the authorization to move it; there is no separate
// allowance dimension.
type InMemory struct {
	mu       sync.Mutex
	balances map[common.Address]map[common.Address]math.Int
}

func NewInMemory() *InMemory {
	return &InMemory{
		balances: make(map[common.Address]map[common.Address]math.Int),
	}
}

// Credit mints amount of asset to holder. Used to seed genesis balances.
func (l *InMemory) Credit(asset, holder common.Address, amount math.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.credit(asset, holder, amount)
}

// Balance returns holder's balance of asset; zero when unknown.
func (l *InMemory) Balance(asset, holder common.Address) math.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if holders, ok := l.balances[asset]; ok {
		if balance, ok := holders[holder]; ok {
			return balance
		}
	}
	return math.ZeroInt()
}

// Pull debits from and credits escrow.
func (l *InMemory) Pull(_ context.Context, asset, from common.Address, amount math.Int) error {
	return l.transfer(asset, from, EscrowAccount, amount)
}

// Push debits escrow and credits to.
func (l *InMemory) Push(_ context.Context, asset, to common.Address, amount math.Int) error {
	return l.transfer(asset, EscrowAccount, to, amount)
}

func (l *InMemory) transfer(asset, from, to common.Address, amount math.Int) error {
	if amount.IsNil() || amount.IsNegative() {
		return fmt.Errorf("transfer amount must be non-negative")
	}
	if amount.IsZero() {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	balance := math.ZeroInt()
	if holders, ok := l.balances[asset]; ok {
		if current, ok := holders[from]; ok {
			balance = current
		}
	}
	if balance.LT(amount) {
		return fmt.Errorf("insufficient balance: %s has %s of %s, need %s", from, balance, asset, amount)
	}

	l.balances[asset][from] = balance.Sub(amount)
	l.credit(asset, to, amount)
	return nil
}

func (l *InMemory) credit(asset, holder common.Address, amount math.Int) {
	holders, ok := l.balances[asset]
	if !ok {
		holders = make(map[common.Address]math.Int)
		l.balances[asset] = holders
	}
	current, ok := holders[holder]
	if !ok {
		current = math.ZeroInt()
	}
	holders[holder] = current.Add(amount)
}

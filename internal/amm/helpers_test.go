package amm

import (
	"context"
	"errors"
	"testing"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"

	"dexamm/internal/ledger"
)

var (
	assetGold   = common.HexToAddress("0x1111111111111111111111111111111111111111")
	assetSilver = common.HexToAddress("0x2222222222222222222222222222222222222222")
	alice       = common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	bob         = common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
)

// captureEmitter records emitted events for assertions.
type captureEmitter struct {
	events []Event
}

func (e *captureEmitter) Emit(event Event) {
	e.events = append(e.events, event)
}

// failingLedger wraps the in-memory ledger and rejects transfers of the
// configured assets, for exercising rollback paths.
type failingLedger struct {
	*ledger.InMemory
	failPullAsset common.Address
	failPushAsset common.Address
}

func (l *failingLedger) Pull(ctx context.Context, asset, from common.Address, amount math.Int) error {
	if asset == l.failPullAsset {
		return errors.New("pull rejected")
	}
	return l.InMemory.Pull(ctx, asset, from, amount)
}

func (l *failingLedger) Push(ctx context.Context, asset, to common.Address, amount math.Int) error {
	if asset == l.failPushAsset {
		return errors.New("push rejected")
	}
	return l.InMemory.Push(ctx, asset, to, amount)
}

func newTestLedger() *ledger.InMemory {
	l := ledger.NewInMemory()
	funds := math.NewInt(1_000_000_000)
	for _, holder := range []common.Address{alice, bob} {
		l.Credit(assetGold, holder, funds)
		l.Credit(assetSilver, holder, funds)
	}
	return l
}

func newTestPool(t *testing.T, assetLedger AssetLedger, emitter Emitter) *Pool {
	t.Helper()
	pool, err := NewPool(assetGold, assetSilver, assetLedger, emitter)
	if err != nil {
		t.Fatalf("new pool: %v", err)
	}
	return pool
}

func mustAddLiquidity(t *testing.T, pool *Pool, caller common.Address, amountA, amountB int64) math.Int {
	t.Helper()
	minted, err := pool.AddLiquidity(context.Background(), caller, math.NewInt(amountA), math.NewInt(amountB))
	if err != nil {
		t.Fatalf("add liquidity (%d, %d): %v", amountA, amountB, err)
	}
	return minted
}

func requireReserves(t *testing.T, pool *Pool, wantA, wantB int64) {
	t.Helper()
	reserveA, reserveB := pool.Reserves()
	if !reserveA.Equal(math.NewInt(wantA)) || !reserveB.Equal(math.NewInt(wantB)) {
		t.Fatalf("reserves mismatch: got (%s, %s), want (%d, %d)", reserveA, reserveB, wantA, wantB)
	}
}

func reserveProduct(pool *Pool) math.Int {
	reserveA, reserveB := pool.Reserves()
	return reserveA.Mul(reserveB)
}

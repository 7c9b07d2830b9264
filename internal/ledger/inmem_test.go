package ledger

import (
	"context"
	"testing"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
)

var (
	testAsset  = common.HexToAddress("0x1111111111111111111111111111111111111111")
	testHolder = common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
)

func TestPullMovesFundsToEscrow(t *testing.T) {
	l := NewInMemory()
	l.Credit(testAsset, testHolder, math.NewInt(100))

	if err := l.Pull(context.Background(), testAsset, testHolder, math.NewInt(40)); err != nil {
		t.Fatalf("pull: %v", err)
	}
	if got := l.Balance(testAsset, testHolder); !got.Equal(math.NewInt(60)) {
		t.Fatalf("holder balance mismatch: got %s, want 60", got)
	}
	if got := l.Balance(testAsset, EscrowAccount); !got.Equal(math.NewInt(40)) {
		t.Fatalf("escrow balance mismatch: got %s, want 40", got)
	}
}

func TestPushMovesFundsFromEscrow(t *testing.T) {
	l := NewInMemory()
	l.Credit(testAsset, EscrowAccount, math.NewInt(100))

	if err := l.Push(context.Background(), testAsset, testHolder, math.NewInt(30)); err != nil {
		t.Fatalf("push: %v", err)
	}
	if got := l.Balance(testAsset, testHolder); !got.Equal(math.NewInt(30)) {
		t.Fatalf("holder balance mismatch: got %s, want 30", got)
	}
	if got := l.Balance(testAsset, EscrowAccount); !got.Equal(math.NewInt(70)) {
		t.Fatalf("escrow balance mismatch: got %s, want 70", got)
	}
}

func TestPullInsufficientBalance(t *testing.T) {
	l := NewInMemory()
	l.Credit(testAsset, testHolder, math.NewInt(10))

	if err := l.Pull(context.Background(), testAsset, testHolder, math.NewInt(11)); err == nil {
		t.Fatalf("expected error for insufficient balance")
	}
	// Nothing moved.
	if got := l.Balance(testAsset, testHolder); !got.Equal(math.NewInt(10)) {
		t.Fatalf("holder balance mismatch: got %s, want 10", got)
	}
	if got := l.Balance(testAsset, EscrowAccount); !got.IsZero() {
		t.Fatalf("escrow balance mismatch: got %s, want 0", got)
	}
}

func TestTransferRejectsNegativeAmount(t *testing.T) {
	l := NewInMemory()
	l.Credit(testAsset, testHolder, math.NewInt(10))

	if err := l.Pull(context.Background(), testAsset, testHolder, math.NewInt(-1)); err == nil {
		t.Fatalf("expected error for negative amount")
	}
}

func TestTransferZeroAmountIsNoop(t *testing.T) {
	l := NewInMemory()
	if err := l.Pull(context.Background(), testAsset, testHolder, math.ZeroInt()); err != nil {
		t.Fatalf("zero pull: %v", err)
	}
}

func TestBalanceUnknownAsset(t *testing.T) {
	l := NewInMemory()
	if got := l.Balance(testAsset, testHolder); !got.IsZero() {
		t.Fatalf("unknown balance mismatch: got %s, want 0", got)
	}
}

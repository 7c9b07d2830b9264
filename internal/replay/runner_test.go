package replay

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"

	"dexamm/internal/ledger"
	"dexamm/internal/model"
)

const (
	goldHex   = "0x1111111111111111111111111111111111111111"
	silverHex = "0x2222222222222222222222222222222222222222"
	aliceHex  = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
)

// memorySink collects event batches in memory.
type memorySink struct {
	events  []model.EventRecord
	batches int
}

func (s *memorySink) PutEventBatch(batch []model.EventRecord) error {
	s.events = append(s.events, batch...)
	s.batches++
	return nil
}

func seededLedger() *ledger.InMemory {
	l := ledger.NewInMemory()
	alice := common.HexToAddress(aliceHex)
	l.Credit(common.HexToAddress(goldHex), alice, math.NewInt(1_000_000))
	l.Credit(common.HexToAddress(silverHex), alice, math.NewInt(1_000_000))
	return l
}

func writeOperations(t *testing.T, path string, records []model.OperationRecord) {
	t.Helper()
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create input: %v", err)
	}
	defer file.Close()
	enc := json.NewEncoder(file)
	for _, record := range records {
		if err := enc.Encode(record); err != nil {
			t.Fatalf("encode record: %v", err)
		}
	}
}

func baseOperations() []model.OperationRecord {
	return []model.OperationRecord{
		{Seq: 1, Op: model.OpCreatePool, AssetA: goldHex, AssetB: silverHex},
		{Seq: 2, Op: model.OpAddLiquidity, Caller: aliceHex, AssetA: goldHex, AssetB: silverHex, AmountA: "100", AmountB: "200"},
		{Seq: 3, Op: model.OpSwap, Caller: aliceHex, AssetA: goldHex, AssetB: silverHex, AmountIn: "10", Direction: "a_to_b"},
		{Seq: 4, Op: model.OpRemoveLiquidity, Caller: aliceHex, AssetA: goldHex, AssetB: silverHex, Shares: "70"},
	}
}

func TestRunnerEndToEnd(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "ops.jsonl")
	writeOperations(t, input, baseOperations())

	sink := &memorySink{}
	runner := NewRunner(RunConfig{Input: input, BatchSize: 100}, seededLedger(), sink, nil)

	lastSeq, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if lastSeq != 4 {
		t.Fatalf("last seq mismatch: got %d, want 4", lastSeq)
	}
	if len(sink.events) != 3 {
		t.Fatalf("event count mismatch: got %d, want 3", len(sink.events))
	}

	names := []string{model.EventLiquidityAdded, model.EventSwap, model.EventLiquidityRemoved}
	for i, want := range names {
		if sink.events[i].EventName != want {
			t.Fatalf("event %d name mismatch: got %s, want %s", i, sink.events[i].EventName, want)
		}
	}

	swap := sink.events[1]
	if swap.AmountIn != "10" || swap.AmountOut != "18" {
		t.Fatalf("swap amounts mismatch: %+v", swap)
	}
	if swap.ReserveA != "110" || swap.ReserveB != "182" {
		t.Fatalf("swap reserves mismatch: %+v", swap)
	}

	removed := sink.events[2]
	// floor(70*110/141) = 54, floor(70*182/141) = 90
	if removed.AmountA != "54" || removed.AmountB != "90" {
		t.Fatalf("removal payout mismatch: %+v", removed)
	}

	snapshots := runner.Snapshots(lastSeq)
	if len(snapshots) != 1 {
		t.Fatalf("snapshot count mismatch: got %d, want 1", len(snapshots))
	}
	if snapshots[0].ReserveA != "56" || snapshots[0].ReserveB != "92" {
		t.Fatalf("snapshot reserves mismatch: %+v", snapshots[0])
	}
	if snapshots[0].TotalShares != "71" {
		t.Fatalf("snapshot shares mismatch: %+v", snapshots[0])
	}
}

func TestRunnerRejectedOperationContinues(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "ops.jsonl")
	records := []model.OperationRecord{
		{Seq: 1, Op: model.OpCreatePool, AssetA: goldHex, AssetB: silverHex},
		// Swap on an empty pool is rejected but not fatal.
		{Seq: 2, Op: model.OpSwap, Caller: aliceHex, AssetA: goldHex, AssetB: silverHex, AmountIn: "10", Direction: "a_to_b"},
		{Seq: 3, Op: model.OpAddLiquidity, Caller: aliceHex, AssetA: goldHex, AssetB: silverHex, AmountA: "100", AmountB: "100"},
	}
	writeOperations(t, input, records)

	sink := &memorySink{}
	runner := NewRunner(RunConfig{Input: input}, seededLedger(), sink, nil)

	lastSeq, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if lastSeq != 3 {
		t.Fatalf("last seq mismatch: got %d, want 3", lastSeq)
	}
	if len(sink.events) != 1 || sink.events[0].EventName != model.EventLiquidityAdded {
		t.Fatalf("events mismatch: %+v", sink.events)
	}
}

func TestRunnerSkipsDuplicateSeq(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "ops.jsonl")
	records := []model.OperationRecord{
		{Seq: 1, Op: model.OpCreatePool, AssetA: goldHex, AssetB: silverHex},
		{Seq: 2, Op: model.OpAddLiquidity, Caller: aliceHex, AssetA: goldHex, AssetB: silverHex, AmountA: "100", AmountB: "100"},
		// Redelivered record; must not double-apply.
		{Seq: 2, Op: model.OpAddLiquidity, Caller: aliceHex, AssetA: goldHex, AssetB: silverHex, AmountA: "100", AmountB: "100"},
	}
	writeOperations(t, input, records)

	sink := &memorySink{}
	runner := NewRunner(RunConfig{Input: input}, seededLedger(), sink, nil)
	if _, err := runner.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(sink.events) != 1 {
		t.Fatalf("event count mismatch: got %d, want 1", len(sink.events))
	}
	pool, err := runner.Registry().Get(common.HexToAddress(goldHex), common.HexToAddress(silverHex))
	if err != nil {
		t.Fatalf("get pool: %v", err)
	}
	reserveA, _ := pool.Reserves()
	if !reserveA.Equal(math.NewInt(100)) {
		t.Fatalf("reserve mismatch after duplicate: got %s, want 100", reserveA)
	}
}

func TestRunnerCheckpointSkipsProcessed(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "ops.jsonl")
	checkpoint := filepath.Join(dir, "checkpoint.json")
	writeOperations(t, input, baseOperations())

	cfg := RunConfig{Input: input, CheckpointPath: checkpoint, CheckpointEnabled: true}

	first := &memorySink{}
	if _, err := NewRunner(cfg, seededLedger(), first, nil).Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if len(first.events) != 3 {
		t.Fatalf("first run event count: got %d, want 3", len(first.events))
	}

	// A rerun over the same input resumes past the checkpoint and emits
	// nothing new.
	second := &memorySink{}
	lastSeq, err := NewRunner(cfg, seededLedger(), second, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if lastSeq != 4 {
		t.Fatalf("last seq mismatch: got %d, want 4", lastSeq)
	}
	if len(second.events) != 0 {
		t.Fatalf("second run emitted %d events, want 0", len(second.events))
	}
}

func TestSeedLedger(t *testing.T) {
	target := ledger.NewInMemory()
	genesis := Genesis{Balances: []GenesisBalance{
		{Asset: goldHex, Holder: aliceHex, Amount: "500"},
	}}
	if err := SeedLedger(target, genesis); err != nil {
		t.Fatalf("seed: %v", err)
	}
	got := target.Balance(common.HexToAddress(goldHex), common.HexToAddress(aliceHex))
	if !got.Equal(math.NewInt(500)) {
		t.Fatalf("balance mismatch: got %s, want 500", got)
	}
}

func TestSeedLedgerRejectsBadAddress(t *testing.T) {
	genesis := Genesis{Balances: []GenesisBalance{
		{Asset: "not-an-address", Holder: aliceHex, Amount: "500"},
	}}
	if err := SeedLedger(ledger.NewInMemory(), genesis); err == nil {
		t.Fatalf("expected error for invalid asset address")
	}
}

func TestCheckpointStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "checkpoint.json")
	store := NewCheckpointStore(path, true)

	if _, ok, err := store.Load(); err != nil || ok {
		t.Fatalf("load before save: ok=%v err=%v", ok, err)
	}
	if err := store.Save(42); err != nil {
		t.Fatalf("save: %v", err)
	}
	cp, ok, err := store.Load()
	if err != nil || !ok {
		t.Fatalf("load after save: ok=%v err=%v", ok, err)
	}
	if cp.LastProcessedSeq != 42 {
		t.Fatalf("seq mismatch: got %d, want 42", cp.LastProcessedSeq)
	}
}

func TestCheckpointStoreDisabled(t *testing.T) {
	store := NewCheckpointStore(filepath.Join(t.TempDir(), "checkpoint.json"), false)
	if err := store.Save(7); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, ok, err := store.Load(); err != nil || ok {
		t.Fatalf("disabled store loaded a checkpoint: ok=%v err=%v", ok, err)
	}
}

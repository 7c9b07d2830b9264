package replay

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"dexamm/internal/amm"
	"dexamm/internal/model"
	"dexamm/internal/storage"
)

// RunConfig holds runtime settings for the replay runner.
type RunConfig struct {
	Input             string
	BatchSize         int
	CheckpointPath    string
	CheckpointEnabled bool
}

// Runner streams operation records from a JSONL file, applies them to pools
// through the engine, and writes the emitted events to storage. A rejected
// operation is recorded and skipped, not fatal: the engine guarantees it
// left no state behind.
type Runner struct {
	cfg        RunConfig
	registry   *amm.Registry
	recorder   *recorder
	sink       storage.EventSink
	logger     *zap.Logger
	seen       map[uint64]struct{}
	checkpoint *CheckpointStore
}

// NewRunner builds a Runner on top of the given asset ledger.
func NewRunner(cfg RunConfig, assetLedger amm.AssetLedger, sink storage.EventSink, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	rec := &recorder{}
	return &Runner{
		cfg:        cfg,
		registry:   amm.NewRegistry(assetLedger, rec),
		recorder:   rec,
		sink:       sink,
		logger:     logger,
		seen:       make(map[uint64]struct{}),
		checkpoint: NewCheckpointStore(cfg.CheckpointPath, cfg.CheckpointEnabled),
	}
}

// Registry exposes the pools built up during replay.
func (r *Runner) Registry() *amm.Registry {
	return r.registry
}

// Snapshots returns the final state of every pool touched by the replay.
func (r *Runner) Snapshots(lastSeq uint64) []model.PoolSnapshot {
	now := time.Now()
	pools := r.registry.Pools()
	snapshots := make([]model.PoolSnapshot, 0, len(pools))
	for _, pool := range pools {
		snapshots = append(snapshots, buildPoolSnapshot(pool, lastSeq, now))
	}
	return snapshots
}

// Run executes the replay loop.
func (r *Runner) Run(ctx context.Context) (uint64, error) {
	if r.sink == nil {
		return 0, fmt.Errorf("event sink is nil")
	}
	if r.cfg.BatchSize <= 0 {
		r.cfg.BatchSize = 1000
	}

	var startSeq uint64
	if r.checkpoint != nil {
		cp, ok, err := r.checkpoint.Load()
		if err != nil {
			return 0, err
		}
		if ok {
			startSeq = cp.LastProcessedSeq
			r.logger.Info("resume from checkpoint", zap.Uint64("last_processed", startSeq))
		}
	}

	file, err := os.Open(r.cfg.Input)
	if err != nil {
		return 0, fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	batch := make([]model.EventRecord, 0, r.cfg.BatchSize)
	lastSeq := startSeq
	var total, applied, rejected, skipped int

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return lastSeq, ctx.Err()
		default:
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		total++

		var record model.OperationRecord
		if err := json.Unmarshal(line, &record); err != nil {
			rejected++
			r.logger.Warn("decode operation", zap.Error(err))
			continue
		}

		if record.Seq <= startSeq || r.isDuplicate(record.Seq) {
			skipped++
			continue
		}

		pool, err := r.applyOperation(ctx, record)
		if err != nil {
			rejected++
			r.recorder.drain()
			r.logger.Warn("operation rejected",
				zap.Uint64("seq", record.Seq),
				zap.String("op", record.Op),
				zap.Error(err),
			)
			continue
		}

		emittedAt := time.Now()
		for _, event := range r.recorder.drain() {
			batch = append(batch, buildEventRecord(pool, record.Seq, event, emittedAt))
		}
		applied++
		lastSeq = record.Seq

		if len(batch) >= r.cfg.BatchSize {
			if err := r.flush(batch, lastSeq); err != nil {
				return lastSeq, err
			}
			batch = batch[:0]
		}
	}
	if err := scanner.Err(); err != nil {
		return lastSeq, fmt.Errorf("scan input: %w", err)
	}

	if err := r.flush(batch, lastSeq); err != nil {
		return lastSeq, err
	}

	for _, pool := range r.registry.Pools() {
		if err := pool.CheckInvariants(); err != nil {
			return lastSeq, fmt.Errorf("post-replay invariant check: %w", err)
		}
	}

	r.logger.Info("replay complete",
		zap.Int("total", total),
		zap.Int("applied", applied),
		zap.Int("rejected", rejected),
		zap.Int("skipped", skipped),
		zap.Uint64("last_seq", lastSeq),
	)
	return lastSeq, nil
}

func (r *Runner) flush(batch []model.EventRecord, lastSeq uint64) error {
	if len(batch) > 0 {
		if err := r.sink.PutEventBatch(batch); err != nil {
			return fmt.Errorf("store events: %w", err)
		}
	}
	if r.checkpoint != nil && lastSeq > 0 {
		if err := r.checkpoint.Save(lastSeq); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) isDuplicate(seq uint64) bool {
	if _, ok := r.seen[seq]; ok {
		return true
	}
	r.seen[seq] = struct{}{}
	return false
}

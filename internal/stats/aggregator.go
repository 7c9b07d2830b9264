package stats

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"dexamm/internal/model"
)

// Sink receives the folded per-pool totals.
type Sink interface {
	UpsertPoolStats(ctx context.Context, stats []model.PoolStats) error
}

// Config controls aggregation behavior.
type Config struct {
	BatchSize  int
	StateStore StateStore
}

// Aggregator folds emitted pool events into per-pool totals.
type Aggregator struct {
	cfg          Config
	sink         Sink
	logger       *zap.Logger
	accumulators map[string]*Accumulator
}

func NewAggregator(cfg Config, sink Sink, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		cfg:          cfg,
		sink:         sink,
		logger:       logger,
		accumulators: make(map[string]*Accumulator),
	}
}

// Run executes aggregation over an events JSONL file.
func (a *Aggregator) Run(ctx context.Context, inputPath string) error {
	if a.sink == nil {
		return fmt.Errorf("sink is nil")
	}
	if a.cfg.BatchSize <= 0 {
		a.cfg.BatchSize = 1000
	}

	var startSeq uint64
	if a.cfg.StateStore != nil {
		seq, ok, err := a.cfg.StateStore.Load(ctx)
		if err != nil {
			return fmt.Errorf("load state: %w", err)
		}
		if ok {
			startSeq = seq
			a.logger.Info("resume from state", zap.Uint64("last_processed", startSeq))
		}
	}

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	maxSeq := startSeq
	var total, folded, skipped, failed int
	sinceFlush := 0

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		total++

		var record model.EventRecord
		if err := json.Unmarshal(line, &record); err != nil {
			failed++
			a.logger.Warn("decode event", zap.Error(err))
			continue
		}

		if record.Seq <= startSeq {
			skipped++
			continue
		}

		acc, ok := a.accumulators[record.Pool]
		if !ok {
			acc = NewAccumulator(record)
			a.accumulators[record.Pool] = acc
		}
		if err := acc.AddEvent(record); err != nil {
			failed++
			a.logger.Warn("fold event", zap.Uint64("seq", record.Seq), zap.Error(err))
			continue
		}
		folded++
		sinceFlush++
		if record.Seq > maxSeq {
			maxSeq = record.Seq
		}

		if sinceFlush >= a.cfg.BatchSize {
			if err := a.flush(ctx, maxSeq); err != nil {
				return err
			}
			sinceFlush = 0
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan input: %w", err)
	}

	if err := a.flush(ctx, maxSeq); err != nil {
		return err
	}

	a.logger.Info("stats complete",
		zap.Int("total", total),
		zap.Int("folded", folded),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed),
		zap.Int("pools", len(a.accumulators)),
		zap.Uint64("last_seq", maxSeq),
	)
	return nil
}

func (a *Aggregator) flush(ctx context.Context, maxSeq uint64) error {
	if len(a.accumulators) == 0 {
		return nil
	}
	batch := make([]model.PoolStats, 0, len(a.accumulators))
	for _, acc := range a.accumulators {
		batch = append(batch, acc.Stats())
	}
	if err := a.sink.UpsertPoolStats(ctx, batch); err != nil {
		return fmt.Errorf("upsert stats: %w", err)
	}
	if a.cfg.StateStore != nil && maxSeq > 0 {
		if err := a.cfg.StateStore.Save(ctx, maxSeq); err != nil {
			return fmt.Errorf("save state: %w", err)
		}
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dexamm/internal/config"
	"dexamm/internal/ledger"
	"dexamm/internal/model"
	"dexamm/internal/replay"
	"dexamm/internal/storage"
	"dexamm/internal/storage/postgres"
)

func runReplay(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadReplay(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Input == "" {
		return fmt.Errorf("input path is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	assetLedger := ledger.NewInMemory()
	if cfg.Genesis != "" {
		genesis, err := replay.LoadGenesis(cfg.Genesis)
		if err != nil {
			return err
		}
		if err := replay.SeedLedger(assetLedger, genesis); err != nil {
			return err
		}
		logger.Info("genesis seeded", zap.Int("balances", len(genesis.Balances)))
	}

	var sinks []storage.EventSink
	sinks = append(sinks, storage.NewJsonlSink(cfg.Out))

	var store *postgres.Store
	if cfg.PGDSN != "" {
		store, err = postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		sinks = append(sinks, &eventStoreSink{ctx: ctx, store: store})
	}

	runner := replay.NewRunner(replay.RunConfig{
		Input:             cfg.Input,
		BatchSize:         cfg.BatchSize,
		CheckpointPath:    cfg.Checkpoint,
		CheckpointEnabled: cfg.CheckpointEnabled,
	}, assetLedger, multiSink(sinks), logger)

	logger.Info("replay start",
		zap.String("in", cfg.Input),
		zap.String("out", cfg.Out),
		zap.Int("batch_size", cfg.BatchSize),
		zap.Bool("checkpoint_enabled", cfg.CheckpointEnabled),
		zap.String("checkpoint", cfg.Checkpoint),
	)

	lastSeq, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	if store != nil {
		if err := store.UpsertPoolSnapshots(ctx, runner.Snapshots(lastSeq)); err != nil {
			return fmt.Errorf("store snapshots: %w", err)
		}
	}

	return nil
}

// multiSink fans a batch out to every configured sink.
type multiSink []storage.EventSink

func (m multiSink) PutEventBatch(events []model.EventRecord) error {
	for _, sink := range m {
		if err := sink.PutEventBatch(events); err != nil {
			return err
		}
	}
	return nil
}

// eventStoreSink adapts the postgres store to the EventSink interface.
type eventStoreSink struct {
	ctx   context.Context
	store *postgres.Store
}

func (s *eventStoreSink) PutEventBatch(events []model.EventRecord) error {
	return s.store.InsertEvents(s.ctx, events)
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dexamm/internal/model"
)

// Store provides Postgres persistence for events, snapshots, and stats.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// InsertEvents appends emitted pool events; replays of the same sequence
// are idempotent.
func (s *Store) InsertEvents(ctx context.Context, events []model.EventRecord) error {
	if len(events) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, event := range events {
		batch.Queue(`
			INSERT INTO pool_events (
				seq, pool, event_name, asset_a, asset_b, provider, trader,
				asset_in, asset_out, amount_a, amount_b, amount_in, amount_out,
				shares, reserve_a, reserve_b, emitted_at, created_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,now())
			ON CONFLICT (seq, pool, event_name) DO NOTHING
		`,
			int64(event.Seq),
			event.Pool,
			event.EventName,
			event.AssetA,
			event.AssetB,
			event.Provider,
			event.Trader,
			event.AssetIn,
			event.AssetOut,
			event.AmountA,
			event.AmountB,
			event.AmountIn,
			event.AmountOut,
			event.Shares,
			event.ReserveA,
			event.ReserveB,
			event.EmittedAt,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range events {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// UpsertPoolSnapshots inserts or updates pool state snapshots.
func (s *Store) UpsertPoolSnapshots(ctx context.Context, snapshots []model.PoolSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, snapshot := range snapshots {
		batch.Queue(`
			INSERT INTO pool_snapshots (
				pool, asset_a, asset_b, reserve_a, reserve_b, total_shares, last_seq, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
			ON CONFLICT (pool)
			DO UPDATE SET
				reserve_a = EXCLUDED.reserve_a,
				reserve_b = EXCLUDED.reserve_b,
				total_shares = EXCLUDED.total_shares,
				last_seq = GREATEST(pool_snapshots.last_seq, EXCLUDED.last_seq),
				updated_at = now()
		`,
			snapshot.Pool,
			snapshot.AssetA,
			snapshot.AssetB,
			snapshot.ReserveA,
			snapshot.ReserveB,
			snapshot.TotalShares,
			int64(snapshot.LastSeq),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range snapshots {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// UpsertPoolStats inserts or updates per-pool totals.
func (s *Store) UpsertPoolStats(ctx context.Context, stats []model.PoolStats) error {
	if len(stats) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, stat := range stats {
		batch.Queue(`
			INSERT INTO pool_stats (
				pool, asset_a, asset_b, swap_count, volume_a, volume_b,
				fee_a, fee_b, last_reserve_a, last_reserve_b, last_seq, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,now(),now())
			ON CONFLICT (pool)
			DO UPDATE SET
				swap_count = EXCLUDED.swap_count,
				volume_a = EXCLUDED.volume_a,
				volume_b = EXCLUDED.volume_b,
				fee_a = EXCLUDED.fee_a,
				fee_b = EXCLUDED.fee_b,
				last_reserve_a = EXCLUDED.last_reserve_a,
				last_reserve_b = EXCLUDED.last_reserve_b,
				last_seq = EXCLUDED.last_seq,
				updated_at = now()
		`,
			stat.Pool,
			stat.AssetA,
			stat.AssetB,
			int64(stat.SwapCount),
			stat.VolumeA,
			stat.VolumeB,
			stat.FeeA,
			stat.FeeB,
			stat.LastReserveA,
			stat.LastReserveB,
			int64(stat.LastSeq),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range stats {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// LoadState returns last_processed_seq for a name.
func (s *Store) LoadState(ctx context.Context, name string) (uint64, bool, error) {
	if name == "" {
		return 0, false, fmt.Errorf("state name required")
	}
	var seq uint64
	row := s.pool.QueryRow(ctx, `SELECT last_processed_seq FROM engine_state WHERE name=$1`, name)
	if err := row.Scan(&seq); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return seq, true, nil
}

// SaveState upserts last_processed_seq for a name.
func (s *Store) SaveState(ctx context.Context, name string, seq uint64) error {
	if name == "" {
		return fmt.Errorf("state name required")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO engine_state (name, last_processed_seq, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE
		SET last_processed_seq = EXCLUDED.last_processed_seq, updated_at = now()
	`, name, seq)
	return err
}

package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"poolSnapshot/internal/model"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS pool_snapshots (
	protocol     TEXT        NOT NULL,
	pool_address TEXT        NOT NULL,
	state_block  BIGINT      NOT NULL,
	document     JSONB       NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (protocol, pool_address)
)`

const upsertSnapshotSQL = `
	INSERT INTO pool_snapshots (
		protocol, pool_address, state_block, document, created_at, updated_at
	) VALUES ($1, $2, $3, $4, now(), now())
	ON CONFLICT (protocol, pool_address)
	DO UPDATE SET
		state_block = EXCLUDED.state_block,
		document = EXCLUDED.document,
		updated_at = now()
`

// execer is the part of pgxpool.Pool the store writes through.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Store provides Postgres persistence for pool snapshots.
type Store struct {
	pool *pgxpool.Pool
	db   execer
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool, db: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the pool_snapshots table when it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create pool_snapshots: %w", err)
	}
	return nil
}

// PutSnapshot inserts or replaces the latest snapshot of a pool.
func (s *Store) PutSnapshot(ctx context.Context, record model.SnapshotRecord) error {
	args, err := snapshotArgs(record)
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx, upsertSnapshotSQL, args...); err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

func snapshotArgs(record model.SnapshotRecord) ([]any, error) {
	if record.Address == "" {
		return nil, fmt.Errorf("snapshot address required")
	}
	if record.Snapshot.StateBlock > math.MaxInt64 {
		return nil, fmt.Errorf("state block %d exceeds bigint", record.Snapshot.StateBlock)
	}
	doc, err := json.Marshal(record.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return []any{
		record.Protocol.Prefix(),
		record.Address,
		int64(record.Snapshot.StateBlock),
		doc,
	}, nil
}

package runwalk

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresSnapshotStore keeps the slot in a single-row table so a glance
// reader on another host can poll it. The contract is identical to the file
// slot: one writer, read-only consumers, last write wins, staleness
// downgrade on read.
type PostgresSnapshotStore struct {
	db     *sql.DB
	slot   string
	clock  Clock
	notify RefreshNotifier
}

// PostgresSnapshotStoreOptions configures a PostgresSnapshotStore.
type PostgresSnapshotStoreOptions struct {
	// DSN is the lib/pq connection string. Ignored when DB is set.
	DSN string

	// DB lets the caller share an existing connection pool.
	DB *sql.DB

	// Slot names the row, so several independent timers can share a
	// database. Defaults to "default".
	Slot string

	// Clock used for staleness checks on read. Defaults to the real clock.
	Clock Clock

	// Notify, if set, is called after every write and clear.
	Notify RefreshNotifier
}

// NewPostgresSnapshotStore opens the database if needed and ensures the
// slot table exists.
func NewPostgresSnapshotStore(ctx context.Context, opts PostgresSnapshotStoreOptions) (*PostgresSnapshotStore, error) {
	db := opts.DB
	if db == nil {
		if opts.DSN == "" {
			return nil, fmt.Errorf("postgres DSN is required")
		}
		var err error
		db, err = sql.Open("postgres", opts.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres connection: %w", err)
		}
	}
	if opts.Slot == "" {
		opts.Slot = "default"
	}
	if opts.Clock == nil {
		opts.Clock = RealClock()
	}
	store := &PostgresSnapshotStore{
		db:     db,
		slot:   opts.Slot,
		clock:  opts.Clock,
		notify: opts.Notify,
	}
	if err := store.migrate(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *PostgresSnapshotStore) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS snapshot_slots (
			slot TEXT PRIMARY KEY,
			payload JSONB NOT NULL,
			published_at TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("failed to create snapshot_slots table: %w", err)
	}
	return nil
}

func (s *PostgresSnapshotStore) Write(ctx context.Context, snapshot *Snapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshot_slots (slot, payload, published_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (slot) DO UPDATE
		SET payload = EXCLUDED.payload, published_at = EXCLUDED.published_at`,
		s.slot, payload, snapshot.LastUpdate)
	if err != nil {
		return fmt.Errorf("failed to write snapshot slot: %w", err)
	}
	if s.notify != nil {
		s.notify()
	}
	return nil
}

func (s *PostgresSnapshotStore) Read(ctx context.Context) (*Snapshot, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM snapshot_slots WHERE slot = $1`, s.slot).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return IdleSnapshot(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot slot: %w", err)
	}
	var snapshot Snapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return IdleSnapshot(), nil
	}
	if snapshot.Stale(s.clock.Now()) {
		return IdleSnapshot(), nil
	}
	return &snapshot, nil
}

func (s *PostgresSnapshotStore) Clear(ctx context.Context) error {
	return s.Write(ctx, IdleSnapshot())
}

// Close closes the underlying database connection.
func (s *PostgresSnapshotStore) Close() error {
	return s.db.Close()
}

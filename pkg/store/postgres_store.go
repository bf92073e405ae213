package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// map_sets records one row per persisted set, so a map with zero landmark
// pairs still loads back as an empty set instead of not-found.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS map_sets (
	map_id     TEXT        NOT NULL,
	saved_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (map_id)
)`,
	`CREATE TABLE IF NOT EXISTS map_distances (
	map_id   TEXT   NOT NULL,
	seq      INT    NOT NULL,
	from_id  TEXT   NOT NULL,
	to_id    TEXT   NOT NULL,
	distance BIGINT NOT NULL,
	PRIMARY KEY (map_id, seq)
)`,
}

// PostgresStore persists distance sets in a map_sets + map_distances table
// pair, keyed by map ID. Suitable when several workers share one distance
// store.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to the database and ensures the schema exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to ensure distances schema: %w", err)
		}
	}
	return &PostgresStore{pool: pool}, nil
}

// Close releases the connection pool.
func (ps *PostgresStore) Close() {
	ps.pool.Close()
}

// Save replaces the stored set for mapID in one transaction: delete the old
// rows, then bulk-copy the new ones with their sequence preserved.
func (ps *PostgresStore) Save(ctx context.Context, mapID string, records []Record) error {
	tx, err := ps.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin save transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO map_sets (map_id, saved_at) VALUES ($1, now())
		 ON CONFLICT (map_id) DO UPDATE SET saved_at = now()`,
		mapID,
	); err != nil {
		return fmt.Errorf("failed to register distance set: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM map_distances WHERE map_id = $1`, mapID); err != nil {
		return fmt.Errorf("failed to clear prior distance set: %w", err)
	}

	rows := make([][]any, len(records))
	for i, r := range records {
		rows[i] = []any{mapID, i, r.FromID, r.ToID, r.Distance}
	}
	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"map_distances"},
		[]string{"map_id", "seq", "from_id", "to_id", "distance"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to copy distance records: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit distance set: %w", err)
	}
	return nil
}

// Load reads the stored set for mapID in insertion order. Returns ErrNotFound
// when no set was ever saved for the map; a saved set with zero records loads
// back empty.
func (ps *PostgresStore) Load(ctx context.Context, mapID string) ([]Record, error) {
	var savedAt time.Time
	err := ps.pool.QueryRow(ctx,
		`SELECT saved_at FROM map_sets WHERE map_id = $1`, mapID,
	).Scan(&savedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, mapID)
		}
		return nil, fmt.Errorf("failed to query distance set registry: %w", err)
	}

	rows, err := ps.pool.Query(ctx,
		`SELECT from_id, to_id, distance FROM map_distances WHERE map_id = $1 ORDER BY seq`,
		mapID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query distance set: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.FromID, &r.ToID, &r.Distance); err != nil {
			return nil, fmt.Errorf("failed to scan distance record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read distance set: %w", err)
	}
	return records, nil
}

var _ DistanceStore = (*PostgresStore)(nil)

package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ugaemi/cubechase/internal/game"
	"github.com/ugaemi/cubechase/internal/match"
)

const schema = `
CREATE TABLE IF NOT EXISTS matches (
    id TEXT PRIMARY KEY,
    started_at TIMESTAMPTZ NOT NULL,
    ended_at TIMESTAMPTZ NOT NULL,
    enemies INTEGER NOT NULL,
    outcome TEXT NOT NULL,
    final_health INTEGER NOT NULL,
    hits INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_matches_ended_at ON matches(ended_at DESC);
`

// PostgresStore implements MatchStore using PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to PostgreSQL and initializes the schema.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// Save records a finished match. Saving the same match twice is a no-op.
func (s *PostgresStore) Save(ctx context.Context, r *match.Result) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO matches (id, started_at, ended_at, enemies, outcome, final_health, hits)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO NOTHING`,
		r.ID, r.StartedAt, r.EndedAt, r.Enemies, r.Outcome.String(), r.Final.Health, r.Final.Hits)
	if err != nil {
		return fmt.Errorf("save match %s: %w", r.ID, err)
	}
	return nil
}

// Recent returns up to limit matches, newest first.
func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]match.Result, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, started_at, ended_at, enemies, outcome, final_health, hits
		 FROM matches ORDER BY ended_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}

	results, err := pgx.CollectRows(rows, scanResult)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return results, nil
}

// Close releases database resources.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func scanResult(row pgx.CollectableRow) (match.Result, error) {
	var (
		r       match.Result
		outcome string
	)
	err := row.Scan(&r.ID, &r.StartedAt, &r.EndedAt, &r.Enemies, &outcome, &r.Final.Health, &r.Final.Hits)
	if err != nil {
		return match.Result{}, err
	}
	r.Outcome = match.ParseOutcome(outcome)
	r.Final.Status = game.StatusOf(r.Final.Health)
	r.Final.GameOver = r.Final.Health <= 0
	return r, nil
}

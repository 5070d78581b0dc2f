// Package database persists game snapshots and event history in PostgreSQL.
//
// Schema (created by EnsureSchema):
//
//	games(id uuid primary key, status text, version bigint, state jsonb, updated_at timestamptz)
//	game_events(id bigserial primary key, game_id uuid, turn_number int,
//	            event_type text, description text, details jsonb, created_at timestamptz)
//
// The snapshot row is a full overwrite per commit; the event table is
// append-only. Both are written fire-and-forget from the session coordinator,
// so a write failure costs history, never game correctness.
package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	engine "github.com/JTR-Brands/fore-fairways-and-greens/engine"
)

// Store is the pgx-backed persistence collaborator.
type Store struct {
	pool *pgxpool.Pool
	log  *logrus.Logger
}

// Connect opens the pool and verifies the connection.
func Connect(ctx context.Context, databaseURL string, log *logrus.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("database: open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database: ping: %w", err)
	}
	return &Store{pool: pool, log: log}, nil
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
}

// EnsureSchema creates the tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS games (
    id         uuid PRIMARY KEY,
    status     text NOT NULL,
    version    bigint NOT NULL,
    state      jsonb NOT NULL,
    updated_at timestamptz NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS game_events (
    id          bigserial PRIMARY KEY,
    game_id     uuid NOT NULL,
    turn_number int NOT NULL,
    event_type  text NOT NULL,
    description text NOT NULL,
    details     jsonb,
    created_at  timestamptz NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS game_events_game_id_idx ON game_events (game_id, id);
`
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("database: ensure schema: %w", err)
	}
	return nil
}

// SaveSnapshot upserts the full game state. Stale writes are dropped by the
// version guard so out-of-order async commits cannot roll a game back.
func (s *Store) SaveSnapshot(ctx context.Context, g *engine.Game) error {
	state, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("database: marshal snapshot: %w", err)
	}
	const q = `
INSERT INTO games (id, status, version, state, updated_at)
VALUES ($1, $2, $3, $4, now())
ON CONFLICT (id) DO UPDATE
SET status = EXCLUDED.status, version = EXCLUDED.version,
    state = EXCLUDED.state, updated_at = now()
WHERE games.version < EXCLUDED.version`
	if _, err := s.pool.Exec(ctx, q, g.ID, string(g.Status), g.Version, state); err != nil {
		return fmt.Errorf("database: save snapshot: %w", err)
	}
	return nil
}

// AppendEvents writes one batch of game events in a single round trip.
// turnNumber is the fallback for events emitted before a turn counter exists.
func (s *Store) AppendEvents(ctx context.Context, gameID uuid.UUID, turnNumber int, events []engine.Event) error {
	const q = `
INSERT INTO game_events (game_id, turn_number, event_type, description, details)
VALUES ($1, $2, $3, $4, $5)`
	batch := &pgx.Batch{}
	for _, e := range events {
		var details []byte
		if e.Details != nil {
			d, err := json.Marshal(e.Details)
			if err != nil {
				return fmt.Errorf("database: marshal event details: %w", err)
			}
			details = d
		}
		turn := e.TurnNumber
		if turn == 0 {
			turn = turnNumber
		}
		batch.Queue(q, gameID, turn, string(e.Type), e.Description, details)
	}
	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("database: append events: %w", err)
	}
	return nil
}

// LoadSnapshots reads every stored game state, newest first.
func (s *Store) LoadSnapshots(ctx context.Context) ([]*engine.Game, error) {
	rows, err := s.pool.Query(ctx, `SELECT state FROM games ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("database: load snapshots: %w", err)
	}
	defer rows.Close()

	var games []*engine.Game
	for rows.Next() {
		var state []byte
		if err := rows.Scan(&state); err != nil {
			return nil, fmt.Errorf("database: scan snapshot: %w", err)
		}
		var g engine.Game
		if err := json.Unmarshal(state, &g); err != nil {
			s.log.WithError(err).Warn("skipping unreadable game snapshot")
			continue
		}
		games = append(games, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database: iterate snapshots: %w", err)
	}
	return games, nil
}

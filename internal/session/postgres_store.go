package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgxQuerier is the subset of pgxpool.Pool the store needs; pgxmock
// satisfies it in tests.
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore persists session state in a single table with a JSONB
// state column.
type PostgresStore struct {
	db pgxQuerier
}

// NewPostgresStore creates a Postgres-backed session store.
func NewPostgresStore(db pgxQuerier) *PostgresStore {
	if db == nil {
		panic("session: pgx pool cannot be nil")
	}
	return &PostgresStore{db: db}
}

// EnsureSchema creates the sessions table if it does not exist yet. The
// store owns its one table; there is no separate migration step.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS voicebook_sessions (
			session_id TEXT PRIMARY KEY,
			state      JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("session: ensure schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, sessionID string) (State, error) {
	if sessionID == "" {
		return State{}, ErrSessionIDRequired
	}
	var data []byte
	err := s.db.QueryRow(ctx, `
		SELECT state FROM voicebook_sessions WHERE session_id = $1
	`, sessionID).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return State{}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("session: load %s: %w", sessionID, err)
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, fmt.Errorf("session: decode %s: %w", sessionID, err)
	}
	return state, nil
}

func (s *PostgresStore) Save(ctx context.Context, sessionID string, state State) error {
	if sessionID == "" {
		return ErrSessionIDRequired
	}
	if state.UpdatedAt.IsZero() {
		state.UpdatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("session: encode %s: %w", sessionID, err)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO voicebook_sessions (session_id, state, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (session_id)
		DO UPDATE SET state = EXCLUDED.state, updated_at = EXCLUDED.updated_at
	`, sessionID, data, state.UpdatedAt)
	if err != nil {
		return fmt.Errorf("session: save %s: %w", sessionID, err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrSessionIDRequired
	}
	if _, err := s.db.Exec(ctx, `
		DELETE FROM voicebook_sessions WHERE session_id = $1
	`, sessionID); err != nil {
		return fmt.Errorf("session: delete %s: %w", sessionID, err)
	}
	return nil
}

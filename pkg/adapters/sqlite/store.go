package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mulesoft-labs/twiml/pkg/domain"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS calls (
	call_sid   TEXT PRIMARY KEY,
	flow       TEXT NOT NULL,
	status     TEXT NOT NULL,
	state      TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Store implements ports.CallStore on a local SQLite database. It suits
// single-node deployments that need call state to survive restarts without
// running a separate Redis.
type Store struct {
	db *sql.DB
}

// New opens (and if needed creates) the database at dbPath.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	// WAL keeps webhook writes from blocking concurrent reads.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to execute schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Save persists the call state, replacing any previous snapshot.
func (s *Store) Save(ctx context.Context, callSID string, state *domain.CallState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal call state: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO calls (call_sid, flow, status, state, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(call_sid) DO UPDATE SET
			flow = excluded.flow,
			status = excluded.status,
			state = excluded.state,
			updated_at = CURRENT_TIMESTAMP
	`, callSID, state.Flow, string(state.Status), string(data))
	if err != nil {
		return fmt.Errorf("upsert call: %w", err)
	}
	return nil
}

// Load retrieves the call state.
func (s *Store) Load(ctx context.Context, callSID string) (*domain.CallState, error) {
	var data string
	row := s.db.QueryRowContext(ctx, "SELECT state FROM calls WHERE call_sid = ?", callSID)
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCallNotFound
		}
		return nil, fmt.Errorf("get call: %w", err)
	}

	var state domain.CallState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal call state: %w", err)
	}
	if state.Digits == nil {
		state.Digits = make(map[string]string)
	}
	return &state, nil
}

// Delete removes the call state.
func (s *Store) Delete(ctx context.Context, callSID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM calls WHERE call_sid = ?", callSID)
	return err
}

// List returns the SIDs of stored calls.
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT call_sid FROM calls ORDER BY updated_at")
	if err != nil {
		return nil, fmt.Errorf("list calls: %w", err)
	}
	defer rows.Close()

	var calls []string
	for rows.Next() {
		var sid string
		if err := rows.Scan(&sid); err != nil {
			return nil, err
		}
		calls = append(calls, sid)
	}
	return calls, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

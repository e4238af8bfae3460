// Package sqlite persists slots in a single SQLite database, one row per
// slot. The payload column carries the same bare JSON array the file
// adapter writes, so the two stores are interchangeable behind core.Store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/jotkit/jot/pkg/core"
)

// DefaultFile is the database filename used when only a directory is given.
const DefaultFile = "jot.db"

// Config controls how the store opens its database.
type Config struct {
	Path   string // database file path
	Logger *slog.Logger
}

// Store implements core.Store over a slots table.
type Store struct {
	db     *sql.DB
	config Config

	entropyMu sync.Mutex
	entropy   *rand.Rand
}

// New opens or creates a SQLite database at the configured path.
func New(config Config) (*Store, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("sqlite: path is required")
	}

	dir := filepath.Dir(config.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", config.Path+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := NewWithDB(db, config)

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// NewWithDB wraps an already opened database handle. The caller owns the
// handle's lifecycle and schema.
func NewWithDB(db *sql.DB, config Config) *Store {
	return &Store{
		db:      db,
		config:  config,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *Store) newSnapshotID() string {
	s.entropyMu.Lock()
	defer s.entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS slots (
		key         TEXT PRIMARY KEY,
		payload     TEXT NOT NULL,
		snapshot_id TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Load reads a slot's payload. Any failure serves the default: a missing
// row, a scan error, and a corrupt payload all look the same to the caller.
func (s *Store) Load(ctx context.Context, key string, def core.Notes) core.Notes {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM slots WHERE key = ?`, key).Scan(&payload)
	if err != nil {
		if err != sql.ErrNoRows && s.config.Logger != nil {
			s.config.Logger.Debug("slot unreadable, serving default", "slot", key, "error", err)
		}
		return def
	}

	var notes core.Notes
	if err := json.Unmarshal([]byte(payload), &notes); err != nil {
		if s.config.Logger != nil {
			s.config.Logger.Debug("slot corrupt, serving default", "slot", key, "error", err)
		}
		return def
	}

	return notes
}

// Save upserts the slot row with a fresh snapshot id.
func (s *Store) Save(ctx context.Context, key string, value core.Notes) error {
	if value == nil {
		value = core.Notes{}
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode slot %s: %w", key, err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO slots (key, payload, snapshot_id, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			snapshot_id = excluded.snapshot_id,
			updated_at = excluded.updated_at`,
		key, string(payload), s.newSnapshotID(), now)
	if err != nil {
		return fmt.Errorf("upsert slot %s: %w", key, err)
	}

	return nil
}

// Snapshot returns the stored snapshot id for a slot, if any.
func (s *Store) Snapshot(ctx context.Context, key string) (string, bool) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT snapshot_id FROM slots WHERE key = ?`, key).Scan(&id)
	if err != nil {
		return "", false
	}
	return id, true
}

// Len reports the number of stored slots.
func (s *Store) Len(ctx context.Context) int {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM slots`).Scan(&n); err != nil {
		return 0
	}
	return n
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

var _ core.Store = (*Store)(nil)

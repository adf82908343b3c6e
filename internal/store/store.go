package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/yeseniachungo-gv/prototrack-mobile-sub000/internal/state"
)

const (
	currentVersion = 1

	// stateKey is the fixed key the whole tracker document lives under.
	stateKey = "prototrack/state"
)

// Store persists the tracker state as a single JSON document in SQLite.
// Saves are best-effort: a failed write is logged and otherwise ignored,
// the in-memory state stays authoritative for the session.
type Store struct {
	db  *sql.DB
	log *zap.Logger
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, log: logger}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory(logger *zap.Logger) (*Store, error) {
	return New(":memory:", logger)
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS documents (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);
	`
	_, err := s.db.Exec(ddl)
	return err
}

// Load reads the persisted document and repairs it for use. It never fails:
// a missing row, an unreadable database or a corrupt document all degrade to
// a fresh default state.
func (s *Store) Load(now time.Time) state.State {
	var raw string
	err := s.db.QueryRow("SELECT value FROM documents WHERE key = ?", stateKey).Scan(&raw)
	switch {
	case err == sql.ErrNoRows:
		return state.NewState(now)
	case err != nil:
		s.log.Warn("load state", zap.Error(err))
		return state.NewState(now)
	}

	var doc state.State
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		s.log.Warn("persisted state is corrupt, starting fresh", zap.Error(err))
		return state.NewState(now)
	}
	return state.Migrate(doc, now)
}

// Save writes the document under the fixed key. Errors are logged and
// swallowed; callers fire and forget.
func (s *Store) Save(doc state.State) {
	raw, err := json.Marshal(doc)
	if err != nil {
		s.log.Error("marshal state", zap.Error(err))
		return
	}
	_, err = s.db.Exec(`
		INSERT INTO documents (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		stateKey, string(raw), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		s.log.Error("save state", zap.Error(err))
	}
}

// DefaultDBPath returns ~/.config/prototrack/prototrack.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "prototrack", "prototrack.db"), nil
}

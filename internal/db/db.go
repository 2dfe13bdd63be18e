package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"culiflow/internal/migrate"
)

const defaultDBName = "culiflow.db"

type Config struct {
	Workspace string
}

func dbPath(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, ".culiflow", defaultDBName)
}

// EnsureWorkspace creates the workspace directory if missing.
func EnsureWorkspace(workspace string) (string, error) {
	path := filepath.Join(workspace, ".culiflow")
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", err
	}
	return path, nil
}

// Open opens the SQLite database with foreign keys on. Callers that need a
// shared migrated handle should go through a Handle instead.
func Open(cfg Config) (*sql.DB, error) {
	if _, err := EnsureWorkspace(cfg.Workspace); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=foreign_keys(1)", dbPath(cfg.Workspace))
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Handle is a one-time guarded construction of the store connection. The
// first caller opens the database and runs schema migrations; every later
// caller observes the same fully-migrated *sql.DB. Concurrent early callers
// never see a partially-upgraded schema.
type Handle struct {
	cfg  Config
	once sync.Once
	conn *sql.DB
	err  error
}

func NewHandle(cfg Config) *Handle {
	return &Handle{cfg: cfg}
}

// DB returns the shared migrated connection, opening it on first use.
func (h *Handle) DB() (*sql.DB, error) {
	h.once.Do(func() {
		conn, err := Open(h.cfg)
		if err != nil {
			h.err = err
			return
		}
		if err := migrate.Migrate(conn); err != nil {
			conn.Close()
			h.err = err
			return
		}
		h.conn = conn
	})
	return h.conn, h.err
}

// Close closes the connection if it was ever opened.
func (h *Handle) Close() error {
	if h.conn != nil {
		return h.conn.Close()
	}
	return nil
}

// Path returns the db path for the workspace.
func Path(workspace string) string {
	return dbPath(workspace)
}

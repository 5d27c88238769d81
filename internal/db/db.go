package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hpungsan/molgraph/internal/config"
	_ "modernc.org/sqlite"
)

// CurrentSchemaVersion is the latest schema version.
// Bump this when adding migrations.
const CurrentSchemaVersion = 1

// FileName is the database file created inside the base directory.
const FileName = "molgraph.db"

// Execer is satisfied by both *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Init initializes the SQLite database at baseDir/molgraph.db.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.molgraph.
func Init(baseDir string) (*sql.DB, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	// Explicit chmod (best-effort, may not work on all platforms)
	_ = os.Chmod(baseDir, 0700)

	exportsDir := filepath.Join(baseDir, "exports")
	if err := os.MkdirAll(exportsDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create exports directory: %w", err)
	}
	_ = os.Chmod(exportsDir, 0700)

	// Pragmas in the connection string apply to every pooled connection
	dbPath := filepath.Join(baseDir, FileName)
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := verifyWALMode(db); err != nil {
		db.Close()
		return nil, err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	_ = os.Chmod(dbPath, 0600)

	return db, nil
}

// ConfigurePool applies connection pool settings from config.
// Only sets limits if explicitly configured (non-zero values).
func ConfigurePool(db *sql.DB, cfg *config.Config) {
	if cfg == nil {
		return
	}
	if cfg.DBMaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	}
	if cfg.DBMaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	}
}

// migrate applies schema migrations based on user_version.
func migrate(db *sql.DB) error {
	version, err := GetUserVersion(db)
	if err != nil {
		return err
	}

	// Migration 0 -> 1: Initial schema
	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS batches (
		  id           TEXT PRIMARY KEY,
		  source       TEXT NOT NULL,
		  total        INTEGER NOT NULL DEFAULT 0,
		  decoded      INTEGER NOT NULL DEFAULT 0,
		  failed       INTEGER NOT NULL DEFAULT 0,
		  started_at   INTEGER NOT NULL,
		  finished_at  INTEGER
		);

		CREATE TABLE IF NOT EXISTS molecules (
		  id                 TEXT PRIMARY KEY,
		  name_raw           TEXT NOT NULL,
		  name_norm          TEXT NOT NULL,
		  smiles_raw         TEXT NOT NULL,
		  smiles_norm        TEXT NOT NULL,
		  atom_count         INTEGER NOT NULL,
		  bond_count         INTEGER NOT NULL,
		  ring_count         INTEGER NOT NULL,
		  aromatic_rings     INTEGER NOT NULL,
		  non_aromatic_rings INTEGER NOT NULL,
		  charged            INTEGER NOT NULL,
		  amino_acid         INTEGER NOT NULL,
		  graph_json         TEXT NOT NULL,
		  batch_id           TEXT REFERENCES batches(id) ON DELETE SET NULL,
		  created_at         INTEGER NOT NULL,
		  deleted_at         INTEGER
		);

		CREATE INDEX IF NOT EXISTS idx_molecules_created
		ON molecules(created_at DESC)
		WHERE deleted_at IS NULL;

		CREATE INDEX IF NOT EXISTS idx_molecules_name_norm
		ON molecules(name_norm, created_at DESC);

		CREATE INDEX IF NOT EXISTS idx_molecules_batch
		ON molecules(batch_id)
		WHERE batch_id IS NOT NULL;

		CREATE TABLE IF NOT EXISTS failures (
		  batch_id  TEXT NOT NULL REFERENCES batches(id) ON DELETE CASCADE,
		  line      INTEGER NOT NULL,
		  name      TEXT NOT NULL,
		  smiles    TEXT NOT NULL,
		  code      TEXT NOT NULL,
		  message   TEXT NOT NULL,
		  PRIMARY KEY (batch_id, line)
		);
		`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if err := SetUserVersion(db, 1); err != nil {
			return err
		}
	}

	return nil
}

// verifyWALMode checks that WAL mode is active (set via connection string).
func verifyWALMode(db *sql.DB) error {
	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode;").Scan(&journalMode); err != nil {
		return fmt.Errorf("failed to verify journal mode: %w", err)
	}
	if journalMode != "wal" {
		return fmt.Errorf("expected WAL mode, got %s", journalMode)
	}
	return nil
}

// GetUserVersion returns the current schema version (user_version pragma).
func GetUserVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get user_version: %w", err)
	}
	return version, nil
}

// SetUserVersion sets the schema version (user_version pragma).
func SetUserVersion(db *sql.DB, version int) error {
	_, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", version))
	if err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}

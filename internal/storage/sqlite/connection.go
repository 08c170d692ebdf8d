// -----------------------------------------------------------------------
// Last Modified: Monday, 1st September 2025
// -----------------------------------------------------------------------

package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ternarybob/arbor"
	"github.com/twokomi/oneclick-reports-backend/internal/common"

	_ "modernc.org/sqlite"
)

// DB wraps the sqlite connection used by the report store.
type DB struct {
	db     *sql.DB
	logger arbor.ILogger
}

// NewDB opens (creating if necessary) the sqlite database at the configured
// path, applies pragmas, and runs migrations.
func NewDB(logger arbor.ILogger, config *common.SQLiteConfig) (*DB, error) {
	dir := filepath.Dir(config.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := applyPragmas(db, config); err != nil {
		db.Close()
		return nil, err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info().Str("path", config.Path).Msg("SQLite database opened")

	return &DB{db: db, logger: logger}, nil
}

func applyPragmas(db *sql.DB, config *common.SQLiteConfig) error {
	pragmas := []string{
		fmt.Sprintf("PRAGMA cache_size = -%d", config.CacheSizeMB*1024),
		fmt.Sprintf("PRAGMA busy_timeout = %d", config.BusyTimeoutMS),
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	if config.WALMode {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to apply pragma %q: %w", pragma, err)
		}
	}
	return nil
}

func migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		kind TEXT NOT NULL,
		mode TEXT NOT NULL,
		date TEXT NOT NULL,
		title TEXT NOT NULL,
		markdown TEXT NOT NULL,
		sources TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_reports_kind ON reports(kind);
	CREATE INDEX IF NOT EXISTS idx_reports_date ON reports(date DESC);
	`
	_, err := db.Exec(schema)
	return err
}

// Conn exposes the underlying connection for the report store.
func (d *DB) Conn() *sql.DB {
	return d.db
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

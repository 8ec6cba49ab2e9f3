package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (artifacts without format_version)
// 1 - Added artifacts.format_version
const currentSchemaVersion = 1

// FormatVersion is the artifact format written by SQLite.Save. Artifacts
// stored with an older version load as dirty so the next save rewrites them.
const FormatVersion = 1

// SQLite stores artifacts as rows in a single database, so a whole project's
// snapshots can live in one file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite creates or opens a SQLite database at the given path.
// Applies required pragmas and migrations automatically.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Load reads the artifact stored under path. An unknown path is an empty
// mapping. dirty is true when the artifact was written by an older format or
// holds rows Save would write differently (CRLF line endings); such rows are
// returned normalized.
func (s *SQLite) Load(ctx context.Context, path string) (Data, bool, error) {
	var version int
	err := s.db.QueryRowContext(ctx,
		`SELECT format_version FROM artifacts WHERE path = ?`, path,
	).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return make(Data), false, nil
	}
	if err != nil {
		return nil, false, ioError("load", path, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM snapshots WHERE path = ? ORDER BY key COLLATE BINARY`, path)
	if err != nil {
		return nil, false, ioError("load", path, err)
	}
	defer rows.Close()

	data := make(Data)
	dirty := version < FormatVersion
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, false, ioError("load", path, err)
		}
		nk, nv := NormalizeNewlines(key), NormalizeNewlines(value)
		if nk != key || nv != value {
			dirty = true
		}
		data[nk] = nv
	}
	if err := rows.Err(); err != nil {
		return nil, false, ioError("load", path, err)
	}

	return data, dirty, nil
}

// Save replaces the artifact stored under path with data in one transaction.
func (s *SQLite) Save(ctx context.Context, data Data, path string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ioError("save", path, err)
	}
	defer tx.Rollback() // No-op if committed

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO artifacts (path, format_version) VALUES (?, ?)
		ON CONFLICT(path) DO UPDATE SET format_version = excluded.format_version
	`, path, FormatVersion); err != nil {
		return ioError("save", path, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE path = ?`, path); err != nil {
		return ioError("save", path, err)
	}

	for _, key := range data.Keys() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO snapshots (path, key, value) VALUES (?, ?, ?)`,
			path, NormalizeNewlines(key), NormalizeNewlines(data[key]),
		); err != nil {
			return ioError("save", path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return ioError("save", path, err)
	}
	return nil
}

// Exists reports whether an artifact is stored under path.
func (s *SQLite) Exists(ctx context.Context, path string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM artifacts WHERE path = ?`, path).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, ioError("exists", path, err)
	}
	return true, nil
}

// Remove deletes the artifact stored under path and all its snapshots.
// Removing an unknown path is a no-op.
func (s *SQLite) Remove(ctx context.Context, path string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM artifacts WHERE path = ?`, path); err != nil {
		return ioError("remove", path, err)
	}
	return nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
// This function is idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// migrateToV1 adds artifacts.format_version to databases created before it
// existed. New databases already get the column from schema.sql.
func migrateToV1(db *sql.DB) error {
	has, err := hasColumn(db, "artifacts", "format_version")
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	if has {
		return nil
	}

	if _, err := db.Exec(`ALTER TABLE artifacts ADD COLUMN format_version INTEGER NOT NULL DEFAULT 0`); err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	return nil
}

func hasColumn(db *sql.DB, table, column string) (bool, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

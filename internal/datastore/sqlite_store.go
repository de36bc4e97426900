package datastore

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"sitewatch/internal/errorwrapper"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// SQLiteStore is a KeyValueStore backed by a single-table sqlite database.
type SQLiteStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewSQLiteStore opens (creating if necessary) the sqlite database at
// dataSourceName and ensures the kv schema exists.
func NewSQLiteStore(dataSourceName string, logger zerolog.Logger) (*SQLiteStore, error) {
	instanceLogger := logger.With().Str("component", "SQLiteStore").Logger()
	instanceLogger.Info().Str("db_path", dataSourceName).Msg("Initializing key-value store")

	dbDir := filepath.Dir(dataSourceName)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, errorwrapper.WrapError(err, "failed to create store directory "+dbDir)
	}

	dbInstance, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, errorwrapper.WrapError(err, "sql.Open failed for "+dataSourceName)
	}

	store := &SQLiteStore{
		db:     dbInstance,
		logger: instanceLogger,
	}

	if err := store.initSchema(); err != nil {
		_ = store.Close()
		return nil, errorwrapper.WrapError(err, "failed to initialize kv schema")
	}
	return store, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);
	`
	_, err := s.db.Exec(query)
	return err
}

// Get returns the value stored under key, if any.
func (s *SQLiteStore) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, errorwrapper.NewStorageError("get", key, err)
	}
	return value, true, nil
}

// Put writes value under key, overwriting any previous value.
func (s *SQLiteStore) Put(key, value string) error {
	query := `INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	if _, err := s.db.Exec(query, key, value, time.Now().UTC()); err != nil {
		return errorwrapper.NewStorageError("put", key, err)
	}
	return nil
}

// Delete removes key from the store.
func (s *SQLiteStore) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return errorwrapper.NewStorageError("delete", key, err)
	}
	return nil
}

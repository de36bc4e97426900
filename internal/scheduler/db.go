package scheduler

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"sitewatch/internal/errorwrapper"
)

// DB wraps the SQL database connection holding the pass history.
type DB struct {
	db     *sql.DB
	logger zerolog.Logger
}

// PassHistoryEntry represents a record in the pass_history table.
type PassHistoryEntry struct {
	ID             int64
	PassStartTime  time.Time
	PassEndTime    sql.NullTime
	Forced         bool
	ProcessedCount int
	ErrorCount     int
	NewURLCount    int
}

// NewDB initializes the pass-history database and ensures the schema is set up.
func NewDB(dataSourceName string, logger zerolog.Logger) (*DB, error) {
	instanceLogger := logger.With().Str("component", "SchedulerDB").Logger()
	instanceLogger.Info().Str("db_path", dataSourceName).Msg("Initializing scheduler database connection")

	dbDir := filepath.Dir(dataSourceName)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, errorwrapper.WrapError(err, "failed to create scheduler database directory "+dbDir)
	}

	dbInstance, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, errorwrapper.WrapError(err, "sql.Open failed for "+dataSourceName)
	}

	db := &DB{
		db:     dbInstance,
		logger: instanceLogger,
	}

	if err := db.initSchema(); err != nil {
		_ = db.Close()
		return nil, errorwrapper.WrapError(err, "failed to initialize pass_history schema")
	}
	return db, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

func (d *DB) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS pass_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		pass_start_time DATETIME NOT NULL,
		pass_end_time DATETIME,
		forced INTEGER NOT NULL DEFAULT 0,
		processed_count INTEGER DEFAULT 0,
		error_count INTEGER DEFAULT 0,
		new_url_count INTEGER DEFAULT 0
	);
	`
	_, err := d.db.Exec(query)
	if err != nil {
		d.logger.Error().Err(err).Msg("Failed to initialize pass_history schema")
	}
	return err
}

// RecordPassStart inserts a new pass record and returns its row ID.
func (d *DB) RecordPassStart(startTime time.Time, forced bool) (int64, error) {
	result, err := d.db.Exec(
		`INSERT INTO pass_history (pass_start_time, forced) VALUES (?, ?)`,
		startTime, forced,
	)
	if err != nil {
		return 0, errorwrapper.WrapError(err, "failed to insert pass start record")
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, errorwrapper.WrapError(err, "failed to get last insert ID")
	}
	d.logger.Debug().Int64("db_id", id).Msg("Recorded pass start")
	return id, nil
}

// UpdatePassCompletion updates an existing pass record with its results.
func (d *DB) UpdatePassCompletion(passID int64, endTime time.Time, processedCount, errorCount, newURLCount int) error {
	_, err := d.db.Exec(
		`UPDATE pass_history SET pass_end_time = ?, processed_count = ?, error_count = ?, new_url_count = ? WHERE id = ?`,
		endTime, processedCount, errorCount, newURLCount, passID,
	)
	if err != nil {
		return errorwrapper.WrapError(err, "failed to update pass completion")
	}
	d.logger.Debug().Int64("db_id", passID).Int("processed", processedCount).Msg("Recorded pass completion")
	return nil
}

// GetLastPassTime retrieves the start time of the most recent completed pass.
func (d *DB) GetLastPassTime() (*time.Time, error) {
	var startTime time.Time
	err := d.db.QueryRow(
		`SELECT pass_start_time FROM pass_history WHERE pass_end_time IS NOT NULL ORDER BY pass_start_time DESC LIMIT 1`,
	).Scan(&startTime)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to query last pass time")
	}
	return &startTime, nil
}

package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/davitra/fleetboard/internal/models"
)

// Archive is the sqlite store of every sample fetched by recap runs. Each
// run appends; nothing ever rewrites past rows.
type Archive struct {
	db *sql.DB
}

const archiveSchema = `
CREATE TABLE IF NOT EXISTS samples (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	device     TEXT    NOT NULL,
	ts         INTEGER NOT NULL,
	lat        REAL    NOT NULL,
	lon        REAL    NOT NULL,
	fetched_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_samples_device_ts ON samples(device, ts);
`

// OpenArchive opens (creating if needed) the archive at path.
func OpenArchive(path string) (*Archive, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create archive dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	// WAL keeps a concurrent report server read from blocking the batch write.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if _, err := db.Exec(archiveSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create archive schema: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping archive: %w", err)
	}

	return &Archive{db: db}, nil
}

// InsertTrail appends all samples of one device's trail in a single
// transaction, stamped with the fetch time.
func (a *Archive) InsertTrail(deviceName string, t models.Trail) error {
	if len(t) == 0 {
		return nil
	}

	tx, err := a.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin archive transaction: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO samples (device, ts, lat, lon, fetched_at) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare archive insert: %w", err)
	}
	defer stmt.Close()

	fetchedAt := time.Now().UnixMilli()
	for _, s := range t {
		if _, err := stmt.Exec(deviceName, s.Ts, s.Lat, s.Lon, fetchedAt); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to archive sample: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit archive transaction: %w", err)
	}
	return nil
}

// CountSamples returns the number of archived samples for a device.
func (a *Archive) CountSamples(deviceName string) (int64, error) {
	var n int64
	err := a.db.QueryRow("SELECT COUNT(*) FROM samples WHERE device = ?", deviceName).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count archived samples: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (a *Archive) Close() error {
	return a.db.Close()
}

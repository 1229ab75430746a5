package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ivannnito/AstroViewingConditions/internal/conditions"
	"github.com/ivannnito/AstroViewingConditions/pkg/logger"
)

// slotID keys the single snapshot row. The table holds exactly one slot: the
// most recent snapshot, overwritten on every persist.
const slotID = 1

// SnapshotStorage is a SQLite-backed store for the most recent viewing
// conditions snapshot. The source latitude and longitude are kept as scalar
// columns alongside the serialized payload so identity can be inspected
// without deserializing the whole blob.
type SnapshotStorage struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewSnapshotStorage opens (or creates) the snapshot database at the given
// path and initializes the schema.
func NewSnapshotStorage(dbPath string, log *logger.Logger) (*SnapshotStorage, error) {
	storageLogger := log.Named("sqlite")

	storageLogger.Info("Initializing SQLite snapshot storage",
		logger.String("path", dbPath))

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to set journal mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	storage := &SnapshotStorage{
		db:     db,
		logger: storageLogger,
	}

	if err := storage.initDB(); err != nil {
		db.Close()
		return nil, err
	}

	return storage, nil
}

func (s *SnapshotStorage) initDB() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS snapshots (
			slot INTEGER PRIMARY KEY,
			location_name TEXT NOT NULL,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			fetched_at TIMESTAMP NOT NULL,
			payload BLOB NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create snapshots table: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SnapshotStorage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveSnapshot serializes the snapshot into the slot, overwriting the
// previous one.
func (s *SnapshotStorage) SaveSnapshot(ctx context.Context, snapshot *conditions.ViewingConditions) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (slot, location_name, latitude, longitude, fetched_at, payload)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET
			location_name = excluded.location_name,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			fetched_at = excluded.fetched_at,
			payload = excluded.payload`,
		slotID,
		snapshot.Location.Name,
		snapshot.Location.Latitude,
		snapshot.Location.Longitude,
		snapshot.FetchedAt.Format(time.RFC3339Nano),
		payload,
	)
	if err != nil {
		return fmt.Errorf("failed to persist snapshot: %w", err)
	}

	s.logger.Debug("Snapshot persisted",
		logger.String("location", snapshot.Location.Name),
		logger.Int("payload_bytes", len(payload)))

	return nil
}

// LoadSnapshot restores the persisted snapshot. A missing row or a corrupt
// or schema-incompatible payload yields (nil, nil): cache corruption is
// recovered silently, never surfaced as an error.
func (s *SnapshotStorage) LoadSnapshot(ctx context.Context) (*conditions.ViewingConditions, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM snapshots WHERE slot = ?`, slotID,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snapshot conditions.ViewingConditions
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		s.logger.Warn("Persisted snapshot unreadable, treating cache as empty",
			logger.Error(err))
		return nil, nil
	}

	return &snapshot, nil
}

// SnapshotIdentity reports the stored slot's location name and coordinates
// without deserializing the payload. ok is false when the slot is empty.
func (s *SnapshotStorage) SnapshotIdentity(ctx context.Context) (name string, lat, lon float64, ok bool, err error) {
	err = s.db.QueryRowContext(ctx,
		`SELECT location_name, latitude, longitude FROM snapshots WHERE slot = ?`, slotID,
	).Scan(&name, &lat, &lon)
	if errors.Is(err, sql.ErrNoRows) {
		return "", 0, 0, false, nil
	}
	if err != nil {
		return "", 0, 0, false, fmt.Errorf("failed to read snapshot identity: %w", err)
	}
	return name, lat, lon, true, nil
}

package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// Export records one completed dialog export.
type Export struct {
	// ID of this export.
	ID string
	// The peer the dialog was exported with.
	PeerID   int64
	PeerName string
	Username string
	// Number of messages in the bundle.
	MessageCount int
	// Paths of the two output documents.
	JSONPath string
	HTMLPath string
	// Time at which the export completed.
	ExportTimestamp int64
}

// Store implements a SQLite ledger of completed exports.
type Store struct {
	db *sql.DB
}

// New store.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}

	// Create exports table if it doesn't exist
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS exports (
			id TEXT PRIMARY KEY,
			peer_id INTEGER NOT NULL,
			peer_name TEXT NOT NULL,
			username TEXT NOT NULL,
			message_count INTEGER NOT NULL,
			json_path TEXT NOT NULL,
			html_path TEXT NOT NULL,
			export_timestamp INTEGER NOT NULL
		)
	`)
	if err != nil {
		return nil, errors.Wrap(err, "creating exports table")
	}

	return &Store{
		db: db,
	}, nil
}

// Record an export in the ledger.
func (s *Store) Record(export *Export) error {
	if export.ID == "" {
		export.ID = uuid.New().String()[:8]
	}
	if export.ExportTimestamp == 0 {
		export.ExportTimestamp = time.Now().Unix()
	}

	_, err := s.db.Exec(`
		REPLACE INTO exports (id, peer_id, peer_name, username, message_count, json_path, html_path, export_timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, export.ID, export.PeerID, export.PeerName, export.Username, export.MessageCount, export.JSONPath, export.HTMLPath, export.ExportTimestamp)

	if err != nil {
		return errors.Wrap(err, "writing export to database")
	}
	return nil
}

// List the most recent exports in the ledger.
func (s *Store) List(pageSize int) ([]*Export, error) {
	rows, err := s.db.Query(`
		SELECT id, peer_id, peer_name, username, message_count, json_path, html_path, export_timestamp
		FROM exports
		ORDER BY export_timestamp DESC
		LIMIT ?
	`, pageSize)
	if err != nil {
		return nil, errors.Wrap(err, "querying exports")
	}
	defer rows.Close()

	var exports []*Export
	for rows.Next() {
		export := &Export{}
		if err := rows.Scan(
			&export.ID, &export.PeerID, &export.PeerName, &export.Username,
			&export.MessageCount, &export.JSONPath, &export.HTMLPath, &export.ExportTimestamp,
		); err != nil {
			return nil, errors.Wrap(err, "scanning export row")
		}
		exports = append(exports, export)
	}

	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating export rows")
	}

	return exports, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Package session persists save snapshots in a local SQLite database,
// keyed by slot name. One database holds any number of named slots;
// writing an existing slot overwrites it.
package session

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a slot does not exist.
var ErrNotFound = errors.New("save slot not found")

const schema = `
CREATE TABLE IF NOT EXISTS saves (
	slot     TEXT PRIMARY KEY,
	saved_at INTEGER NOT NULL,
	data     BLOB NOT NULL
);`

// Slot describes a stored save.
type Slot struct {
	Name    string
	SavedAt time.Time
}

// Store is a slot-keyed save database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the save database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating save directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening save database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing save database: %w", err)
	}
	return &Store{db: db}, nil
}

// Put writes a snapshot into a slot, replacing any previous save there.
func (s *Store) Put(slot string, data []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO saves (slot, saved_at, data) VALUES (?, ?, ?)
		 ON CONFLICT(slot) DO UPDATE SET saved_at = excluded.saved_at, data = excluded.data`,
		slot, time.Now().Unix(), data,
	)
	if err != nil {
		return fmt.Errorf("writing slot %q: %w", slot, err)
	}
	return nil
}

// Get reads the snapshot stored in a slot.
func (s *Store) Get(slot string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(`SELECT data FROM saves WHERE slot = ?`, slot).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading slot %q: %w", slot, err)
	}
	return data, nil
}

// List returns all slots, most recently saved first.
func (s *Store) List() ([]Slot, error) {
	rows, err := s.db.Query(`SELECT slot, saved_at FROM saves ORDER BY saved_at DESC, slot`)
	if err != nil {
		return nil, fmt.Errorf("listing slots: %w", err)
	}
	defer rows.Close()

	var slots []Slot
	for rows.Next() {
		var name string
		var savedAt int64
		if err := rows.Scan(&name, &savedAt); err != nil {
			return nil, fmt.Errorf("listing slots: %w", err)
		}
		slots = append(slots, Slot{Name: name, SavedAt: time.Unix(savedAt, 0)})
	}
	return slots, rows.Err()
}

// Delete removes a slot.
func (s *Store) Delete(slot string) error {
	res, err := s.db.Exec(`DELETE FROM saves WHERE slot = ?`, slot)
	if err != nil {
		return fmt.Errorf("deleting slot %q: %w", slot, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Package sqlite backs the document store with a single-file SQLite
// database. Each document (the tree collection, the pin list) is one JSON
// blob row, keeping the load/save-whole-document contract identical to the
// journal driver.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"relatree/domain/tree"
	apperrors "relatree/pkg/errors"
)

// Document keys.
const (
	keyTrees = "trees"
	keyPins  = "pins"
)

// Store implements ports.DocumentStore and ports.PinStore over SQLite.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewStore opens (or creates) the database at path and runs migrations.
func NewStore(path string, logger *zap.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, apperrors.NewStoreError("open database", err)
	}

	s := &Store{db: db, logger: logger}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, apperrors.NewStoreError("migrate database", err)
	}

	logger.Info("SQLite store opened", zap.String("path", path))
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		key TEXT PRIMARY KEY,
		value JSON NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) loadDocument(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM documents WHERE key = ?`, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewStoreError("read document", err)
	}
	return value, nil
}

func (s *Store) saveDocument(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return apperrors.NewStoreError("write document", err)
	}
	return nil
}

// Load reads the persisted collection, empty if none was saved yet.
func (s *Store) Load(ctx context.Context) (tree.Collection, error) {
	data, err := s.loadDocument(ctx, keyTrees)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return tree.NewCollection(), nil
	}

	var collection tree.Collection
	if err := json.Unmarshal(data, &collection); err != nil {
		return nil, apperrors.NewStoreError("decode trees document", err)
	}
	if collection == nil {
		collection = tree.NewCollection()
	}
	return collection, nil
}

// Save writes the whole collection back as one row.
func (s *Store) Save(ctx context.Context, c tree.Collection) error {
	data, err := json.Marshal(c)
	if err != nil {
		return apperrors.NewStoreError("encode trees document", err)
	}
	return s.saveDocument(ctx, keyTrees, data)
}

// LoadPins reads the stored annotations.
func (s *Store) LoadPins(ctx context.Context) ([]tree.Pin, error) {
	data, err := s.loadDocument(ctx, keyPins)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var pins []tree.Pin
	if err := json.Unmarshal(data, &pins); err != nil {
		return nil, apperrors.NewStoreError("decode pins document", err)
	}
	return pins, nil
}

// SavePins writes the annotations back.
func (s *Store) SavePins(ctx context.Context, pins []tree.Pin) error {
	data, err := json.Marshal(pins)
	if err != nil {
		return apperrors.NewStoreError("encode pins document", err)
	}
	return s.saveDocument(ctx, keyPins, data)
}

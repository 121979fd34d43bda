package journal

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"relatree/domain/tree"
	apperrors "relatree/pkg/errors"
)

// PinsFile sits next to the journal file and holds the map annotations.
const PinsFile = "map-pins.json"

// Store keeps the whole collection in one JSON document on disk. First load
// creates an empty document. Writes go through a temp file and a rename so a
// crash mid-write never leaves a torn journal behind.
type Store struct {
	path     string
	pinsPath string
	mu       sync.Mutex
	logger   *zap.Logger
}

// NewStore opens (or creates) the journal document at path.
func NewStore(path string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, apperrors.NewStoreError("create data dir", err)
	}

	s := &Store{
		path:     path,
		pinsPath: filepath.Join(filepath.Dir(path), PinsFile),
		logger:   logger,
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := writeAtomic(path, []byte("{}\n")); err != nil {
			return nil, err
		}
		logger.Info("Journal created", zap.String("path", path))
	} else if err != nil {
		return nil, apperrors.NewStoreError("stat journal", err)
	}

	return s, nil
}

// Path returns the journal file location, for the change watcher.
func (s *Store) Path() string {
	return s.path
}

// Close releases store resources. The journal store keeps no handles
// open between operations, so this is a no-op.
func (s *Store) Close() error {
	return nil
}

// Load reads the persisted collection.
func (s *Store) Load(ctx context.Context) (tree.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return tree.NewCollection(), nil
	}
	if err != nil {
		return nil, apperrors.NewStoreError("read journal", err)
	}
	if len(data) == 0 {
		return tree.NewCollection(), nil
	}

	var collection tree.Collection
	if err := json.Unmarshal(data, &collection); err != nil {
		return nil, apperrors.NewStoreError("decode journal", err)
	}
	if collection == nil {
		collection = tree.NewCollection()
	}
	return collection, nil
}

// Save writes the whole collection back.
func (s *Store) Save(ctx context.Context, c tree.Collection) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return apperrors.NewStoreError("encode journal", err)
	}
	return writeAtomic(s.path, data)
}

// LoadPins reads the stored annotations.
func (s *Store) LoadPins(ctx context.Context) ([]tree.Pin, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.pinsPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewStoreError("read pins", err)
	}

	var pins []tree.Pin
	if err := json.Unmarshal(data, &pins); err != nil {
		return nil, apperrors.NewStoreError("decode pins", err)
	}
	return pins, nil
}

// SavePins writes the annotations back.
func (s *Store) SavePins(ctx context.Context, pins []tree.Pin) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(pins, "", "  ")
	if err != nil {
		return apperrors.NewStoreError("encode pins", err)
	}
	return writeAtomic(s.pinsPath, data)
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return apperrors.NewStoreError("create temp file", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return apperrors.NewStoreError("write temp file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return apperrors.NewStoreError("close temp file", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return apperrors.NewStoreError("replace journal", err)
	}
	return nil
}

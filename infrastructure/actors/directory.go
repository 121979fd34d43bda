// Package actors provides a file-backed directory of the actors that
// reference nodes can point at.
package actors

import (
	"encoding/json"
	"os"
	"sync"

	"go.uber.org/zap"

	"relatree/application/ports"
)

type record struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// Directory resolves actor IDs to display information. The backing file
// is a JSON array of {id, name, image} records maintained by the host
// application; a missing file yields an empty directory so every lookup
// falls back to the placeholder rendering.
type Directory struct {
	mu     sync.RWMutex
	path   string
	byID   map[string]ports.ActorInfo
	logger *zap.Logger
}

// NewDirectory loads the actor directory from path.
func NewDirectory(path string, logger *zap.Logger) (*Directory, error) {
	d := &Directory{
		path:   path,
		byID:   make(map[string]ports.ActorInfo),
		logger: logger,
	}
	if err := d.Reload(); err != nil {
		return nil, err
	}
	return d, nil
}

// Reload re-reads the backing file, replacing the in-memory index.
func (d *Directory) Reload() error {
	data, err := os.ReadFile(d.path)
	if os.IsNotExist(err) {
		d.logger.Info("Actor directory file not found, starting empty",
			zap.String("path", d.path))
		return nil
	}
	if err != nil {
		return err
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return err
	}

	byID := make(map[string]ports.ActorInfo, len(records))
	for _, r := range records {
		if r.ID == "" {
			continue
		}
		byID[r.ID] = ports.ActorInfo{Name: r.Name, Image: r.Image}
	}

	d.mu.Lock()
	d.byID = byID
	d.mu.Unlock()

	d.logger.Info("Actor directory loaded",
		zap.String("path", d.path),
		zap.Int("actors", len(byID)))
	return nil
}

// Resolve implements ports.ActorResolver.
func (d *Directory) Resolve(actorID string) (ports.ActorInfo, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	info, ok := d.byID[actorID]
	return info, ok
}

// Count reports how many actors are currently indexed.
func (d *Directory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.byID)
}

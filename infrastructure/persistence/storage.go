// Package persistence defines the backend-neutral storage contract the
// concrete stores (journal, sqlite) implement.
package persistence

import (
	"relatree/application/ports"
)

// Storage is the full persistence surface a backend must provide: the
// tree document, the map pins, and a Close for backends that hold open
// handles.
type Storage interface {
	ports.DocumentStore
	ports.PinStore
	Close() error
}

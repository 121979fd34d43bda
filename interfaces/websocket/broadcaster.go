package websocket

import (
	"go.uber.org/zap"

	"relatree/domain/tree"
)

// Broadcaster adapts the hub to the application's broadcast port.
// Fire-and-forget: publish failures are logged, never surfaced to the
// operation that triggered them.
type Broadcaster struct {
	hub    *Hub
	logger *zap.Logger
}

// NewBroadcaster creates a hub-backed broadcaster.
func NewBroadcaster(hub *Hub, logger *zap.Logger) *Broadcaster {
	return &Broadcaster{hub: hub, logger: logger}
}

// ShowTree tells every connected viewer to open the tree.
func (b *Broadcaster) ShowTree(id tree.TreeID) {
	payload := struct {
		TreeID tree.TreeID `json:"treeId"`
	}{TreeID: id}

	if err := b.hub.Publish(EventShowTree, payload); err != nil {
		b.logger.Warn("Failed to broadcast tree", zap.String("treeID", id.String()), zap.Error(err))
	}
}

// CollectionChanged signals that the persisted collection was rewritten.
func (b *Broadcaster) CollectionChanged() {
	if err := b.hub.Publish(EventCollectionChanged, nil); err != nil {
		b.logger.Warn("Failed to broadcast collection change", zap.Error(err))
	}
}

// PinAdded announces a new map annotation.
func (b *Broadcaster) PinAdded(pin tree.Pin) {
	if err := b.hub.Publish(EventPinAdded, pin); err != nil {
		b.logger.Warn("Failed to broadcast pin", zap.Error(err))
	}
}

package ports

import (
	"context"

	"relatree/domain/tree"
)

// DocumentStore persists the whole collection as one document. Implementations
// create an empty collection on first use. The read/modify/write cycle is not
// transactional: two sessions against the same store can race and the last
// write wins. That matches the upstream behavior and is a documented
// limitation, not a gap to fix here.
type DocumentStore interface {
	// Load returns the persisted collection, creating an empty one if none
	// exists yet.
	Load(ctx context.Context) (tree.Collection, error)

	// Save writes the whole collection back.
	Save(ctx context.Context, c tree.Collection) error
}

// PinStore persists map annotations under their own document key.
type PinStore interface {
	LoadPins(ctx context.Context) ([]tree.Pin, error)
	SavePins(ctx context.Context, pins []tree.Pin) error
}

// ActorInfo is the display data resolved for a reference node.
type ActorInfo struct {
	Name  string
	Image string
}

// ActorResolver resolves externally-owned actors by id. Used only for
// reference nodes; a false return means the reference no longer resolves and
// the renderer falls back to placeholder display data.
type ActorResolver interface {
	Resolve(id string) (ActorInfo, bool)
}

// ChoiceOption is one button of a multi-button prompt.
type ChoiceOption struct {
	Key   string
	Label string
}

// Prompter asks the user questions during interactive flows (import conflict
// resolution, bulk confirmation). A false ok means the prompt was dismissed.
type Prompter interface {
	// Confirm asks a yes/no question.
	Confirm(text string) bool

	// PromptText asks for a single line of text with a prefilled default.
	PromptText(title, def string) (string, bool)

	// Choose presents a multi-button choice and returns the picked key.
	Choose(title string, options []ChoiceOption) (string, bool)
}

// Broadcaster notifies other connected viewers. Fire-and-forget: no
// acknowledgement, no delivery guarantee.
type Broadcaster interface {
	// ShowTree tells other viewers to open the tree.
	ShowTree(id tree.TreeID)

	// CollectionChanged signals that the persisted collection was rewritten.
	CollectionChanged()

	// PinAdded announces a new map annotation.
	PinAdded(pin tree.Pin)
}

// NopBroadcaster discards all notifications.
type NopBroadcaster struct{}

func (NopBroadcaster) ShowTree(tree.TreeID) {}
func (NopBroadcaster) CollectionChanged()   {}
func (NopBroadcaster) PinAdded(tree.Pin)    {}

package tree

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"relatree/pkg/errors"
)

// TreeID identifies a tree within the collection
type TreeID string

// NewTreeID creates a new random TreeID
func NewTreeID() TreeID {
	return TreeID(uuid.New().String())
}

// String returns the string representation
func (id TreeID) String() string {
	return string(id)
}

// Collection maps tree ids to trees. The id is the sole identity; insertion
// order is irrelevant. Name uniqueness within a category is advisory only:
// collisions are detected and resolved on import, never hard-rejected.
type Collection map[TreeID]*Tree

// NewCollection creates an empty collection.
func NewCollection() Collection {
	return Collection{}
}

// CreateTree inserts a new empty tree and returns its id. Names are not
// checked for uniqueness; the user resolves collisions later via rename or
// delete.
func (c Collection) CreateTree(category Category, name string) TreeID {
	id := NewTreeID()
	c[id] = NewTree(category, name)
	return id
}

// Get returns the tree with the given id.
func (c Collection) Get(id TreeID) (*Tree, error) {
	t, ok := c[id]
	if !ok {
		return nil, errors.NewNotFoundError("tree")
	}
	return t, nil
}

// Rename overwrites a tree's name. Empty names and names equal to the
// current one are a no-op.
func (c Collection) Rename(id TreeID, newName string) error {
	t, err := c.Get(id)
	if err != nil {
		return err
	}
	if newName == "" || newName == t.Name {
		return nil
	}
	t.Name = newName
	return nil
}

// Delete removes a tree entirely.
func (c Collection) Delete(id TreeID) error {
	if _, ok := c[id]; !ok {
		return errors.NewNotFoundError("tree")
	}
	delete(c, id)
	return nil
}

// ByCategory returns the ids of trees in a category, sorted by tree name
// then id for stable listings.
func (c Collection) ByCategory(category Category) []TreeID {
	ids := make([]TreeID, 0)
	for id, t := range c {
		if t.Category == category {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := c[ids[i]], c[ids[j]]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return ids[i] < ids[j]
	})
	return ids
}

// FindByName returns the id of a tree with the given name within a category,
// if one exists.
func (c Collection) FindByName(category Category, name string) (TreeID, bool) {
	for id, t := range c {
		if t.Category == category && t.Name == name {
			return id, true
		}
	}
	return "", false
}

// HasName reports whether any tree in the category carries the name.
func (c Collection) HasName(category Category, name string) bool {
	_, ok := c.FindByName(category, name)
	return ok
}

// UniqueName resolves a name collision within a category by appending
// " (n)" with the smallest n >= 1 that produces an unused name. A name that
// does not collide is returned unchanged.
func (c Collection) UniqueName(category Category, name string) string {
	if !c.HasName(category, name) {
		return name
	}
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s (%d)", name, n)
		if !c.HasName(category, candidate) {
			return candidate
		}
	}
}

// FilterByName returns the subset of ids whose tree name contains the filter,
// case-insensitively. An empty filter matches everything.
func (c Collection) FilterByName(ids []TreeID, filter string) []TreeID {
	if filter == "" {
		return ids
	}
	needle := strings.ToLower(filter)
	out := make([]TreeID, 0, len(ids))
	for _, id := range ids {
		if t, ok := c[id]; ok && strings.Contains(strings.ToLower(t.Name), needle) {
			out = append(out, id)
		}
	}
	return out
}

// Validate checks invariants across every tree.
func (c Collection) Validate() error {
	for id, t := range c {
		if err := t.Validate(); err != nil {
			return errors.Wrapf(err, "tree %s", id)
		}
	}
	return nil
}

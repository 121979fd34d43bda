package queries

import (
	"context"

	"go.uber.org/zap"

	"relatree/application/ports"
	"relatree/application/projection"
	"relatree/domain/tree"
)

// TreeSummary is one row of a category listing.
type TreeSummary struct {
	ID              tree.TreeID `json:"id"`
	Name            string      `json:"name"`
	Category        string      `json:"category"`
	NodeCount       int         `json:"nodeCount"`
	ConnectionCount int         `json:"connectionCount"`
}

// BrowseService serves the read side: category tabs, tree listings and the
// projected view of a single tree. It never writes.
type BrowseService struct {
	store    ports.DocumentStore
	resolver ports.ActorResolver
	logger   *zap.Logger
}

// NewBrowseService creates a new browse service
func NewBrowseService(store ports.DocumentStore, resolver ports.ActorResolver, logger *zap.Logger) *BrowseService {
	return &BrowseService{
		store:    store,
		resolver: resolver,
		logger:   logger,
	}
}

// Categories returns the fixed category catalog in display order.
func (s *BrowseService) Categories() []tree.CategoryInfo {
	return tree.Categories()
}

// ConnectionTypes returns the relationship type catalog keyed by type.
func (s *BrowseService) ConnectionTypes() map[string]tree.ConnectionTypeInfo {
	return tree.ConnectionTypeCatalog()
}

// ListTrees returns summaries of a category's trees, sorted by name, with an
// optional case-insensitive name filter.
func (s *BrowseService) ListTrees(ctx context.Context, category tree.Category, filter string) ([]TreeSummary, error) {
	collection, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	ids := collection.ByCategory(category)
	if filter != "" {
		ids = collection.FilterByName(ids, filter)
	}

	summaries := make([]TreeSummary, 0, len(ids))
	for _, id := range ids {
		t := collection[id]
		summaries = append(summaries, TreeSummary{
			ID:              id,
			Name:            t.Name,
			Category:        string(t.Category),
			NodeCount:       len(t.Nodes),
			ConnectionCount: len(t.Connections),
		})
	}
	return summaries, nil
}

// GetTree projects one tree into its render-ready view model.
func (s *BrowseService) GetTree(ctx context.Context, treeID tree.TreeID) (*projection.ViewModel, error) {
	collection, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	t, err := collection.Get(treeID)
	if err != nil {
		return nil, err
	}
	return projection.Project(treeID, t, s.resolver), nil
}

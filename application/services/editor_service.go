package services

import (
	"context"

	"go.uber.org/zap"

	"relatree/application/ports"
	"relatree/domain/tree"
	"relatree/pkg/common"
	apperrors "relatree/pkg/errors"
)

// EditorService carries all mutating operations on the tree collection. Every
// operation is a full load/modify/save cycle against the document store; the
// store owns durability and this service owns the domain rules, so callers
// never hold a collection across requests.
type EditorService struct {
	store       ports.DocumentStore
	broadcaster ports.Broadcaster
	logger      *zap.Logger
}

// NewEditorService creates a new editor service
func NewEditorService(store ports.DocumentStore, broadcaster ports.Broadcaster, logger *zap.Logger) *EditorService {
	return &EditorService{
		store:       store,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// mutate runs one load/modify/save cycle. The modification only reaches the
// store when fn succeeds, so a rejected domain operation never dirties the
// persisted collection.
func (s *EditorService) mutate(ctx context.Context, fn func(tree.Collection) error) error {
	collection, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	if err := fn(collection); err != nil {
		return err
	}
	if err := s.store.Save(ctx, collection); err != nil {
		return err
	}
	s.broadcaster.CollectionChanged()
	return nil
}

// mutateTree is mutate scoped to one tree.
func (s *EditorService) mutateTree(ctx context.Context, treeID tree.TreeID, fn func(*tree.Tree) error) error {
	return s.mutate(ctx, func(collection tree.Collection) error {
		t, err := collection.Get(treeID)
		if err != nil {
			return err
		}
		return fn(t)
	})
}

// CreateTree adds a new empty tree to a category. Names are not unique; two
// trees may share a name and are told apart by id.
func (s *EditorService) CreateTree(ctx context.Context, category tree.Category, name string) (tree.TreeID, error) {
	if name == "" {
		return "", apperrors.NewValidationError("tree name is required")
	}

	var id tree.TreeID
	err := s.mutate(ctx, func(collection tree.Collection) error {
		id = collection.CreateTree(category, name)
		return nil
	})
	if err != nil {
		return "", err
	}

	s.logger.Info("Tree created",
		zap.String("treeID", id.String()),
		zap.String("category", string(category)),
		zap.String("name", name),
	)
	return id, nil
}

// RenameTree renames a tree. An empty or unchanged name is a no-op.
func (s *EditorService) RenameTree(ctx context.Context, treeID tree.TreeID, newName string) error {
	return s.mutate(ctx, func(collection tree.Collection) error {
		return collection.Rename(treeID, newName)
	})
}

// DeleteTree removes a tree and everything in it.
func (s *EditorService) DeleteTree(ctx context.Context, treeID tree.TreeID) error {
	err := s.mutate(ctx, func(collection tree.Collection) error {
		return collection.Delete(treeID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Tree deleted", zap.String("treeID", treeID.String()))
	return nil
}

// AddReferenceNode places a node for an externally-owned actor at a drop
// position. An actor can appear at most once per tree.
func (s *EditorService) AddReferenceNode(ctx context.Context, treeID tree.TreeID, actorID string, x, y float64) (*tree.Node, error) {
	if actorID == "" {
		return nil, apperrors.NewValidationError("actor id is required")
	}

	var node *tree.Node
	err := s.mutateTree(ctx, treeID, func(t *tree.Tree) error {
		var addErr error
		node, addErr = t.AddReferenceNode(actorID, x, y)
		return addErr
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Reference node added",
		zap.String("treeID", treeID.String()),
		zap.String("nodeID", node.ID.String()),
		zap.String("actorID", actorID),
	)
	return node, nil
}

// AddCustomNode creates a free-standing node near the canvas center. Custom
// nodes are never deduplicated; each call adds a new one.
func (s *EditorService) AddCustomNode(ctx context.Context, treeID tree.TreeID, profile tree.CustomProfile) (*tree.Node, error) {
	if profile.Name == "" {
		return nil, apperrors.NewValidationError("node name is required")
	}

	var node *tree.Node
	err := s.mutateTree(ctx, treeID, func(t *tree.Tree) error {
		x, y := t.SpawnPosition()
		node = t.AddCustomNode(profile, x, y)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Custom node added",
		zap.String("treeID", treeID.String()),
		zap.String("nodeID", node.ID.String()),
		zap.String("name", profile.Name),
	)
	return node, nil
}

// UpdateCustomNode edits a custom node's profile. Blank name or image keep
// the stored value; the description is always replaced.
func (s *EditorService) UpdateCustomNode(ctx context.Context, treeID tree.TreeID, nodeID tree.NodeID, profile tree.CustomProfile) error {
	return s.mutateTree(ctx, treeID, func(t *tree.Tree) error {
		return t.UpdateCustomNode(nodeID, profile)
	})
}

// RemoveNode deletes a node and every connection touching it.
func (s *EditorService) RemoveNode(ctx context.Context, treeID tree.TreeID, nodeID tree.NodeID) error {
	err := s.mutateTree(ctx, treeID, func(t *tree.Tree) error {
		return t.RemoveNode(nodeID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Node removed",
		zap.String("treeID", treeID.String()),
		zap.String("nodeID", nodeID.String()),
	)
	return nil
}

// CommitNodePosition persists a node's final position after a drag. Called
// once per drag, on release; intermediate moves stay in the session preview.
func (s *EditorService) CommitNodePosition(ctx context.Context, treeID tree.TreeID, nodeID tree.NodeID, x, y float64) error {
	return s.mutateTree(ctx, treeID, func(t *tree.Tree) error {
		return t.MoveNode(nodeID, x, y)
	})
}

// ResizeNode grows or shrinks a node by a delta. The resulting size is
// clamped to the allowed range.
func (s *EditorService) ResizeNode(ctx context.Context, treeID tree.TreeID, nodeID tree.NodeID, delta float64) error {
	return s.mutateTree(ctx, treeID, func(t *tree.Tree) error {
		return t.ResizeNode(nodeID, delta)
	})
}

// AddConnection creates an undirected relationship edge between two nodes.
func (s *EditorService) AddConnection(ctx context.Context, treeID tree.TreeID, from, to tree.NodeID, connType string) error {
	err := s.mutateTree(ctx, treeID, func(t *tree.Tree) error {
		_, connectErr := t.Connect(from, to, connType)
		return connectErr
	})
	if err != nil {
		return err
	}

	s.logger.Info("Connection added",
		zap.String("treeID", treeID.String()),
		zap.String("from", from.String()),
		zap.String("to", to.String()),
		zap.String("type", connType),
	)
	return nil
}

// ChangeConnectionType retypes the edge between a pair of nodes, matched in
// either direction.
func (s *EditorService) ChangeConnectionType(ctx context.Context, treeID tree.TreeID, a, b tree.NodeID, newType string) error {
	return s.mutateTree(ctx, treeID, func(t *tree.Tree) error {
		return t.ChangeConnectionType(a, b, newType)
	})
}

// RemoveConnection deletes the edge between a pair of nodes, matched in
// either direction.
func (s *EditorService) RemoveConnection(ctx context.Context, treeID tree.TreeID, a, b tree.NodeID) error {
	return s.mutateTree(ctx, treeID, func(t *tree.Tree) error {
		return t.Disconnect(a, b)
	})
}

// BroadcastTree pushes a tree to all connected viewers. Privileged users
// only.
func (s *EditorService) BroadcastTree(ctx context.Context, treeID tree.TreeID) error {
	if !common.IsPrivileged(ctx) {
		return apperrors.NewPermissionDeniedError("broadcast a tree")
	}

	collection, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	if _, err := collection.Get(treeID); err != nil {
		return err
	}

	s.broadcaster.ShowTree(treeID)
	s.logger.Info("Tree broadcast", zap.String("treeID", treeID.String()))
	return nil
}

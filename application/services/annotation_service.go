package services

import (
	"context"

	"go.uber.org/zap"

	"relatree/application/ports"
	"relatree/domain/tree"
	"relatree/pkg/common"
	apperrors "relatree/pkg/errors"
)

// AnnotationService places scene annotations that link back to a tree. Pins
// live in their own document, separate from the tree collection.
type AnnotationService struct {
	pins        ports.PinStore
	store       ports.DocumentStore
	broadcaster ports.Broadcaster
	logger      *zap.Logger
}

// NewAnnotationService creates a new annotation service
func NewAnnotationService(pins ports.PinStore, store ports.DocumentStore, broadcaster ports.Broadcaster, logger *zap.Logger) *AnnotationService {
	return &AnnotationService{
		pins:        pins,
		store:       store,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// CreatePin drops a pin for a tree at a scene position. Privileged users
// only. A blank label falls back to the tree name; the icon is fixed.
func (s *AnnotationService) CreatePin(ctx context.Context, treeID tree.TreeID, label string, x, y float64) (tree.Pin, error) {
	if !common.IsPrivileged(ctx) {
		return tree.Pin{}, apperrors.NewPermissionDeniedError("create map pins")
	}

	collection, err := s.store.Load(ctx)
	if err != nil {
		return tree.Pin{}, err
	}
	t, err := collection.Get(treeID)
	if err != nil {
		return tree.Pin{}, err
	}
	if label == "" {
		label = t.Name
	}

	pin := tree.Pin{
		TreeID: treeID,
		Label:  label,
		X:      x,
		Y:      y,
		Icon:   tree.DefaultPinIcon,
	}

	pins, err := s.pins.LoadPins(ctx)
	if err != nil {
		return tree.Pin{}, err
	}
	pins = append(pins, pin)
	if err := s.pins.SavePins(ctx, pins); err != nil {
		return tree.Pin{}, err
	}

	s.broadcaster.PinAdded(pin)
	userID, _ := common.GetUserID(ctx)
	s.logger.Info("Pin created",
		zap.String("treeID", treeID.String()),
		zap.String("label", label),
		zap.String("userID", userID),
	)
	return pin, nil
}

// ListPins returns every stored pin.
func (s *AnnotationService) ListPins(ctx context.Context) ([]tree.Pin, error) {
	return s.pins.LoadPins(ctx)
}

// PinsForTree returns the pins pointing at one tree.
func (s *AnnotationService) PinsForTree(ctx context.Context, treeID tree.TreeID) ([]tree.Pin, error) {
	pins, err := s.pins.LoadPins(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]tree.Pin, 0, len(pins))
	for _, pin := range pins {
		if pin.TreeID == treeID {
			matched = append(matched, pin)
		}
	}
	return matched, nil
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"go.uber.org/zap"

	"relatree/application/ports"
	"relatree/domain/tree"
	"relatree/pkg/common"
	apperrors "relatree/pkg/errors"
)

// Envelope type markers.
const (
	ExportTypeSingle   = "single"
	ExportTypeCategory = "category"
)

// ExportVersion is the current envelope version. Files without a version are
// rejected on import.
const ExportVersion = 1

// ExportedTree is a tree with its id inlined, the shape a single-tree
// envelope carries.
type ExportedTree struct {
	ID tree.TreeID `json:"id"`
	tree.Tree
}

// ExportEnvelope is the import/export file format. Exactly one of Tree or
// Trees is set, matching Type.
type ExportEnvelope struct {
	ExportVersion int                       `json:"exportVersion"`
	ExportDate    time.Time                 `json:"exportDate"`
	Type          string                    `json:"type"`
	Tree          *ExportedTree             `json:"tree,omitempty"`
	Category      tree.Category             `json:"category,omitempty"`
	Trees         map[tree.TreeID]*tree.Tree `json:"trees,omitempty"`
}

// Conflict resolution keys offered when an imported name collides.
const (
	ResolveOverwrite = "overwrite"
	ResolveDuplicate = "duplicate"
	ResolveRename    = "rename"
	ResolveSkip      = "skip"
)

var conflictOptions = []ports.ChoiceOption{
	{Key: ResolveOverwrite, Label: "Overwrite"},
	{Key: ResolveDuplicate, Label: "Import as Copy"},
	{Key: ResolveRename, Label: "Rename"},
	{Key: ResolveSkip, Label: "Skip"},
}

var filenameUnsafe = regexp.MustCompile(`[^a-zA-Z0-9]`)

// TransferService exports trees to envelope files and imports them back,
// resolving name conflicts through the caller's prompter. All operations are
// privileged.
type TransferService struct {
	store  ports.DocumentStore
	logger *zap.Logger
}

// NewTransferService creates a new transfer service
func NewTransferService(store ports.DocumentStore, logger *zap.Logger) *TransferService {
	return &TransferService{
		store:  store,
		logger: logger,
	}
}

// ExportTree serializes one tree into a single-tree envelope. Returns the
// envelope bytes and the suggested download filename.
func (s *TransferService) ExportTree(ctx context.Context, treeID tree.TreeID) ([]byte, string, error) {
	if !common.IsPrivileged(ctx) {
		return nil, "", apperrors.NewPermissionDeniedError("export trees")
	}

	collection, err := s.store.Load(ctx)
	if err != nil {
		return nil, "", err
	}
	t, err := collection.Get(treeID)
	if err != nil {
		return nil, "", err
	}

	envelope := ExportEnvelope{
		ExportVersion: ExportVersion,
		ExportDate:    time.Now().UTC(),
		Type:          ExportTypeSingle,
		Tree:          &ExportedTree{ID: treeID, Tree: *t},
	}

	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return nil, "", apperrors.NewInternalError("failed to serialize export").WithCause(err)
	}

	filename := filenameUnsafe.ReplaceAllString(t.Name, "_") + "_tree.json"
	s.logger.Info("Tree exported",
		zap.String("treeID", treeID.String()),
		zap.String("filename", filename),
	)
	return data, filename, nil
}

// ExportCategory serializes every tree of a category into one envelope.
func (s *TransferService) ExportCategory(ctx context.Context, category tree.Category) ([]byte, string, error) {
	if !common.IsPrivileged(ctx) {
		return nil, "", apperrors.NewPermissionDeniedError("export trees")
	}

	collection, err := s.store.Load(ctx)
	if err != nil {
		return nil, "", err
	}

	categoryTrees := make(map[tree.TreeID]*tree.Tree)
	for _, id := range collection.ByCategory(category) {
		categoryTrees[id] = collection[id]
	}
	if len(categoryTrees) == 0 {
		return nil, "", apperrors.NewValidationError("no trees to export in this category")
	}

	envelope := ExportEnvelope{
		ExportVersion: ExportVersion,
		ExportDate:    time.Now().UTC(),
		Type:          ExportTypeCategory,
		Category:      category,
		Trees:         categoryTrees,
	}

	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return nil, "", apperrors.NewInternalError("failed to serialize export").WithCause(err)
	}

	filename := string(category) + "_trees_export.json"
	s.logger.Info("Category exported",
		zap.String("category", string(category)),
		zap.Int("trees", len(categoryTrees)),
		zap.String("filename", filename),
	)
	return data, filename, nil
}

// Import reads an envelope and merges its trees into a category. Name
// conflicts run through the prompter: a single-tree import offers the full
// overwrite/duplicate/rename/skip choice, a category import confirms the
// batch once and then auto-suffixes every conflicting name. Imported trees
// always land in the given category regardless of what the file says.
// Returns how many trees were imported; the collection is saved once, at the
// end, and only when at least one tree made it in.
func (s *TransferService) Import(ctx context.Context, category tree.Category, data []byte, prompter ports.Prompter) (int, error) {
	if !common.IsPrivileged(ctx) {
		return 0, apperrors.NewPermissionDeniedError("import trees")
	}

	var envelope ExportEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return 0, apperrors.NewInvalidFormatError("invalid JSON file")
	}
	if envelope.ExportVersion == 0 {
		return 0, apperrors.NewInvalidFormatError("missing version info")
	}

	collection, err := s.store.Load(ctx)
	if err != nil {
		return 0, err
	}

	imported := 0
	switch {
	case envelope.Type == ExportTypeSingle && envelope.Tree != nil:
		if s.importSingleTree(collection, category, &envelope.Tree.Tree, true, prompter) {
			imported = 1
		}

	case envelope.Type == ExportTypeCategory && envelope.Trees != nil:
		question := fmt.Sprintf("This will import %d tree(s) into %s. Continue?",
			len(envelope.Trees), category.DisplayName())
		if !prompter.Confirm(question) {
			return 0, nil
		}
		for _, t := range envelope.Trees {
			if s.importSingleTree(collection, category, t, false, prompter) {
				imported++
			}
		}

	default:
		return 0, apperrors.NewInvalidFormatError("unrecognized import file format")
	}

	if imported > 0 {
		if err := s.store.Save(ctx, collection); err != nil {
			return 0, err
		}
		s.logger.Info("Import finished",
			zap.String("category", string(category)),
			zap.Int("imported", imported),
		)
	}
	return imported, nil
}

// importSingleTree merges one tree into the collection, resolving a name
// conflict interactively or by auto-suffix. Returns whether the tree was
// imported.
func (s *TransferService) importSingleTree(collection tree.Collection, category tree.Category, incoming *tree.Tree, interactive bool, prompter ports.Prompter) bool {
	newName := incoming.Name
	targetID := tree.NewTreeID()

	if existingID, conflict := collection.FindByName(category, newName); conflict {
		if !interactive {
			newName = collection.UniqueName(category, incoming.Name)
		} else {
			action, ok := prompter.Choose(
				fmt.Sprintf("A tree named %q already exists. What would you like to do?", newName),
				conflictOptions,
			)
			if !ok {
				return false
			}
			switch action {
			case ResolveSkip:
				return false
			case ResolveOverwrite:
				targetID = existingID
			case ResolveRename:
				picked, ok := prompter.PromptText("Rename Imported Tree", newName)
				if !ok || picked == "" {
					return false
				}
				newName = picked
				// The picked name can collide too; fall back to a suffix.
				if collection.HasName(category, newName) {
					newName = collection.UniqueName(category, newName)
				}
			case ResolveDuplicate:
				newName = collection.UniqueName(category, incoming.Name)
			default:
				return false
			}
		}
	}

	collection[targetID] = &tree.Tree{
		Name:        newName,
		Category:    category,
		Nodes:       incoming.Nodes,
		Connections: incoming.Connections,
	}
	return true
}

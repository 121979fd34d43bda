package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"relatree/application/services"
	"relatree/domain/tree"
	"relatree/pkg/common"
	"relatree/pkg/utils"
)

// NodeHandler handles node-level HTTP requests
type NodeHandler struct {
	editor *services.EditorService
	logger *zap.Logger
}

// NewNodeHandler creates a new node handler
func NewNodeHandler(editor *services.EditorService, logger *zap.Logger) *NodeHandler {
	return &NodeHandler{
		editor: editor,
		logger: logger,
	}
}

// AddNodeRequest represents the request body for adding a node. Exactly one
// of ActorID (reference node, dropped at X/Y) or Name (custom node, spawned
// near the canvas center) is expected.
type AddNodeRequest struct {
	ActorID     string  `json:"actorId,omitempty"`
	X           float64 `json:"x,omitempty"`
	Y           float64 `json:"y,omitempty"`
	Name        string  `json:"name,omitempty" validate:"omitempty,max=120"`
	Image       string  `json:"image,omitempty"`
	Description string  `json:"description,omitempty"`
}

// AddNode handles POST /trees/{treeID}/nodes
func (h *NodeHandler) AddNode(w http.ResponseWriter, r *http.Request) {
	treeID := tree.TreeID(chi.URLParam(r, "treeID"))

	var req AddNodeRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	var (
		node *tree.Node
		err  error
	)
	switch {
	case req.ActorID != "":
		node, err = h.editor.AddReferenceNode(r.Context(), treeID, req.ActorID, req.X, req.Y)
	case req.Name != "":
		node, err = h.editor.AddCustomNode(r.Context(), treeID, tree.CustomProfile{
			Name:        req.Name,
			Image:       req.Image,
			Description: req.Description,
		})
	default:
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "either actorId or name is required")
		return
	}
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, node)
}

// UpdateNodeRequest represents the request body for editing a custom node
type UpdateNodeRequest struct {
	Name        string `json:"name,omitempty" validate:"omitempty,max=120"`
	Image       string `json:"image,omitempty"`
	Description string `json:"description,omitempty"`
}

// UpdateNode handles PUT /trees/{treeID}/nodes/{nodeID}
func (h *NodeHandler) UpdateNode(w http.ResponseWriter, r *http.Request) {
	var req UpdateNodeRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	err := h.editor.UpdateCustomNode(r.Context(),
		tree.TreeID(chi.URLParam(r, "treeID")),
		tree.NodeID(chi.URLParam(r, "nodeID")),
		tree.CustomProfile{Name: req.Name, Image: req.Image, Description: req.Description},
	)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"updated": true})
}

// RemoveNode handles DELETE /trees/{treeID}/nodes/{nodeID}
func (h *NodeHandler) RemoveNode(w http.ResponseWriter, r *http.Request) {
	err := h.editor.RemoveNode(r.Context(),
		tree.TreeID(chi.URLParam(r, "treeID")),
		tree.NodeID(chi.URLParam(r, "nodeID")),
	)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MoveNodeRequest represents the request body for committing a node position
type MoveNodeRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// MoveNode handles PUT /trees/{treeID}/nodes/{nodeID}/position
func (h *NodeHandler) MoveNode(w http.ResponseWriter, r *http.Request) {
	var req MoveNodeRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}

	err := h.editor.CommitNodePosition(r.Context(),
		tree.TreeID(chi.URLParam(r, "treeID")),
		tree.NodeID(chi.URLParam(r, "nodeID")),
		req.X, req.Y,
	)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"x": req.X, "y": req.Y})
}

// ResizeNodeRequest represents the request body for resizing a node
type ResizeNodeRequest struct {
	Delta float64 `json:"delta" validate:"required"`
}

// ResizeNode handles POST /trees/{treeID}/nodes/{nodeID}/resize
func (h *NodeHandler) ResizeNode(w http.ResponseWriter, r *http.Request) {
	var req ResizeNodeRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	err := h.editor.ResizeNode(r.Context(),
		tree.TreeID(chi.URLParam(r, "treeID")),
		tree.NodeID(chi.URLParam(r, "nodeID")),
		req.Delta,
	)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"resized": true})
}

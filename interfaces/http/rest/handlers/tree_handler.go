package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"relatree/application/queries"
	"relatree/application/services"
	"relatree/domain/tree"
	"relatree/pkg/common"
	"relatree/pkg/utils"
)

const maxBodyBytes = 1 << 20

// TreeHandler handles tree-level HTTP requests
type TreeHandler struct {
	editor *services.EditorService
	browse *queries.BrowseService
	logger *zap.Logger
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(editor *services.EditorService, browse *queries.BrowseService, logger *zap.Logger) *TreeHandler {
	return &TreeHandler{
		editor: editor,
		browse: browse,
		logger: logger,
	}
}

// CreateTreeRequest represents the request body for creating a tree
type CreateTreeRequest struct {
	Category string `json:"category" validate:"required,oneof=family factions extras"`
	Name     string `json:"name" validate:"required,min=1,max=120"`
}

// CreateTree handles POST /trees
func (h *TreeHandler) CreateTree(w http.ResponseWriter, r *http.Request) {
	var req CreateTreeRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	id, err := h.editor.CreateTree(r.Context(), tree.Category(req.Category), req.Name)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"id":   id,
		"name": req.Name,
	})
}

// ListTrees handles GET /trees?category=family&filter=hart
func (h *TreeHandler) ListTrees(w http.ResponseWriter, r *http.Request) {
	category := tree.Category(r.URL.Query().Get("category"))
	if category == "" {
		category = tree.CategoryFamily
	}
	filter := r.URL.Query().Get("filter")

	summaries, err := h.browse.ListTrees(r.Context(), category, filter)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, summaries)
}

// GetTree handles GET /trees/{treeID}
func (h *TreeHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	vm, err := h.browse.GetTree(r.Context(), tree.TreeID(chi.URLParam(r, "treeID")))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, vm)
}

// RenameTreeRequest represents the request body for renaming a tree
type RenameTreeRequest struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
}

// RenameTree handles PATCH /trees/{treeID}
func (h *TreeHandler) RenameTree(w http.ResponseWriter, r *http.Request) {
	var req RenameTreeRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	if err := h.editor.RenameTree(r.Context(), tree.TreeID(chi.URLParam(r, "treeID")), req.Name); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"name": req.Name})
}

// DeleteTree handles DELETE /trees/{treeID}
func (h *TreeHandler) DeleteTree(w http.ResponseWriter, r *http.Request) {
	if err := h.editor.DeleteTree(r.Context(), tree.TreeID(chi.URLParam(r, "treeID"))); err != nil {
		common.RespondAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BroadcastTree handles POST /trees/{treeID}/broadcast
func (h *TreeHandler) BroadcastTree(w http.ResponseWriter, r *http.Request) {
	treeID := tree.TreeID(chi.URLParam(r, "treeID"))
	if err := h.editor.BroadcastTree(r.Context(), treeID); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"broadcast": treeID})
}

// ListCategories handles GET /categories
func (h *TreeHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, h.browse.Categories())
}

// ListConnectionTypes handles GET /connection-types
func (h *TreeHandler) ListConnectionTypes(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, h.browse.ConnectionTypes())
}

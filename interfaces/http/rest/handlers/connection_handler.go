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

// ConnectionHandler handles relationship edge HTTP requests
type ConnectionHandler struct {
	editor *services.EditorService
	logger *zap.Logger
}

// NewConnectionHandler creates a new connection handler
func NewConnectionHandler(editor *services.EditorService, logger *zap.Logger) *ConnectionHandler {
	return &ConnectionHandler{
		editor: editor,
		logger: logger,
	}
}

// CreateConnectionRequest represents the request body for connecting nodes.
// Type may be omitted; the neutral default applies.
type CreateConnectionRequest struct {
	From string `json:"from" validate:"required"`
	To   string `json:"to" validate:"required"`
	Type string `json:"type,omitempty" validate:"omitempty,oneof=rival enemy neutral friendly faction family romantic"`
}

// CreateConnection handles POST /trees/{treeID}/connections
func (h *ConnectionHandler) CreateConnection(w http.ResponseWriter, r *http.Request) {
	var req CreateConnectionRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	err := h.editor.AddConnection(r.Context(),
		tree.TreeID(chi.URLParam(r, "treeID")),
		tree.NodeID(req.From), tree.NodeID(req.To), req.Type,
	)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"from": req.From,
		"to":   req.To,
	})
}

// RetypeConnectionRequest represents the request body for changing an edge type
type RetypeConnectionRequest struct {
	From string `json:"from" validate:"required"`
	To   string `json:"to" validate:"required"`
	Type string `json:"type" validate:"required,oneof=rival enemy neutral friendly faction family romantic"`
}

// RetypeConnection handles PUT /trees/{treeID}/connections
func (h *ConnectionHandler) RetypeConnection(w http.ResponseWriter, r *http.Request) {
	var req RetypeConnectionRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	err := h.editor.ChangeConnectionType(r.Context(),
		tree.TreeID(chi.URLParam(r, "treeID")),
		tree.NodeID(req.From), tree.NodeID(req.To), req.Type,
	)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"type": req.Type})
}

// DeleteConnection handles DELETE /trees/{treeID}/connections?from=&to=
// The pair matches in either direction.
func (h *ConnectionHandler) DeleteConnection(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "from and to are required")
		return
	}

	err := h.editor.RemoveConnection(r.Context(),
		tree.TreeID(chi.URLParam(r, "treeID")),
		tree.NodeID(from), tree.NodeID(to),
	)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

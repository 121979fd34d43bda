package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"relatree/application/services"
	"relatree/domain/tree"
	"relatree/pkg/common"
	"relatree/pkg/utils"
)

// AnnotationHandler handles map pin HTTP requests
type AnnotationHandler struct {
	annotations *services.AnnotationService
	logger      *zap.Logger
}

// NewAnnotationHandler creates a new annotation handler
func NewAnnotationHandler(annotations *services.AnnotationService, logger *zap.Logger) *AnnotationHandler {
	return &AnnotationHandler{
		annotations: annotations,
		logger:      logger,
	}
}

// CreatePinRequest represents the request body for dropping a pin
type CreatePinRequest struct {
	TreeID string  `json:"treeId" validate:"required"`
	Label  string  `json:"label,omitempty" validate:"omitempty,max=120"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// CreatePin handles POST /pins
func (h *AnnotationHandler) CreatePin(w http.ResponseWriter, r *http.Request) {
	var req CreatePinRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	pin, err := h.annotations.CreatePin(r.Context(), tree.TreeID(req.TreeID), req.Label, req.X, req.Y)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, pin)
}

// ListPins handles GET /pins?treeId=...
func (h *AnnotationHandler) ListPins(w http.ResponseWriter, r *http.Request) {
	var (
		pins []tree.Pin
		err  error
	)
	if treeID := r.URL.Query().Get("treeId"); treeID != "" {
		pins, err = h.annotations.PinsForTree(r.Context(), tree.TreeID(treeID))
	} else {
		pins, err = h.annotations.ListPins(r.Context())
	}
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	if pins == nil {
		pins = []tree.Pin{}
	}
	common.RespondJSON(w, http.StatusOK, pins)
}

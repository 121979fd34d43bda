package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"relatree/application/ports"
	"relatree/application/services"
	"relatree/domain/tree"
	"relatree/pkg/common"
)

// TransferHandler handles export/import HTTP requests. Import conflicts run
// as a 409 round trip: the first request without a resolution reports the
// conflict, the client retries with resolution query parameters.
type TransferHandler struct {
	transfer *services.TransferService
	logger   *zap.Logger
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(transfer *services.TransferService, logger *zap.Logger) *TransferHandler {
	return &TransferHandler{
		transfer: transfer,
		logger:   logger,
	}
}

// ExportTree handles GET /trees/{treeID}/export
func (h *TransferHandler) ExportTree(w http.ResponseWriter, r *http.Request) {
	data, filename, err := h.transfer.ExportTree(r.Context(), tree.TreeID(chi.URLParam(r, "treeID")))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	writeDownload(w, filename, data)
}

// ExportCategory handles GET /categories/{category}/export
func (h *TransferHandler) ExportCategory(w http.ResponseWriter, r *http.Request) {
	data, filename, err := h.transfer.ExportCategory(r.Context(), tree.Category(chi.URLParam(r, "category")))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	writeDownload(w, filename, data)
}

// Import handles POST /categories/{category}/import. The body is the raw
// envelope file. Resolution parameters:
//
//	confirm=true            accept a bulk import
//	conflict=<action>       overwrite | duplicate | rename | skip
//	rename=<name>           replacement name when conflict=rename
func (h *TransferHandler) Import(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 8<<20))
	if err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Failed to read import file: "+err.Error())
		return
	}

	query := r.URL.Query()
	prompter := &requestPrompter{
		confirm: query.Get("confirm") == "true",
		action:  query.Get("conflict"),
		rename:  query.Get("rename"),
	}

	count, err := h.transfer.Import(r.Context(), tree.Category(chi.URLParam(r, "category")), body, prompter)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	if count == 0 && prompter.pending != "" {
		common.RespondErrorWithDetails(w, http.StatusConflict, "IMPORT_CONFLICT", prompter.pending, map[string]interface{}{
			"resolutions": prompter.offered,
		})
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"imported": count})
}

// requestPrompter answers interactive prompts from request parameters. An
// unanswerable prompt is recorded so the handler can surface it as a
// conflict instead of silently skipping.
type requestPrompter struct {
	confirm bool
	action  string
	rename  string

	pending string
	offered []string
}

func (p *requestPrompter) Confirm(text string) bool {
	if p.confirm {
		return true
	}
	p.pending = text
	p.offered = []string{"confirm=true"}
	return false
}

func (p *requestPrompter) PromptText(_, def string) (string, bool) {
	if p.rename != "" {
		return p.rename, true
	}
	return def, true
}

func (p *requestPrompter) Choose(title string, options []ports.ChoiceOption) (string, bool) {
	if p.action != "" {
		return p.action, true
	}
	p.pending = title
	p.offered = make([]string, 0, len(options))
	for _, opt := range options {
		p.offered = append(p.offered, "conflict="+opt.Key)
	}
	return "", false
}

func writeDownload(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

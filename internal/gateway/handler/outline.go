package handler

import (
	"net/http"

	"grantforge/internal/outline"
	"grantforge/internal/proposal"
)

// HandleOutline returns the resolved outline of a proposal with
// per-section content state. An optional templateId query selects a
// catalog template; otherwise the default outline applies.
func (h *Handler) HandleOutline(w http.ResponseWriter, r *http.Request) {
	doc, ok, err := h.docs.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		httpError(w, err)
		return
	}
	if !ok {
		httpError(w, proposal.ErrNotFound)
		return
	}

	var template []outline.TemplateNode
	if id := r.URL.Query().Get("templateId"); id != "" && h.templates != nil {
		template = h.templates.Get(id)
	}
	writeJSON(w, http.StatusOK, proposal.OutlineState(doc, template))
}

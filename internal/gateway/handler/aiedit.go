package handler

import (
	"net/http"
	"strings"

	"grantforge/internal/gateway/metrics"
	"grantforge/internal/proposal"
)

type aiEditRequest struct {
	Instruction string `json:"instruction"`
	SectionKey  string `json:"sectionKey"`
}

type aiEditResponse struct {
	Document      proposal.Document `json:"document"`
	EditedSection string            `json:"editedSection,omitempty"`
}

// HandleAIEdit applies an instructed edit to a stored proposal.
func (h *Handler) HandleAIEdit(w http.ResponseWriter, r *http.Request) {
	var req aiEditRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Instruction) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "instruction is required"})
		return
	}

	doc, edited, err := proposal.AIEdit(r.Context(), proposal.EditInput{
		DocumentID:  r.PathValue("id"),
		Instruction: req.Instruction,
		SectionKey:  req.SectionKey,
	}, h.deps)
	metrics.EditsTotal.WithLabelValues(outcomeLabel(err)).Inc()
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, aiEditResponse{Document: doc, EditedSection: edited})
}

package handler

import (
	"net/http"
	"strings"

	"grantforge/internal/proposal"
)

type rankRequest struct {
	Context string `json:"context"`
}

// HandleRankPartners scores the partner pool against a free-text
// context and returns all candidates in relevance order.
func (h *Handler) HandleRankPartners(w http.ResponseWriter, r *http.Request) {
	var req rankRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Context) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "context is required"})
		return
	}
	ranked, err := proposal.RankPartners(r.Context(), req.Context, h.deps)
	if err != nil {
		httpError(w, err)
		return
	}
	if ranked == nil {
		ranked = []proposal.Partner{}
	}
	writeJSON(w, http.StatusOK, ranked)
}

package handler

import (
	"net/http"
	"strings"

	"grantforge/internal/budget"
	"grantforge/internal/proposal"
)

// HandleListProposals returns every stored proposal.
func (h *Handler) HandleListProposals(w http.ResponseWriter, r *http.Request) {
	docs, err := h.docs.List(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	if docs == nil {
		docs = []proposal.Document{}
	}
	writeJSON(w, http.StatusOK, docs)
}

// HandleGetProposal returns one proposal by id.
func (h *Handler) HandleGetProposal(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	doc, ok, err := h.docs.Get(r.Context(), id)
	if err != nil {
		httpError(w, err)
		return
	}
	if !ok {
		httpError(w, proposal.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// HandleCreateProposal stores a client-authored proposal, assigning an
// id when none is given and re-establishing the budget invariants.
func (h *Handler) HandleCreateProposal(w http.ResponseWriter, r *http.Request) {
	var doc proposal.Document
	if err := decodeBody(r, &doc); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if strings.TrimSpace(doc.ID) == "" {
		doc.ID = h.deps.NewID()
	}
	now := h.deps.Now()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now
	if doc.TargetBudget > 0 {
		budget.Enforce(&doc, doc.TargetBudget)
	}
	if err := h.docs.Put(r.Context(), doc); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

// HandleUpdateProposal replaces a stored proposal wholesale. The write
// is last-in-wins; there is no version check.
func (h *Handler) HandleUpdateProposal(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok, err := h.docs.Get(r.Context(), id); err != nil {
		httpError(w, err)
		return
	} else if !ok {
		httpError(w, proposal.ErrNotFound)
		return
	}

	var doc proposal.Document
	if err := decodeBody(r, &doc); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	doc.ID = id
	doc.UpdatedAt = h.deps.Now()
	if doc.TargetBudget > 0 {
		budget.Enforce(&doc, doc.TargetBudget)
	}
	if err := h.docs.Put(r.Context(), doc); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// HandleDeleteProposal removes a proposal.
func (h *Handler) HandleDeleteProposal(w http.ResponseWriter, r *http.Request) {
	if err := h.docs.Delete(r.Context(), r.PathValue("id")); err != nil {
		httpError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

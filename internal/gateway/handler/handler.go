package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"grantforge/internal/gateway/repository/attachment"
	"grantforge/internal/gateway/repository/docstore"
	"grantforge/internal/jsonrepair"
	"grantforge/internal/llmclient"
	"grantforge/internal/outline"
	"grantforge/internal/proposal"
)

// Handler serves the proposal HTTP surface.
type Handler struct {
	docs        *docstore.Store
	attachments attachment.Store
	templates   *outline.Catalog
	deps        proposal.Deps
	provider    string
}

func New(docs *docstore.Store, attachments attachment.Store, templates *outline.Catalog, deps proposal.Deps, provider string) *Handler {
	return &Handler{
		docs:        docs,
		attachments: attachments,
		templates:   templates,
		deps:        deps,
		provider:    provider,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

type errorResponse struct {
	Error      string `json:"error"`
	TextLength int    `json:"textLength,omitempty"`
}

// httpError maps pipeline errors onto status codes: unrepairable
// provider output is a 422 with diagnostics, provider throttling a 429,
// a rejected prompt a 502, missing documents a 404.
func httpError(w http.ResponseWriter, err error) {
	var ue *jsonrepair.UnrepairableError
	var pe *llmclient.PermanentError
	switch {
	case errors.As(err, &ue):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:      err.Error(),
			TextLength: ue.TextLen,
		})
	case errors.Is(err, llmclient.ErrRateLimited):
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "provider rate limited, retry later"})
	case errors.As(err, &pe):
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
	case errors.Is(err, proposal.ErrNotFound), errors.Is(err, docstore.ErrNotFound), errors.Is(err, attachment.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		log.Printf("internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// outcomeLabel names an error class for the outcome counters.
func outcomeLabel(err error) string {
	var ue *jsonrepair.UnrepairableError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &ue):
		return "unrepairable"
	case errors.Is(err, llmclient.ErrRateLimited):
		return "rate_limited"
	default:
		return "error"
	}
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return err
	}
	return nil
}

package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"grantforge/internal/gateway/handler"
	"grantforge/internal/gateway/middleware"
)

func NewMux(h *handler.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /generate-proposal", h.HandleGenerate)
	mux.HandleFunc("GET /ws/generate", h.HandleGenerateWS)

	mux.HandleFunc("GET /proposals", h.HandleListProposals)
	mux.HandleFunc("POST /proposals", h.HandleCreateProposal)
	mux.HandleFunc("GET /proposals/{id}", h.HandleGetProposal)
	mux.HandleFunc("PUT /proposals/{id}", h.HandleUpdateProposal)
	mux.HandleFunc("DELETE /proposals/{id}", h.HandleDeleteProposal)
	mux.HandleFunc("POST /proposals/{id}/ai-edit", h.HandleAIEdit)
	mux.HandleFunc("GET /proposals/{id}/outline", h.HandleOutline)
	mux.HandleFunc("GET /proposals/{id}/attachments", h.HandleListAttachments)

	mux.HandleFunc("POST /partners/rank", h.HandleRankPartners)

	mux.HandleFunc("POST /attachments", h.HandleUploadAttachment)
	mux.HandleFunc("GET /attachments/{id...}", h.HandleGetAttachment)

	mux.Handle("GET /metrics", promhttp.Handler())

	return middleware.CORS(mux)
}

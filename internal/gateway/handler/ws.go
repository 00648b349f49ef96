package handler

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"grantforge/internal/gateway/metrics"
	"grantforge/internal/proposal"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Origins are screened by the CORS layer; the socket accepts the
	// same clients the REST surface does.
	CheckOrigin: func(*http.Request) bool { return true },
}

type wsEvent struct {
	Type     string             `json:"type"`
	Stage    string             `json:"stage,omitempty"`
	Error    string             `json:"error,omitempty"`
	Document *proposal.Document `json:"document,omitempty"`
}

// HandleGenerateWS runs one generation over a websocket, streaming
// stage transitions before the final document. The client sends a
// single generate request and the server closes after the result.
func (h *Handler) HandleGenerateWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade: %v", err)
		return
	}
	defer conn.Close()

	var req generateRequest
	if err := conn.ReadJSON(&req); err != nil {
		_ = conn.WriteJSON(wsEvent{Type: "error", Error: "invalid generate request"})
		return
	}
	if strings.TrimSpace(req.Idea) == "" {
		_ = conn.WriteJSON(wsEvent{Type: "error", Error: "idea is required"})
		return
	}

	att, err := h.loadAttachment(r, req.AttachmentID)
	if err != nil {
		_ = conn.WriteJSON(wsEvent{Type: "error", Error: err.Error()})
		return
	}

	deps := h.deps
	deps.Progress = func(stage string) {
		_ = conn.WriteJSON(wsEvent{Type: "progress", Stage: stage})
	}

	start := time.Now()
	doc, err := proposal.Generate(r.Context(), proposal.GenerateInput{
		Idea:         req.Idea,
		Constraints:  req.Constraints,
		PartnerIDs:   req.PartnerIDs,
		TemplateID:   req.TemplateID,
		TargetBudget: req.TargetBudget,
		Attachment:   att,
	}, deps)
	metrics.ProviderLatency.WithLabelValues(h.provider).Observe(time.Since(start).Seconds())
	metrics.GenerationsTotal.WithLabelValues(outcomeLabel(err)).Inc()
	if err != nil {
		_ = conn.WriteJSON(wsEvent{Type: "error", Error: err.Error()})
		return
	}
	_ = conn.WriteJSON(wsEvent{Type: "document", Document: &doc})
}

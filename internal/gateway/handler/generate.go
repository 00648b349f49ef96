package handler

import (
	"net/http"
	"strings"
	"time"

	"grantforge/internal/gateway/metrics"
	"grantforge/internal/gateway/repository/attachment"
	"grantforge/internal/llmclient"
	"grantforge/internal/proposal"
)

type generateRequest struct {
	Idea         string   `json:"idea"`
	Constraints  string   `json:"constraints"`
	PartnerIDs   []string `json:"partnerIds"`
	TemplateID   string   `json:"templateId"`
	TargetBudget int64    `json:"targetBudget"`
	AttachmentID string   `json:"attachmentId"`
}

// HandleGenerate runs a full proposal generation.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Idea) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "idea is required"})
		return
	}

	att, err := h.loadAttachment(r, req.AttachmentID)
	if err != nil {
		httpError(w, err)
		return
	}

	start := time.Now()
	doc, err := proposal.Generate(r.Context(), proposal.GenerateInput{
		Idea:         req.Idea,
		Constraints:  req.Constraints,
		PartnerIDs:   req.PartnerIDs,
		TemplateID:   req.TemplateID,
		TargetBudget: req.TargetBudget,
		Attachment:   att,
	}, h.deps)
	metrics.ProviderLatency.WithLabelValues(h.provider).Observe(time.Since(start).Seconds())
	metrics.GenerationsTotal.WithLabelValues(outcomeLabel(err)).Inc()
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// loadAttachment resolves an uploaded attachment id ("docID/name") into
// provider-ready inline data.
func (h *Handler) loadAttachment(r *http.Request, id string) (*llmclient.Attachment, error) {
	id = strings.TrimSpace(id)
	if id == "" || h.attachments == nil {
		return nil, nil
	}
	docID, name, ok := strings.Cut(id, "/")
	if !ok {
		return nil, attachment.ErrNotFound
	}
	content, contentType, err := h.attachments.Get(r.Context(), docID, name)
	if err != nil {
		return nil, err
	}
	return &llmclient.Attachment{Data: content, MIMEType: contentType}, nil
}

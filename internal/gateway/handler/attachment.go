package handler

import (
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
)

// maxAttachmentBytes bounds uploads; call documents run a few MB at
// most.
const maxAttachmentBytes = 32 << 20

type uploadResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// HandleUploadAttachment accepts a multipart upload tied to a proposal
// and returns the attachment id used by generation requests.
func (h *Handler) HandleUploadAttachment(w http.ResponseWriter, r *http.Request) {
	if h.attachments == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "attachment storage is not configured"})
		return
	}
	if err := r.ParseMultipartForm(maxAttachmentBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid multipart body"})
		return
	}
	docID := strings.TrimSpace(r.FormValue("documentId"))
	if docID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "documentId is required"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "file field is required"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxAttachmentBytes+1))
	if err != nil {
		httpError(w, err)
		return
	}
	if len(content) > maxAttachmentBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "attachment too large"})
		return
	}

	// Prefix with a fresh id so repeated uploads of the same filename
	// never clobber each other.
	name := fmt.Sprintf("%s-%s", uuid.NewString(), path.Base(header.Filename))
	contentType := header.Header.Get("Content-Type")
	if err := h.attachments.Put(r.Context(), docID, name, content, contentType); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, uploadResponse{
		ID:          docID + "/" + name,
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(content)),
	})
}

// HandleGetAttachment streams a stored attachment. The id path segment
// is "docID/name".
func (h *Handler) HandleGetAttachment(w http.ResponseWriter, r *http.Request) {
	if h.attachments == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "attachment storage is not configured"})
		return
	}
	docID, name, ok := strings.Cut(r.PathValue("id"), "/")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "attachment id must be documentId/name"})
		return
	}
	content, contentType, err := h.attachments.Get(r.Context(), docID, name)
	if err != nil {
		httpError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}

// HandleListAttachments lists the attachments of one proposal.
func (h *Handler) HandleListAttachments(w http.ResponseWriter, r *http.Request) {
	if h.attachments == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "attachment storage is not configured"})
		return
	}
	files, err := h.attachments.List(r.Context(), r.PathValue("id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, files)
}

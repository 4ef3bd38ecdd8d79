package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/clipbrief/clipbrief/internal/auth"
	"github.com/clipbrief/clipbrief/internal/llm"
	"github.com/clipbrief/clipbrief/internal/models"
	"github.com/clipbrief/clipbrief/internal/summarize"
	"github.com/clipbrief/clipbrief/internal/uploads"
)

type SummaryHandler struct {
	summarizer *summarize.Summarizer
	uploads    *uploads.Service
}

func NewSummaryHandler(s *summarize.Summarizer, uploadSvc *uploads.Service) *SummaryHandler {
	return &SummaryHandler{summarizer: s, uploads: uploadSvc}
}

type summaryRequest struct {
	UploadID   string `json:"upload_id,omitempty"`
	Transcript string `json:"transcript,omitempty"`
	Style      string `json:"style,omitempty"`
}

// Create summarizes either a finished upload's transcript or raw text sent
// by the client. Summarization is unmetered; only transcription consumes
// quota.
func (h *SummaryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req summaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	transcript := req.Transcript
	if req.UploadID != "" {
		var ok bool
		transcript, ok = h.transcriptFromUpload(w, r, req.UploadID)
		if !ok {
			return
		}
	}
	if transcript == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "transcript or upload_id required"})
		return
	}

	summary, err := h.summarizer.Summarize(r.Context(), transcript, summarize.Style(req.Style))
	if err != nil {
		writeJSON(w, summaryErrorStatus(err), map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"summary": summary,
		"style":   string(summarize.Style(req.Style)),
	})
}

func (h *SummaryHandler) transcriptFromUpload(w http.ResponseWriter, r *http.Request, rawID string) (string, bool) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "no request identity"})
		return "", false
	}

	uploadID, err := uuid.Parse(rawID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid upload ID"})
		return "", false
	}

	upload, err := h.uploads.GetOwned(r.Context(), id, uploadID)
	if err != nil {
		if errors.Is(err, uploads.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "upload not found"})
			return "", false
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return "", false
	}

	if upload.Status != models.UploadCompleted || upload.Transcript == nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "upload has no transcript yet"})
		return "", false
	}
	return *upload.Transcript, true
}

func summaryErrorStatus(err error) int {
	var timeoutErr *llm.TimeoutError
	if errors.As(err, &timeoutErr) {
		return http.StatusGatewayTimeout
	}
	var respErr *llm.ResponseError
	var contentErr *llm.ContentError
	if errors.As(err, &respErr) || errors.As(err, &contentErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/clipbrief/clipbrief/internal/auth"
	"github.com/clipbrief/clipbrief/internal/queue"
	"github.com/clipbrief/clipbrief/internal/quota"
	"github.com/clipbrief/clipbrief/internal/uploads"
)

const maxUploadBytes = 512 << 20 // 512MB

type VideoHandler struct {
	uploads  *uploads.Service
	gate     *quota.Gate
	queue    *queue.Client
	spoolDir string
}

func NewVideoHandler(uploadSvc *uploads.Service, gate *quota.Gate, qc *queue.Client, spoolDir string) *VideoHandler {
	return &VideoHandler{uploads: uploadSvc, gate: gate, queue: qc, spoolDir: spoolDir}
}

// Upload accepts a video, checks the requester's quota, spools the file,
// and enqueues transcription. Quota usage is recorded by the worker only
// after the pipeline succeeds.
func (h *VideoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "no request identity"})
		return
	}

	status, err := h.gate.CheckAllowed(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if !status.Allowed {
		writeJSON(w, http.StatusTooManyRequests, map[string]interface{}{
			"error": quota.ErrExceeded.Error(),
			"quota": status,
		})
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}

	file, header, err := r.FormFile("video")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "video file required"})
		return
	}
	defer file.Close()

	upload, err := h.uploads.Create(r.Context(), id, header.Filename)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	spoolPath, err := h.spool(file, upload.ID, header.Filename)
	if err != nil {
		_ = h.uploads.Fail(r.Context(), upload.ID, err.Error())
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	err = h.queue.EnqueueVideoTranscribe(queue.VideoTranscribePayload{
		UploadID:     upload.ID.String(),
		IdentityKind: string(id.Kind),
		IdentityID:   id.ID.String(),
		Filename:     header.Filename,
		SpoolPath:    spoolPath,
	})
	if err != nil {
		_ = h.uploads.Fail(r.Context(), upload.ID, err.Error())
		_ = os.Remove(spoolPath)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"upload": upload,
		"quota":  status,
	})
}

func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "no request identity"})
		return
	}

	uploadID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid upload ID"})
		return
	}

	upload, err := h.uploads.GetOwned(r.Context(), id, uploadID)
	if err != nil {
		if errors.Is(err, uploads.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "upload not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, upload)
}

func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "no request identity"})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit <= 0 {
		limit = 20
	}

	list, err := h.uploads.ListByIdentity(r.Context(), id, limit, offset)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"uploads": list, "count": len(list)})
}

// spool copies the upload to disk where the worker process can reach it.
func (h *VideoHandler) spool(file io.Reader, uploadID uuid.UUID, filename string) (string, error) {
	if err := os.MkdirAll(h.spoolDir, 0o755); err != nil {
		return "", fmt.Errorf("create spool dir: %w", err)
	}

	path := filepath.Join(h.spoolDir, uploadID.String()+filepath.Ext(filename))
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create spool file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("spool video: %w", err)
	}
	return path, nil
}

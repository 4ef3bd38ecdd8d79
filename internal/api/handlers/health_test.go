package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func getReadyz(t *testing.T, h *HealthHandler) (*httptest.ResponseRecorder, map[string]string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Readyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode readyz body: %v", err)
	}
	return rec, body.Checks
}

func TestHealthz(t *testing.T) {
	h := NewHealthHandler(nil, nil, "", "")
	rec := httptest.NewRecorder()
	h.Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestReadyzChecksPipelineDependencies(t *testing.T) {
	// "sh" stands in for ffmpeg; the check only needs a binary on PATH.
	h := NewHealthHandler(nil, nil, "sh", t.TempDir())
	rec, checks := getReadyz(t, h)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (checks: %v)", rec.Code, http.StatusOK, checks)
	}
	if checks["ffmpeg"] != "ok" {
		t.Errorf("ffmpeg check = %q, want ok", checks["ffmpeg"])
	}
	if checks["spool_dir"] != "ok" {
		t.Errorf("spool_dir check = %q, want ok", checks["spool_dir"])
	}
}

func TestReadyzMissingFFmpeg(t *testing.T) {
	h := NewHealthHandler(nil, nil, "no-such-binary-anywhere", t.TempDir())
	rec, checks := getReadyz(t, h)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
	if !strings.HasPrefix(checks["ffmpeg"], "unhealthy") {
		t.Errorf("ffmpeg check = %q, want unhealthy", checks["ffmpeg"])
	}
}

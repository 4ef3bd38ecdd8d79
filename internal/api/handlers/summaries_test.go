package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/clipbrief/clipbrief/internal/llm"
	"github.com/clipbrief/clipbrief/internal/summarize"
)

type fakeLLM struct {
	out string
	err error
}

func (f *fakeLLM) Name() string { return "fake" }

func (f *fakeLLM) Complete(_ context.Context, _ llm.Request) (string, error) {
	return f.out, f.err
}

func postSummary(t *testing.T, h *SummaryHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/v1/summaries", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	h.Create(w, r)
	return w
}

func TestCreateSummaryFromTranscript(t *testing.T) {
	h := NewSummaryHandler(summarize.New(&fakeLLM{out: "the summary"}, 12000), nil)

	w := postSummary(t, h, `{"transcript":"some talk","style":"brief"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp["summary"] != "the summary" {
		t.Errorf("summary = %q", resp["summary"])
	}
}

func TestCreateSummaryMissingInput(t *testing.T) {
	h := NewSummaryHandler(summarize.New(&fakeLLM{out: "x"}, 12000), nil)

	w := postSummary(t, h, `{"style":"brief"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCreateSummaryProviderErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"timeout", &llm.TimeoutError{Provider: "fake", Timeout: time.Second}, http.StatusGatewayTimeout},
		{"bad response", &llm.ResponseError{Provider: "fake", StatusCode: 500}, http.StatusBadGateway},
		{"bad content", &llm.ContentError{Provider: "fake", Reason: "empty"}, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSummaryHandler(summarize.New(&fakeLLM{err: tt.err}, 12000), nil)
			w := postSummary(t, h, `{"transcript":"talk","style":"brief"}`)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

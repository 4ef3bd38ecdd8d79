package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/clipbrief/clipbrief/internal/auth"
	"github.com/clipbrief/clipbrief/internal/identity"
	"github.com/clipbrief/clipbrief/internal/quota"
)

type fixedCountStore struct {
	count int
}

func (f *fixedCountStore) UploadCount(context.Context, identity.Identity) (int, error) {
	return f.count, nil
}

func (f *fixedCountStore) IncrementUploads(context.Context, identity.Identity) (int, error) {
	f.count++
	return f.count, nil
}

func TestQuotaStatusVisitor(t *testing.T) {
	gate := quota.NewGate(&fixedCountStore{count: 9}, nil, 10)
	h := NewQuotaHandler(gate)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/v1/quota", nil)
	r = r.WithContext(auth.WithIdentity(r.Context(), identity.Visitor(uuid.New())))
	h.Status(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var st quota.Status
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !st.Allowed || st.Remaining != 1 || st.Used != 9 {
		t.Errorf("status = %+v, want allowed with 1 remaining", st)
	}
}

func TestQuotaStatusNoIdentity(t *testing.T) {
	h := NewQuotaHandler(quota.NewGate(&fixedCountStore{}, nil, 10))

	w := httptest.NewRecorder()
	h.Status(w, httptest.NewRequest("GET", "/api/v1/quota", nil))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500 when middleware was skipped", w.Code)
	}
}

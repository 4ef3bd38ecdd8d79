package handlers

import (
	"net/http"

	"github.com/clipbrief/clipbrief/internal/auth"
	"github.com/clipbrief/clipbrief/internal/quota"
)

type QuotaHandler struct {
	gate *quota.Gate
}

func NewQuotaHandler(gate *quota.Gate) *QuotaHandler {
	return &QuotaHandler{gate: gate}
}

// Status reports the requester's remaining free uploads.
func (h *QuotaHandler) Status(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(w, http.StatusOK, status)
}

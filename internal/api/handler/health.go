package handler

import (
	"net/http"

	"github.com/mcoot/rpserver-go/internal/api/response"
	"github.com/mcoot/rpserver-go/internal/presence"
)

// HealthHandler reports liveness plus the size of the online set
type HealthHandler struct {
	presence presence.Store
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store presence.Store) *HealthHandler {
	return &HealthHandler{presence: store}
}

// Check handles GET /api/v1/health. An unreachable presence store reports
// degraded with 503 so load balancers stop routing admin traffic here.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	entries, err := h.presence.List(r.Context())
	if err != nil {
		response.JSON(w, http.StatusServiceUnavailable, response.HealthResponse{Status: response.HealthDegraded})
		return
	}
	response.JSON(w, http.StatusOK, response.HealthResponse{Status: response.HealthOK, Online: len(entries)})
}

package handler

import (
	"net/http"

	"github.com/mcoot/rpserver-go/internal/api/response"
	"github.com/mcoot/rpserver-go/internal/presence"
)

// OnlineHandler lists characters in play
type OnlineHandler struct {
	presence presence.Store
}

// NewOnlineHandler creates a new online handler
func NewOnlineHandler(store presence.Store) *OnlineHandler {
	return &OnlineHandler{presence: store}
}

// List handles GET /api/v1/online
func (h *OnlineHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.presence.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.OnlineResponseFromEntries(entries))
}

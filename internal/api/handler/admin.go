package handler

import (
	"net/http"

	"github.com/mcoot/rpserver-go/internal/api/request"
	"github.com/mcoot/rpserver-go/internal/api/response"
	"github.com/mcoot/rpserver-go/internal/services/auth"
)

// AdminHandler handles admin authentication
type AdminHandler struct {
	authService *auth.Service
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(authService *auth.Service) *AdminHandler {
	return &AdminHandler{
		authService: authService,
	}
}

// Login handles POST /api/v1/admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.AdminLoginRequest
	if !decode(w, r, &req) {
		return
	}

	token, claims, err := h.authService.AdminLogin(r.Context(), req.Name, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LoginResponseFromClaims(token, claims))
}

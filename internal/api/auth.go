package api

import (
	"net/http"

	"github.com/erazemk/assetinv/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	Service *service.AuthService
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	res, err := h.Service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err, "Server error")
		return
	}

	jsonResponse(w, http.StatusOK, res)
}

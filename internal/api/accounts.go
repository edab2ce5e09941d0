package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/assetinv/internal/model"
	"github.com/erazemk/assetinv/internal/service"
)

// AccountsHandler handles admin account endpoints.
type AccountsHandler struct {
	Service *service.AccountService
}

// List handles GET /api/accounts.
func (h *AccountsHandler) List(w http.ResponseWriter, r *http.Request) {
	res, err := h.Service.List(r.Context(), r.URL.Query())
	if err != nil {
		writeError(w, r, err, "Server error")
		return
	}
	jsonResponse(w, http.StatusOK, res)
}

// Get handles GET /api/accounts/{id}.
func (h *AccountsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid account ID")
		return
	}

	a, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "Server error")
		return
	}
	jsonResponse(w, http.StatusOK, a)
}

// Create handles POST /api/accounts.
func (h *AccountsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateAccountInput
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "Required fields missing")
		return
	}

	a, err := h.Service.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, err, "Server error")
		return
	}

	jsonResponse(w, http.StatusCreated, map[string]any{
		"message": "Account created successfully",
		"id":      a.ID,
	})
}

// Update handles PUT /api/accounts/{id}.
func (h *AccountsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid account ID")
		return
	}

	var req model.UpdateAccountInput
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	a, err := h.Service.Update(r.Context(), id, req)
	if err != nil {
		writeError(w, r, err, "Failed to update account")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"message": "Account updated successfully",
		"account": a,
	})
}

// Delete handles DELETE /api/accounts/{id}.
func (h *AccountsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid account ID")
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, "Server error")
		return
	}
	slog.Info("account deleted", "id", id, "by", actor(r))
	jsonResponse(w, http.StatusOK, map[string]string{"message": "Account deleted successfully"})
}

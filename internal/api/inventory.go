package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/assetinv/internal/model"
	"github.com/erazemk/assetinv/internal/service"
)

// InventoryHandler handles inventory item endpoints.
type InventoryHandler struct {
	Service *service.InventoryService
	// Development adds the underlying error to failed create responses.
	Development bool
}

// List handles GET /api/inventory.
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	res, err := h.Service.List(r.Context(), r.URL.Query())
	if err != nil {
		writeError(w, r, err, "Server error")
		return
	}
	jsonResponse(w, http.StatusOK, res)
}

// Get handles GET /api/inventory/{id}.
func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	item, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "Server error")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Create handles POST /api/inventory.
func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.ItemInput
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := h.Service.Create(r.Context(), req)
	if err != nil {
		status, message := errorStatus(err, "Failed to create inventory item")
		if status != http.StatusInternalServerError {
			jsonError(w, status, message)
			return
		}
		slog.Error(message, "method", r.Method, "path", r.URL.Path, "error", err)
		body := map[string]string{"message": message}
		if h.Development {
			body["error"] = err.Error()
		}
		jsonResponse(w, status, body)
		return
	}

	jsonResponse(w, http.StatusCreated, map[string]any{
		"message": "Inventory item created successfully",
		"item":    item,
	})
}

// UpdateMissingID handles PUT /api/inventory without an item ID.
func (h *InventoryHandler) UpdateMissingID(w http.ResponseWriter, r *http.Request) {
	jsonError(w, http.StatusBadRequest, "ID is required for updates")
}

// Update handles PUT /api/inventory/{id}.
func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	var req model.ItemInput
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := h.Service.Update(r.Context(), id, req)
	if err != nil {
		writeError(w, r, err, "Failed to update inventory item")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"message": "Inventory item updated successfully",
		"item":    item,
	})
}

// Delete handles DELETE /api/inventory/{id}.
func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, "Failed to delete inventory item")
		return
	}
	slog.Info("inventory item deleted", "id", id, "by", actor(r))
	jsonResponse(w, http.StatusOK, map[string]string{"message": "Inventory item deleted successfully"})
}

// ModelNoExists handles GET /api/inventory/validate/model-no/{modelNo}.
func (h *InventoryHandler) ModelNoExists(w http.ResponseWriter, r *http.Request) {
	exists, err := h.Service.ModelNoExists(r.Context(), r.PathValue("modelNo"))
	if err != nil {
		writeError(w, r, err, "Server error")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]bool{"exists": exists})
}

// SerialNoExists handles GET /api/inventory/validate/serial-no/{serialNo}.
func (h *InventoryHandler) SerialNoExists(w http.ResponseWriter, r *http.Request) {
	exists, err := h.Service.SerialNoExists(r.Context(), r.PathValue("serialNo"))
	if err != nil {
		writeError(w, r, err, "Server error")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]bool{"exists": exists})
}

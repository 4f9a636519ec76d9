package handlers

import (
	"net/http"

	"github.com/snapserve/snapserve/internal/domain"
	"github.com/snapserve/snapserve/internal/server/response"
	"github.com/snapserve/snapserve/internal/storage"
)

// HandleListInventory returns all stocked items.
func (h *Handlers) HandleListInventory(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListInventory(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.OK(w, items)
}

// HandleLowStock returns items at or below their minimum stock level.
func (h *Handlers) HandleLowStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.LowStockItems(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.OK(w, items)
}

// HandleCreateInventoryItem adds a stocked item.
func (h *Handlers) HandleCreateInventoryItem(w http.ResponseWriter, r *http.Request) {
	var item domain.InventoryItem
	if err := decode(r, &item); err != nil {
		response.BadRequest(w, "Invalid data", err.Error())
		return
	}
	if item.ItemName == "" || item.Unit == "" {
		response.BadRequest(w, "Invalid data", "itemName and unit are required")
		return
	}

	item, err := h.store.CreateInventoryItem(r.Context(), item)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, item)
}

// updateInventoryRequest is the body of PUT /api/inventory/{id}.
type updateInventoryRequest struct {
	CurrentStock *int `json:"currentStock"`
	MinStock     *int `json:"minStock"`
}

// HandleUpdateInventoryItem applies a partial stock update.
func (h *Handlers) HandleUpdateInventoryItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/inventory/")
	if !ok {
		badID(w)
		return
	}

	var req updateInventoryRequest
	if err := decode(r, &req); err != nil {
		response.BadRequest(w, "Invalid data", err.Error())
		return
	}

	item, err := h.store.UpdateInventoryItem(r.Context(), id, storage.InventoryUpdate{
		CurrentStock: req.CurrentStock,
		MinStock:     req.MinStock,
	})
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.OK(w, item)
}

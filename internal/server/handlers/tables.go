package handlers

import (
	"net/http"
	"strings"

	"github.com/snapserve/snapserve/internal/domain"
	"github.com/snapserve/snapserve/internal/server/response"
	"github.com/snapserve/snapserve/internal/storage"
)

// HandleListTables returns all tables.
func (h *Handlers) HandleListTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.store.ListTables(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.OK(w, tables)
}

// HandleTableByQR resolves a scanned QR code to its table. This is the entry
// point of the customer flow: scan, resolve, browse the menu, order.
func (h *Handlers) HandleTableByQR(w http.ResponseWriter, r *http.Request) {
	qrCode := strings.TrimPrefix(r.URL.Path, "/api/tables/qr/")
	if qrCode == "" {
		response.BadRequest(w, "Invalid QR code", "QR code is required")
		return
	}

	table, err := h.store.GetTableByQR(r.Context(), qrCode)
	if err != nil {
		response.FromError(w, err)
		return
	}
	if !table.IsActive {
		response.NotFound(w, "Table not available", "")
		return
	}
	response.OK(w, table)
}

// HandleCreateTable adds a table. The QR code is generated server-side.
func (h *Handlers) HandleCreateTable(w http.ResponseWriter, r *http.Request) {
	var table domain.Table
	if err := decode(r, &table); err != nil {
		response.BadRequest(w, "Invalid data", err.Error())
		return
	}
	if table.Number == "" {
		response.BadRequest(w, "Invalid data", "number is required")
		return
	}
	if table.Capacity <= 0 {
		table.Capacity = 4
	}
	table.IsActive = true

	table, err := h.store.CreateTable(r.Context(), table)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, table)
}

// updateTableRequest is the body of PUT /api/tables/{id}.
type updateTableRequest struct {
	Number   *string `json:"number"`
	Capacity *int    `json:"capacity"`
	IsActive *bool   `json:"isActive"`
}

// HandleUpdateTable applies a partial update to a table.
func (h *Handlers) HandleUpdateTable(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/tables/")
	if !ok {
		badID(w)
		return
	}

	var req updateTableRequest
	if err := decode(r, &req); err != nil {
		response.BadRequest(w, "Invalid data", err.Error())
		return
	}

	table, err := h.store.UpdateTable(r.Context(), id, storage.TableUpdate{
		Number:   req.Number,
		Capacity: req.Capacity,
		IsActive: req.IsActive,
	})
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.OK(w, table)
}

// HandleDeleteTable removes a table.
func (h *Handlers) HandleDeleteTable(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/tables/")
	if !ok {
		badID(w)
		return
	}
	if err := h.store.DeleteTable(r.Context(), id); err != nil {
		response.FromError(w, err)
		return
	}
	response.OK(w, map[string]bool{"deleted": true})
}

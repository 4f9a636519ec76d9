package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/snapserve/snapserve/internal/domain"
	"github.com/snapserve/snapserve/internal/server/events"
	"github.com/snapserve/snapserve/internal/server/middleware"
	"github.com/snapserve/snapserve/internal/server/response"
	"github.com/snapserve/snapserve/internal/server/ws"
	"github.com/snapserve/snapserve/internal/storage"
)

// createOrderRequest is the body of POST /api/orders.
type createOrderRequest struct {
	TableID int               `json:"tableId"`
	Notes   string            `json:"notes"`
	Items   []createOrderLine `json:"items"`
}

type createOrderLine struct {
	MenuItemID int    `json:"menuItemId"`
	Quantity   int    `json:"quantity"`
	Notes      string `json:"notes"`
}

// HandleListOrders returns orders with their line items, optionally filtered
// by status or table.
func (h *Handlers) HandleListOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		orders []domain.Order
		err    error
	)
	switch {
	case r.URL.Query().Get("status") != "":
		status := domain.OrderStatus(r.URL.Query().Get("status"))
		if !status.Valid() {
			response.BadRequest(w, "Invalid status", "Unknown order status "+string(status))
			return
		}
		orders, err = h.store.OrdersByStatus(ctx, status)
	case r.URL.Query().Get("tableId") != "":
		tableID, convErr := strconv.Atoi(r.URL.Query().Get("tableId"))
		if convErr != nil {
			response.BadRequest(w, "Invalid tableId", "tableId must be an integer")
			return
		}
		orders, err = h.store.OrdersByTable(ctx, tableID)
	default:
		orders, err = h.store.ListOrders(ctx)
	}
	if err != nil {
		response.FromError(w, err)
		return
	}

	details := make([]domain.OrderDetail, 0, len(orders))
	for _, order := range orders {
		detail, detailErr := h.orderDetail(ctx, order)
		if detailErr != nil {
			response.FromError(w, detailErr)
			return
		}
		details = append(details, detail)
	}

	response.OK(w, details)
}

// orderDetail joins an order with its line items and their menu items.
func (h *Handlers) orderDetail(ctx context.Context, order domain.Order) (domain.OrderDetail, error) {
	items, err := h.store.ItemsForOrder(ctx, order.ID)
	if err != nil {
		return domain.OrderDetail{}, err
	}
	lines := make([]domain.OrderLine, 0, len(items))
	for _, item := range items {
		line := domain.OrderLine{OrderItem: item}
		if menuItem, err := h.store.GetMenuItem(ctx, item.MenuItemID); err == nil {
			line.MenuItem = &menuItem
		}
		lines = append(lines, line)
	}
	return domain.OrderDetail{Order: order, Items: lines}, nil
}

// HandleCreateOrder creates an order with its line items and broadcasts
// NEW_ORDER to staff and admin dashboards. The broadcast is best-effort: the
// order is already durably created, so a publish failure never fails the
// request.
func (h *Handlers) HandleCreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createOrderRequest
	if err := decode(r, &req); err != nil {
		response.BadRequest(w, "Invalid data", err.Error())
		return
	}
	if req.TableID <= 0 || len(req.Items) == 0 {
		response.BadRequest(w, "Invalid data", "tableId and at least one item are required")
		return
	}

	if _, err := h.store.GetTable(ctx, req.TableID); err != nil {
		response.FromError(w, err)
		return
	}

	// Price the order from the current menu.
	var total float64
	for _, line := range req.Items {
		if line.Quantity <= 0 {
			response.BadRequest(w, "Invalid data", "item quantity must be positive")
			return
		}
		menuItem, err := h.store.GetMenuItem(ctx, line.MenuItemID)
		if err != nil {
			response.FromError(w, err)
			return
		}
		total += menuItem.Price * float64(line.Quantity)
	}

	order := domain.Order{
		TableID: req.TableID,
		Notes:   req.Notes,
		Total:   total,
		// Simple kitchen estimate: 20 minutes plus 5 per line.
		EstimatedTime: 20 + len(req.Items)*5,
	}
	if id, ok := middleware.IdentityFromContext(ctx); ok {
		order.CustomerID = id.UserID
	}

	order, err := h.store.CreateOrder(ctx, order)
	if err != nil {
		response.FromError(w, err)
		return
	}

	for _, line := range req.Items {
		menuItem, err := h.store.GetMenuItem(ctx, line.MenuItemID)
		if err != nil {
			continue
		}
		_, err = h.store.CreateOrderItem(ctx, domain.OrderItem{
			OrderID:    order.ID,
			MenuItemID: line.MenuItemID,
			Quantity:   line.Quantity,
			Price:      menuItem.Price,
			Notes:      line.Notes,
		})
		if err != nil {
			h.logger.Error().Err(err).Int("order_id", order.ID).Msg("Failed to store order item")
		}
	}

	detail, err := h.orderDetail(ctx, order)
	if err != nil {
		response.FromError(w, err)
		return
	}

	// Order-lifecycle events go to staff and admin as two separate
	// role-scoped publishes, keeping the role set independently extensible.
	event := events.NewOrder(detail)
	h.hub.Publish(event, ws.ToRole(domain.RoleStaff))
	h.hub.Publish(event, ws.ToRole(domain.RoleAdmin))

	response.Created(w, detail)
}

// updateOrderRequest is the body of PUT /api/orders/{id}.
type updateOrderRequest struct {
	Status        *domain.OrderStatus `json:"status"`
	Notes         *string             `json:"notes"`
	EstimatedTime *int                `json:"estimatedTime"`
	StaffID       *int                `json:"staffId"`
}

// HandleUpdateOrder applies a partial update to an order and broadcasts
// ORDER_UPDATED to every live connection.
func (h *Handlers) HandleUpdateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := pathID(r.URL.Path, "/api/orders/")
	if !ok {
		badID(w)
		return
	}

	var req updateOrderRequest
	if err := decode(r, &req); err != nil {
		response.BadRequest(w, "Invalid data", err.Error())
		return
	}
	if req.Status != nil && !req.Status.Valid() {
		response.BadRequest(w, "Invalid status", "Unknown order status "+string(*req.Status))
		return
	}

	order, err := h.store.UpdateOrder(ctx, id, storage.OrderUpdate{
		Status:        req.Status,
		Notes:         req.Notes,
		EstimatedTime: req.EstimatedTime,
		StaffID:       req.StaffID,
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	detail, err := h.orderDetail(ctx, order)
	if err != nil {
		response.FromError(w, err)
		return
	}

	h.hub.Publish(events.OrderUpdated(detail), ws.ToAll())

	response.OK(w, detail)
}

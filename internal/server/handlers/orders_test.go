package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snapserve/snapserve/internal/domain"
	"github.com/snapserve/snapserve/internal/server/events"
)

func TestCreateOrderPricesFromMenu(t *testing.T) {
	env := newTestEnv(t)

	// Seeded menu: item 1 is 6.50, item 4 is 12.50.
	body := createOrderRequest{
		TableID: 1,
		Items: []createOrderLine{
			{MenuItemID: 1, Quantity: 2},
			{MenuItemID: 4, Quantity: 1},
		},
	}

	var detail domain.OrderDetail
	rec := do(t, env.handlers.HandleCreateOrder, http.MethodPost, "/api/orders", body, &detail)
	require.Equal(t, http.StatusCreated, rec.Code)

	assert.Equal(t, "ORD-0001", detail.OrderNumber)
	assert.Equal(t, domain.OrderPending, detail.Status)
	assert.InDelta(t, 2*6.5+12.5, detail.Total, 0.001)
	assert.Equal(t, 20+2*5, detail.EstimatedTime, "20 minutes base plus 5 per line")
	require.Len(t, detail.Items, 2)
	require.NotNil(t, detail.Items[0].MenuItem)
	assert.Equal(t, "Tomato Bruschetta", detail.Items[0].MenuItem.Name)
}

func TestCreateOrderValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body createOrderRequest
		code int
	}{
		{"no items", createOrderRequest{TableID: 1}, http.StatusBadRequest},
		{"no table", createOrderRequest{Items: []createOrderLine{{MenuItemID: 1, Quantity: 1}}}, http.StatusBadRequest},
		{"unknown table", createOrderRequest{TableID: 99, Items: []createOrderLine{{MenuItemID: 1, Quantity: 1}}}, http.StatusNotFound},
		{"unknown menu item", createOrderRequest{TableID: 1, Items: []createOrderLine{{MenuItemID: 99, Quantity: 1}}}, http.StatusNotFound},
		{"zero quantity", createOrderRequest{TableID: 1, Items: []createOrderLine{{MenuItemID: 1}}}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, env.handlers.HandleCreateOrder, http.MethodPost, "/api/orders", tt.body, nil)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	env := newTestEnv(t)

	var created domain.OrderDetail
	body := createOrderRequest{TableID: 1, Items: []createOrderLine{{MenuItemID: 3, Quantity: 1}}}
	rec := do(t, env.handlers.HandleCreateOrder, http.MethodPost, "/api/orders", body, &created)
	require.Equal(t, http.StatusCreated, rec.Code)

	status := domain.OrderPreparing
	var updated domain.OrderDetail
	rec = do(t, env.handlers.HandleUpdateOrder, http.MethodPut, "/api/orders/1", updateOrderRequest{Status: &status}, &updated)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.OrderPreparing, updated.Status)

	bad := domain.OrderStatus("microwaving")
	rec = do(t, env.handlers.HandleUpdateOrder, http.MethodPut, "/api/orders/1", updateOrderRequest{Status: &bad}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BAD_REQUEST", decodeError(t, rec).Code)

	rec = do(t, env.handlers.HandleUpdateOrder, http.MethodPut, "/api/orders/99", updateOrderRequest{Status: &status}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListOrdersFilters(t *testing.T) {
	env := newTestEnv(t)

	for tableID := 1; tableID <= 2; tableID++ {
		body := createOrderRequest{TableID: tableID, Items: []createOrderLine{{MenuItemID: 1, Quantity: 1}}}
		rec := do(t, env.handlers.HandleCreateOrder, http.MethodPost, "/api/orders", body, nil)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	var all []domain.OrderDetail
	rec := do(t, env.handlers.HandleListOrders, http.MethodGet, "/api/orders", nil, &all)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, all, 2)
	assert.Equal(t, 2, all[0].ID, "newest first")

	var byTable []domain.OrderDetail
	rec = do(t, env.handlers.HandleListOrders, http.MethodGet, "/api/orders?tableId=1", nil, &byTable)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, byTable, 1)

	rec = do(t, env.handlers.HandleListOrders, http.MethodGet, "/api/orders?status=microwaving", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// wsDial connects a live WebSocket session through HandleWebSocket and
// optionally authenticates it in-band.
func wsDial(t *testing.T, env *testEnv, auth *events.AuthMessage) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(env.handlers.HandleWebSocket))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	if auth != nil {
		require.NoError(t, conn.WriteJSON(auth))
		waitForRole(t, env, auth.Role)
	}
	return conn
}

func waitForRole(t *testing.T, env *testEnv, role domain.Role) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if env.hub.RoleCount(role) > 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("role %s never authenticated", role)
}

func readEvent(t *testing.T, conn *websocket.Conn) events.Envelope {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var env events.Envelope
	require.NoError(t, json.Unmarshal(data, &env))
	return env
}

func expectNoEvent(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	if _, data, err := conn.ReadMessage(); err == nil {
		t.Fatalf("unexpected event: %s", data)
	}
}

func TestCreateOrderNotifiesStaffAndAdmin(t *testing.T) {
	env := newTestEnv(t)

	staff := wsDial(t, env, &events.AuthMessage{Type: events.KindAuth, UserID: 2, Role: domain.RoleStaff})
	admin := wsDial(t, env, &events.AuthMessage{Type: events.KindAuth, UserID: 1, Role: domain.RoleAdmin})
	customer := wsDial(t, env, nil)

	body := createOrderRequest{TableID: 2, Items: []createOrderLine{{MenuItemID: 3, Quantity: 1}}}
	rec := do(t, env.handlers.HandleCreateOrder, http.MethodPost, "/api/orders", body, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	for _, conn := range []*websocket.Conn{staff, admin} {
		event := readEvent(t, conn)
		assert.Equal(t, events.KindNewOrder, event.Type)
		require.NotNil(t, event.Order)
		assert.Equal(t, "ORD-0001", event.Order.OrderNumber)
		require.Len(t, event.Order.Items, 1)
	}

	// Customers get no order-lifecycle push for creations.
	expectNoEvent(t, customer)
}

func TestUpdateOrderNotifiesEveryone(t *testing.T) {
	env := newTestEnv(t)

	body := createOrderRequest{TableID: 1, Items: []createOrderLine{{MenuItemID: 1, Quantity: 1}}}
	rec := do(t, env.handlers.HandleCreateOrder, http.MethodPost, "/api/orders", body, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	staff := wsDial(t, env, &events.AuthMessage{Type: events.KindAuth, UserID: 2, Role: domain.RoleStaff})
	customer := wsDial(t, env, nil)

	status := domain.OrderReady
	rec = do(t, env.handlers.HandleUpdateOrder, http.MethodPut, "/api/orders/1", updateOrderRequest{Status: &status}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Status changes go to every live session, authenticated or not.
	for _, conn := range []*websocket.Conn{staff, customer} {
		event := readEvent(t, conn)
		assert.Equal(t, events.KindOrderUpdated, event.Type)
		require.NotNil(t, event.Order)
		assert.Equal(t, domain.OrderReady, event.Order.Status)
	}
}

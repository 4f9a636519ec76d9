package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snapserve/snapserve/internal/ai"
	"github.com/snapserve/snapserve/internal/domain"
)

func TestRecommendationsFromSeededMenu(t *testing.T) {
	env := newTestEnv(t)

	var recs []ai.Recommendation
	rec := do(t, env.handlers.HandleRecommendations, http.MethodGet, "/api/ai/recommendations", nil, &recs)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotEmpty(t, recs)
	assert.LessOrEqual(t, len(recs), 3)
}

func TestUpsellExcludesCart(t *testing.T) {
	env := newTestEnv(t)

	body := upsellRequest{Items: []domain.OrderItem{{MenuItemID: 1, Quantity: 1}}}
	var suggestions []ai.UpsellSuggestion
	rec := do(t, env.handlers.HandleUpsell, http.MethodPost, "/api/ai/upsell", body, &suggestions)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotEmpty(t, suggestions)
	for _, s := range suggestions {
		assert.NotEqual(t, 1, s.ID)
	}
}

func TestInventoryPredictionsPersistRunway(t *testing.T) {
	env := newTestEnv(t)

	var predictions []ai.InventoryPrediction
	rec := do(t, env.handlers.HandleInventoryPredictions, http.MethodGet, "/api/ai/inventory-predictions", nil, &predictions)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, predictions)

	// The predicted runway is written back onto the inventory records.
	items, err := env.store.ListInventory(context.Background())
	require.NoError(t, err)
	for _, item := range items {
		assert.NotZero(t, item.PredictedDays, "item %q has no stored prediction", item.ItemName)
	}
}

func TestChat(t *testing.T) {
	env := newTestEnv(t)

	var reply map[string]string
	rec := do(t, env.handlers.HandleChat, http.MethodPost, "/api/ai/chat", chatRequest{Message: "what is good here?"}, &reply)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, reply["reply"])

	rec = do(t, env.handlers.HandleChat, http.MethodPost, "/api/ai/chat", chatRequest{}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyticsToday(t *testing.T) {
	env := newTestEnv(t)

	// One completed and one active order today.
	body := createOrderRequest{TableID: 1, Items: []createOrderLine{{MenuItemID: 3, Quantity: 1}}}
	rec := do(t, env.handlers.HandleCreateOrder, http.MethodPost, "/api/orders", body, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = do(t, env.handlers.HandleCreateOrder, http.MethodPost, "/api/orders", createOrderRequest{TableID: 2, Items: []createOrderLine{{MenuItemID: 4, Quantity: 2}}}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	served := domain.OrderServed
	rec = do(t, env.handlers.HandleUpdateOrder, http.MethodPut, "/api/orders/1", updateOrderRequest{Status: &served}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary analyticsSummary
	rec = do(t, env.handlers.HandleAnalyticsToday, http.MethodGet, "/api/analytics/today", nil, &summary)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 1, summary.CompletedOrders)
	assert.Equal(t, 1, summary.ActiveOrders)
	assert.Equal(t, 1, summary.ActiveTables)
	assert.InDelta(t, 14.0, summary.Revenue, 0.001)
	assert.InDelta(t, 14.0, summary.AverageOrder, 0.001)
}

func TestLowStockEndpoint(t *testing.T) {
	env := newTestEnv(t)

	var low []domain.InventoryItem
	rec := do(t, env.handlers.HandleLowStock, http.MethodGet, "/api/inventory/low-stock", nil, &low)
	require.Equal(t, http.StatusOK, rec.Code)

	// Seeded tomatoes sit below their minimum stock.
	require.Len(t, low, 1)
	assert.Equal(t, "Tomatoes", low[0].ItemName)
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/snapserve/snapserve/internal/domain"
	"github.com/snapserve/snapserve/internal/server/response"
	"github.com/snapserve/snapserve/internal/storage"
)

// HandleRecommendations returns personalized meal suggestions for a customer.
func (h *Handlers) HandleRecommendations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	customerID, _ := strconv.Atoi(r.URL.Query().Get("customerId"))

	menu, err := h.store.ListMenuItems(ctx)
	if err != nil {
		response.FromError(w, err)
		return
	}
	history, err := h.store.ListOrders(ctx)
	if err != nil {
		response.FromError(w, err)
		return
	}
	if customerID > 0 {
		own := history[:0]
		for _, order := range history {
			if order.CustomerID == customerID {
				own = append(own, order)
			}
		}
		history = own
	}

	recommendations, err := h.assistant.RecommendMeals(ctx, customerID, history, menu)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.OK(w, recommendations)
}

// upsellRequest is the body of POST /api/ai/upsell.
type upsellRequest struct {
	Items []domain.OrderItem `json:"items"`
}

// HandleUpsell proposes complementary items for the cart in the request body.
func (h *Handlers) HandleUpsell(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req upsellRequest
	if err := decode(r, &req); err != nil {
		response.BadRequest(w, "Invalid data", err.Error())
		return
	}

	menu, err := h.store.ListMenuItems(ctx)
	if err != nil {
		response.FromError(w, err)
		return
	}

	suggestions, err := h.assistant.SuggestUpsells(ctx, req.Items, menu)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.OK(w, suggestions)
}

// HandleInventoryPredictions forecasts stock runway for every inventory item
// and stores the predicted days back on each record.
func (h *Handlers) HandleInventoryPredictions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	inventory, err := h.store.ListInventory(ctx)
	if err != nil {
		response.FromError(w, err)
		return
	}
	orders, err := h.store.ListOrders(ctx)
	if err != nil {
		response.FromError(w, err)
		return
	}

	predictions, err := h.assistant.ForecastInventory(ctx, inventory, orders)
	if err != nil {
		response.FromError(w, err)
		return
	}

	byName := make(map[string]int, len(inventory))
	for _, item := range inventory {
		byName[item.ItemName] = item.ID
	}
	for _, prediction := range predictions {
		id, ok := byName[prediction.ItemName]
		if !ok {
			continue
		}
		days := prediction.PredictedDays
		if _, err := h.store.UpdateInventoryItem(ctx, id, storage.InventoryUpdate{PredictedDays: &days}); err != nil {
			h.logger.Warn().Err(err).Str("item", prediction.ItemName).Msg("Failed to store inventory prediction")
		}
	}

	response.OK(w, predictions)
}

// chatRequest is the body of POST /api/ai/chat.
type chatRequest struct {
	Message string `json:"message"`
}

// HandleChat answers a free-form customer question about the menu.
func (h *Handlers) HandleChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req chatRequest
	if err := decode(r, &req); err != nil {
		response.BadRequest(w, "Invalid data", err.Error())
		return
	}
	if req.Message == "" {
		response.BadRequest(w, "Invalid data", "message is required")
		return
	}

	menu, err := h.store.ListMenuItems(ctx)
	if err != nil {
		response.FromError(w, err)
		return
	}
	restaurant, err := h.store.GetRestaurant(ctx, 1)
	if err != nil {
		response.FromError(w, err)
		return
	}

	reply, err := h.assistant.Chat(ctx, req.Message, menu, restaurant)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.OK(w, map[string]string{"reply": reply})
}

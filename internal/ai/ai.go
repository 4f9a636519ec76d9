// Package ai supplies the platform's intelligence layer: sentiment analysis,
// meal recommendations, upsell prompts, inventory forecasts, and a chat
// assistant. The broadcast subsystem consumes it as an opaque function
// returning structured data; its failures degrade to neutral defaults and
// never fail the triggering request.
package ai

import (
	"context"

	"github.com/snapserve/snapserve/internal/domain"
)

// Recommendation is one personalized meal suggestion.
type Recommendation struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Reason     string  `json:"reason"`
	Confidence float64 `json:"confidence"`
}

// UpsellSuggestion is one complementary item proposed for the current cart.
type UpsellSuggestion struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Reason   string  `json:"reason"`
	Price    float64 `json:"price"`
	Priority int     `json:"priority"` // 1 = strongest
}

// InventoryPrediction estimates how many days an ingredient will last.
type InventoryPrediction struct {
	ItemName      string  `json:"itemName"`
	PredictedDays int     `json:"predictedDays"`
	Confidence    float64 `json:"confidence"`
	Urgency       string  `json:"urgency"` // low, medium, high
}

// Assistant is the AI surface consumed by the HTTP handlers and the
// feedback event source.
type Assistant interface {
	// AnalyzeSentiment classifies a feedback comment. It is consumed
	// synchronously before publishing a NEGATIVE_FEEDBACK event.
	AnalyzeSentiment(ctx context.Context, comment string) (domain.SentimentAnalysis, error)

	// RecommendMeals proposes dishes for a customer based on order history.
	RecommendMeals(ctx context.Context, customerID int, history []domain.Order, menu []domain.MenuItem) ([]Recommendation, error)

	// SuggestUpsells proposes complementary items for the current cart.
	SuggestUpsells(ctx context.Context, cart []domain.OrderItem, menu []domain.MenuItem) ([]UpsellSuggestion, error)

	// ForecastInventory estimates stock runway from recent order volume.
	ForecastInventory(ctx context.Context, inventory []domain.InventoryItem, orders []domain.Order) ([]InventoryPrediction, error)

	// Chat answers a free-form customer question about the menu.
	Chat(ctx context.Context, message string, menu []domain.MenuItem, restaurant domain.Restaurant) (string, error)
}

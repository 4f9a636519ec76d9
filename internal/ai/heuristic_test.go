package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snapserve/snapserve/internal/domain"
)

func testMenu() []domain.MenuItem {
	return []domain.MenuItem{
		{ID: 1, Name: "Margherita", Price: 11.0, IsAvailable: true, IsPopular: true, CategoryID: 1},
		{ID: 2, Name: "Tiramisu", Price: 6.5, IsAvailable: true, IsPopular: true, CategoryID: 2},
		{ID: 3, Name: "Carbonara", Price: 13.0, IsAvailable: true, CategoryID: 1},
		{ID: 4, Name: "Seasonal Special", Price: 18.0, IsAvailable: false, IsPopular: true, CategoryID: 1},
	}
}

func TestAnalyzeSentiment(t *testing.T) {
	h := NewHeuristic()
	ctx := context.Background()

	tests := []struct {
		name    string
		comment string
		want    domain.Sentiment
	}{
		{"negative", "The food was cold and the service was terrible", domain.SentimentNegative},
		{"positive", "Delicious food and friendly staff", domain.SentimentPositive},
		{"neutral", "It was fine I suppose", domain.SentimentNeutral},
		{"empty", "", domain.SentimentNeutral},
		{"mixed leans flat", "great pizza but slow service", domain.SentimentNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis, err := h.AnalyzeSentiment(ctx, tt.comment)
			require.NoError(t, err)
			assert.Equal(t, tt.want, analysis.Sentiment)
		})
	}
}

func TestAnalyzeSentimentReportsIssues(t *testing.T) {
	h := NewHeuristic()

	analysis, err := h.AnalyzeSentiment(context.Background(), "cold food, rude waiter")
	require.NoError(t, err)

	assert.Equal(t, domain.SentimentNegative, analysis.Sentiment)
	assert.Contains(t, analysis.Issues, "cold")
	assert.Contains(t, analysis.Issues, "rude")
	assert.LessOrEqual(t, analysis.Score, -0.3)
	assert.GreaterOrEqual(t, analysis.Score, -1.0, "score is clamped")
}

func TestRecommendMealsPrefersPopularAvailable(t *testing.T) {
	h := NewHeuristic()

	recs, err := h.RecommendMeals(context.Background(), 1, nil, testMenu())
	require.NoError(t, err)

	require.Len(t, recs, 2)
	names := []string{recs[0].Name, recs[1].Name}
	assert.Contains(t, names, "Margherita")
	assert.Contains(t, names, "Tiramisu")
	assert.NotContains(t, names, "Seasonal Special", "unavailable items are never recommended")
}

func TestSuggestUpsellsSkipsCartItems(t *testing.T) {
	h := NewHeuristic()
	cart := []domain.OrderItem{{MenuItemID: 1, Quantity: 1}}

	suggestions, err := h.SuggestUpsells(context.Background(), cart, testMenu())
	require.NoError(t, err)

	require.NotEmpty(t, suggestions)
	for _, s := range suggestions {
		assert.NotEqual(t, 1, s.ID, "items already in the cart are not upsold")
	}
	assert.Equal(t, "Tiramisu", suggestions[0].Name, "popular and cheap ranks first")
	assert.Equal(t, 1, suggestions[0].Priority)
}

func TestForecastInventoryUrgency(t *testing.T) {
	h := NewHeuristic()
	inventory := []domain.InventoryItem{
		{ItemName: "Tomatoes", CurrentStock: 1, MinStock: 5},
		{ItemName: "Flour", CurrentStock: 2, MinStock: 1},
		{ItemName: "Olive Oil", CurrentStock: 40, MinStock: 3},
	}

	// No recent orders: usage floors at half a unit per day.
	predictions, err := h.ForecastInventory(context.Background(), inventory, nil)
	require.NoError(t, err)
	require.Len(t, predictions, 3)

	byName := map[string]InventoryPrediction{}
	for _, p := range predictions {
		byName[p.ItemName] = p
	}

	assert.Equal(t, "high", byName["Tomatoes"].Urgency, "below minimum stock is always high")
	assert.Equal(t, "medium", byName["Flour"].Urgency)
	assert.Equal(t, "low", byName["Olive Oil"].Urgency)
	assert.Equal(t, 80, byName["Olive Oil"].PredictedDays)
}

func TestChatMentionsPopularDishes(t *testing.T) {
	h := NewHeuristic()
	restaurant := domain.Restaurant{Name: "Trattoria Demo"}

	reply, err := h.Chat(context.Background(), "what should I eat?", testMenu(), restaurant)
	require.NoError(t, err)

	assert.Contains(t, reply, "Trattoria Demo")
	assert.Contains(t, reply, "Margherita")
}

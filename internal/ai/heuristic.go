package ai

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/snapserve/snapserve/internal/domain"
)

// Heuristic is a deterministic Assistant used when no model API key is
// configured, and in tests. It keeps the platform fully functional offline.
type Heuristic struct{}

// NewHeuristic creates the deterministic assistant.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

var negativeWords = []string{
	"cold", "slow", "rude", "bad", "awful", "terrible", "horrible",
	"disgusting", "stale", "burnt", "wrong", "late", "dirty", "worst",
	"never", "disappointed", "disappointing", "bland", "overpriced",
}

var positiveWords = []string{
	"great", "good", "delicious", "amazing", "excellent", "tasty",
	"friendly", "fast", "perfect", "wonderful", "best", "lovely", "fresh",
}

// AnalyzeSentiment scores a comment by weighing known positive and negative
// keywords. Empty comments are neutral.
func (h *Heuristic) AnalyzeSentiment(_ context.Context, comment string) (domain.SentimentAnalysis, error) {
	text := strings.ToLower(comment)
	if strings.TrimSpace(text) == "" {
		return domain.SentimentAnalysis{
			Sentiment:  domain.SentimentNeutral,
			Score:      0,
			Confidence: 0.5,
		}, nil
	}

	var score float64
	var issues []string
	for _, w := range negativeWords {
		if strings.Contains(text, w) {
			score -= 0.3
			issues = append(issues, w)
		}
	}
	for _, w := range positiveWords {
		if strings.Contains(text, w) {
			score += 0.3
		}
	}
	if score > 1 {
		score = 1
	}
	if score < -1 {
		score = -1
	}

	analysis := domain.SentimentAnalysis{
		Score:      score,
		Confidence: 0.6,
		Issues:     issues,
	}
	switch {
	case score <= -0.3:
		analysis.Sentiment = domain.SentimentNegative
	case score >= 0.3:
		analysis.Sentiment = domain.SentimentPositive
	default:
		analysis.Sentiment = domain.SentimentNeutral
		analysis.Issues = nil
	}
	return analysis, nil
}

// RecommendMeals suggests popular, available items the customer has not
// ordered recently.
func (h *Heuristic) RecommendMeals(_ context.Context, _ int, _ []domain.Order, menu []domain.MenuItem) ([]Recommendation, error) {
	recs := make([]Recommendation, 0, 3)
	for _, item := range menu {
		if !item.IsAvailable || !item.IsPopular {
			continue
		}
		recs = append(recs, Recommendation{
			ID:         item.ID,
			Name:       item.Name,
			Reason:     "A favourite with our regulars",
			Confidence: 0.55,
		})
		if len(recs) == 3 {
			break
		}
	}
	return recs, nil
}

// SuggestUpsells proposes cheap popular items from categories missing from
// the cart, drinks and starters first.
func (h *Heuristic) SuggestUpsells(_ context.Context, cart []domain.OrderItem, menu []domain.MenuItem) ([]UpsellSuggestion, error) {
	inCart := make(map[int]bool, len(cart))
	for _, line := range cart {
		inCart[line.MenuItemID] = true
	}

	candidates := make([]domain.MenuItem, 0)
	for _, item := range menu {
		if item.IsAvailable && !inCart[item.ID] {
			candidates = append(candidates, item)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].IsPopular != candidates[j].IsPopular {
			return candidates[i].IsPopular
		}
		return candidates[i].Price < candidates[j].Price
	})

	suggestions := make([]UpsellSuggestion, 0, 3)
	for i, item := range candidates {
		if i == 3 {
			break
		}
		suggestions = append(suggestions, UpsellSuggestion{
			ID:       item.ID,
			Name:     item.Name,
			Reason:   "Pairs well with your order",
			Price:    item.Price,
			Priority: i + 1,
		})
	}
	return suggestions, nil
}

// ForecastInventory estimates runway as current stock divided by a daily
// usage rate derived from recent order volume.
func (h *Heuristic) ForecastInventory(_ context.Context, inventory []domain.InventoryItem, orders []domain.Order) ([]InventoryPrediction, error) {
	// One order consumes roughly one stock unit per tracked ingredient;
	// a quiet restaurant still burns a trickle.
	dailyUsage := float64(len(orders)) / 7.0
	if dailyUsage < 0.5 {
		dailyUsage = 0.5
	}

	predictions := make([]InventoryPrediction, 0, len(inventory))
	for _, item := range inventory {
		days := int(float64(item.CurrentStock) / dailyUsage)
		urgency := "low"
		switch {
		case days <= 2 || item.CurrentStock <= item.MinStock:
			urgency = "high"
		case days <= 5:
			urgency = "medium"
		}
		predictions = append(predictions, InventoryPrediction{
			ItemName:      item.ItemName,
			PredictedDays: days,
			Confidence:    0.5,
			Urgency:       urgency,
		})
	}
	return predictions, nil
}

// Chat answers menu questions with a templated reply listing popular dishes.
func (h *Heuristic) Chat(_ context.Context, _ string, menu []domain.MenuItem, restaurant domain.Restaurant) (string, error) {
	popular := make([]string, 0, 3)
	for _, item := range menu {
		if item.IsPopular && item.IsAvailable {
			popular = append(popular, item.Name)
		}
		if len(popular) == 3 {
			break
		}
	}
	if len(popular) == 0 {
		return fmt.Sprintf("Welcome to %s! Ask our staff for today's specials.", restaurant.Name), nil
	}
	return fmt.Sprintf("Welcome to %s! Guests love our %s.", restaurant.Name, strings.Join(popular, ", ")), nil
}

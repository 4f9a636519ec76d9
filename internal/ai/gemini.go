package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/snapserve/snapserve/internal/domain"
	"github.com/snapserve/snapserve/pkg/errors"
)

// defaultModel is the Gemini model used for all assistant calls.
const defaultModel = "gemini-2.0-flash"

// Gemini is an Assistant backed by the Google GenAI API. Structured calls
// request JSON responses and fall back to the deterministic heuristic when
// the model is unreachable or returns garbage.
type Gemini struct {
	client   *genai.Client
	model    string
	fallback *Heuristic
	logger   *zerolog.Logger
}

// NewGemini creates a Gemini-backed assistant. An empty model selects the
// default.
func NewGemini(ctx context.Context, apiKey, model string, logger *zerolog.Logger) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.NewAssistantError("client init", err)
	}
	if model == "" {
		model = defaultModel
	}
	return &Gemini{
		client:   client,
		model:    model,
		fallback: NewHeuristic(),
		logger:   logger,
	}, nil
}

// generateJSON sends a prompt expecting a JSON object and decodes it into out.
func (g *Gemini) generateJSON(ctx context.Context, prompt string, out any) error {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return errors.NewAssistantError("generate", err)
	}
	text := resp.Text()
	if text == "" {
		return errors.NewAssistantError("generate", errors.New("empty model response"))
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return errors.NewAssistantError("decode", err)
	}
	return nil
}

// AnalyzeSentiment classifies a feedback comment via the model, degrading to
// the keyword heuristic on failure.
func (g *Gemini) AnalyzeSentiment(ctx context.Context, comment string) (domain.SentimentAnalysis, error) {
	if strings.TrimSpace(comment) == "" {
		return g.fallback.AnalyzeSentiment(ctx, comment)
	}

	prompt := fmt.Sprintf(`You analyze restaurant customer feedback.
Classify the sentiment of the comment below and respond with JSON only:
{"sentiment": "positive"|"negative"|"neutral", "score": -1.0..1.0, "confidence": 0.0..1.0, "issues": ["specific problem", ...]}

Comment: %q`, comment)

	var analysis domain.SentimentAnalysis
	if err := g.generateJSON(ctx, prompt, &analysis); err != nil {
		g.logger.Warn().Err(err).Msg("Sentiment analysis degraded to heuristic")
		return g.fallback.AnalyzeSentiment(ctx, comment)
	}
	switch analysis.Sentiment {
	case domain.SentimentPositive, domain.SentimentNegative, domain.SentimentNeutral:
	default:
		g.logger.Warn().Str("sentiment", string(analysis.Sentiment)).Msg("Unrecognized sentiment class, degraded to heuristic")
		return g.fallback.AnalyzeSentiment(ctx, comment)
	}
	return analysis, nil
}

// RecommendMeals asks the model for personalized suggestions.
func (g *Gemini) RecommendMeals(ctx context.Context, customerID int, history []domain.Order, menu []domain.MenuItem) ([]Recommendation, error) {
	historyJSON, _ := json.Marshal(history)
	menuJSON, _ := json.Marshal(menu)
	prompt := fmt.Sprintf(`You are a restaurant recommendation assistant.
Based on the customer's order history and the available menu, suggest up to 3 dishes.
Respond with JSON only: {"recommendations": [{"id": <menu item id>, "name": "...", "reason": "...", "confidence": 0.0..1.0}]}

Customer ID: %d
Order history: %s
Menu: %s`, customerID, historyJSON, menuJSON)

	var result struct {
		Recommendations []Recommendation `json:"recommendations"`
	}
	if err := g.generateJSON(ctx, prompt, &result); err != nil {
		g.logger.Warn().Err(err).Msg("Recommendations degraded to heuristic")
		return g.fallback.RecommendMeals(ctx, customerID, history, menu)
	}
	return result.Recommendations, nil
}

// SuggestUpsells asks the model for complementary items.
func (g *Gemini) SuggestUpsells(ctx context.Context, cart []domain.OrderItem, menu []domain.MenuItem) ([]UpsellSuggestion, error) {
	cartJSON, _ := json.Marshal(cart)
	menuJSON, _ := json.Marshal(menu)
	prompt := fmt.Sprintf(`You are a restaurant upselling assistant.
Suggest up to 3 menu items that complement the current cart.
Respond with JSON only: {"suggestions": [{"id": <menu item id>, "name": "...", "reason": "...", "price": <number>, "priority": 1-3}]}

Cart: %s
Menu: %s`, cartJSON, menuJSON)

	var result struct {
		Suggestions []UpsellSuggestion `json:"suggestions"`
	}
	if err := g.generateJSON(ctx, prompt, &result); err != nil {
		g.logger.Warn().Err(err).Msg("Upsell suggestions degraded to heuristic")
		return g.fallback.SuggestUpsells(ctx, cart, menu)
	}
	return result.Suggestions, nil
}

// ForecastInventory asks the model to estimate stock runway.
func (g *Gemini) ForecastInventory(ctx context.Context, inventory []domain.InventoryItem, orders []domain.Order) ([]InventoryPrediction, error) {
	inventoryJSON, _ := json.Marshal(inventory)
	prompt := fmt.Sprintf(`You forecast restaurant inventory runway.
Given current stock levels and %d orders from the last week, estimate how many
days each item will last.
Respond with JSON only: {"predictions": [{"itemName": "...", "predictedDays": <int>, "confidence": 0.0..1.0, "urgency": "low"|"medium"|"high"}]}

Inventory: %s`, len(orders), inventoryJSON)

	var result struct {
		Predictions []InventoryPrediction `json:"predictions"`
	}
	if err := g.generateJSON(ctx, prompt, &result); err != nil {
		g.logger.Warn().Err(err).Msg("Inventory forecast degraded to heuristic")
		return g.fallback.ForecastInventory(ctx, inventory, orders)
	}
	return result.Predictions, nil
}

// Chat answers a free-form customer question about the menu.
func (g *Gemini) Chat(ctx context.Context, message string, menu []domain.MenuItem, restaurant domain.Restaurant) (string, error) {
	menuJSON, _ := json.Marshal(menu)
	prompt := fmt.Sprintf(`You are the friendly ordering assistant of %s.
Answer the guest's question using only the menu below. Keep it to two sentences.

Menu: %s

Question: %s`, restaurant.Name, menuJSON, message)

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		g.logger.Warn().Err(err).Msg("Chat degraded to heuristic")
		return g.fallback.Chat(ctx, message, menu, restaurant)
	}
	text := resp.Text()
	if text == "" {
		return g.fallback.Chat(ctx, message, menu, restaurant)
	}
	return text, nil
}

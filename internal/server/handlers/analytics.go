package handlers

import (
	"net/http"
	"time"

	"github.com/snapserve/snapserve/internal/domain"
	"github.com/snapserve/snapserve/internal/server/response"
)

// analyticsSummary is the admin dashboard's headline numbers for today.
type analyticsSummary struct {
	Revenue         float64 `json:"revenue"`
	CompletedOrders int     `json:"completedOrders"`
	ActiveOrders    int     `json:"activeOrders"`
	ActiveTables    int     `json:"activeTables"`
	AverageOrder    float64 `json:"averageOrder"`
}

// HandleAnalyticsToday returns today's revenue and order counts. The summary
// is cached briefly because the dashboard polls it.
func (h *Handlers) HandleAnalyticsToday(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if cached, ok := h.cache.Get("analytics:today"); ok {
		response.OK(w, cached)
		return
	}

	orders, err := h.store.ListOrders(ctx)
	if err != nil {
		response.FromError(w, err)
		return
	}

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var summary analyticsSummary
	activeTables := map[int]struct{}{}
	for _, order := range orders {
		if order.CreatedAt.Before(midnight) {
			continue
		}
		switch {
		case order.Status == domain.OrderServed:
			summary.Revenue += order.Total
			summary.CompletedOrders++
		case order.Status.Active():
			summary.ActiveOrders++
			activeTables[order.TableID] = struct{}{}
		}
	}
	summary.ActiveTables = len(activeTables)
	if summary.CompletedOrders > 0 {
		summary.AverageOrder = summary.Revenue / float64(summary.CompletedOrders)
	}

	h.cache.SetWithTTL("analytics:today", summary, 30*time.Second)
	response.OK(w, summary)
}

package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/snapserve/snapserve/internal/domain"
	"github.com/snapserve/snapserve/internal/server/middleware"
)

// router builds the HTTP route table and wraps it in the middleware chain.
func (s *Server) router() http.Handler {
	mux := http.NewServeMux()
	h := s.handlers

	// Real-time push channel.
	mux.HandleFunc("GET /ws", h.HandleWebSocket)

	// Operational endpoints.
	mux.HandleFunc("GET /health", h.HandleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	// Public customer surface.
	mux.HandleFunc("GET /api/restaurant", h.HandleRestaurant)
	mux.HandleFunc("GET /api/menu", h.HandleMenu)
	mux.HandleFunc("GET /api/categories", h.HandleListCategories)
	mux.HandleFunc("GET /api/menu-items", h.HandleListMenuItems)
	mux.HandleFunc("GET /api/tables/qr/{qrCode}", h.HandleTableByQR)
	mux.HandleFunc("POST /api/orders", h.HandleCreateOrder)
	mux.HandleFunc("POST /api/feedback", h.HandleCreateFeedback)

	// AI assistant surface.
	mux.HandleFunc("GET /api/ai/recommendations", h.HandleRecommendations)
	mux.HandleFunc("POST /api/ai/upsell", h.HandleUpsell)
	mux.HandleFunc("POST /api/ai/chat", h.HandleChat)

	// Staff surface.
	staff := func(fn http.HandlerFunc) http.HandlerFunc {
		return middleware.RequireRole(fn, domain.RoleStaff, domain.RoleAdmin)
	}
	mux.HandleFunc("GET /api/orders", staff(h.HandleListOrders))
	mux.HandleFunc("PUT /api/orders/{id}", staff(h.HandleUpdateOrder))
	mux.HandleFunc("GET /api/feedback", staff(h.HandleListFeedback))
	mux.HandleFunc("GET /api/tables", staff(h.HandleListTables))
	mux.HandleFunc("GET /api/inventory", staff(h.HandleListInventory))
	mux.HandleFunc("GET /api/inventory/low-stock", staff(h.HandleLowStock))
	mux.HandleFunc("PUT /api/inventory/{id}", staff(h.HandleUpdateInventoryItem))

	// Admin surface.
	admin := func(fn http.HandlerFunc) http.HandlerFunc {
		return middleware.RequireRole(fn, domain.RoleAdmin)
	}
	mux.HandleFunc("POST /api/categories", admin(h.HandleCreateCategory))
	mux.HandleFunc("POST /api/menu-items", admin(h.HandleCreateMenuItem))
	mux.HandleFunc("PUT /api/menu-items/{id}", admin(h.HandleUpdateMenuItem))
	mux.HandleFunc("DELETE /api/menu-items/{id}", admin(h.HandleDeleteMenuItem))
	mux.HandleFunc("POST /api/tables", admin(h.HandleCreateTable))
	mux.HandleFunc("PUT /api/tables/{id}", admin(h.HandleUpdateTable))
	mux.HandleFunc("DELETE /api/tables/{id}", admin(h.HandleDeleteTable))
	mux.HandleFunc("POST /api/inventory", admin(h.HandleCreateInventoryItem))
	mux.HandleFunc("GET /api/analytics/today", admin(h.HandleAnalyticsToday))
	mux.HandleFunc("GET /api/ai/inventory-predictions", admin(h.HandleInventoryPredictions))

	corsConfig := middleware.DefaultCORSConfig()
	if len(s.config.AllowedOrigins) > 0 {
		corsConfig.AllowedOrigins = s.config.AllowedOrigins
	}

	chain := []func(http.Handler) http.Handler{
		middleware.Recovery(s.logger),
		middleware.Logger(s.logger, s.metrics),
		middleware.CORS(corsConfig),
		middleware.ResolveIdentity(middleware.HeaderResolver, s.logger),
	}
	if s.config.RateLimit > 0 {
		chain = append(chain, middleware.RateLimit(middleware.NewRateLimiter(s.config.RateLimit, s.logger)))
	}

	return middleware.Chain(chain...)(mux)
}

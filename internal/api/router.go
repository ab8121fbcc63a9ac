package api

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apiContext "cardsynch/internal/api/context"
	"cardsynch/internal/api/handlers"
	"cardsynch/internal/api/middleware"
)

type Dependencies struct {
	AuthHandler      *handlers.AuthHandler
	UserHandler      *handlers.UserHandler
	CardHandler      *handlers.CardHandler
	PublicHandler    *handlers.PublicHandler
	ContactHandler   *handlers.ContactHandler
	AnalyticsHandler *handlers.AnalyticsHandler
	WebhookHandler   *handlers.WebhookHandler
	HealthHandler    *handlers.HealthHandler
	AuthMiddleware   *middleware.AuthMiddleware
	RateLimiter      *middleware.RateLimiter
}

func NewRouter(deps *Dependencies) *httprouter.Router {
	router := httprouter.New()

	authMid := deps.AuthMiddleware
	limits := deps.RateLimiter

	router.GET("/healthz", wrap(deps.HealthHandler.Check))

	// Public card surface
	router.GET("/c/:slug",
		chain(deps.PublicHandler.GetCard, limits.Limit(middleware.LimitPublic)))
	router.POST("/c/:slug/scan",
		chain(deps.PublicHandler.RecordScan, limits.Limit(middleware.LimitPublic)))
	router.POST("/c/:slug/capture",
		chain(deps.PublicHandler.CaptureLead, limits.Limit(middleware.LimitPublic)))

	// Registration needs a verified identity but no user record yet
	router.POST("/api/v1/auth/register",
		chain(deps.AuthHandler.Register, authMid.Handle, limits.Limit(middleware.LimitAPIWrite)))

	// Profile
	router.GET("/api/v1/users/me",
		chain(deps.UserHandler.GetMe, authMid.Handle, authMid.RequireUser, limits.Limit(middleware.LimitAPIRead)))
	router.PUT("/api/v1/users/me",
		chain(deps.UserHandler.UpdateMe, authMid.Handle, authMid.RequireUser, limits.Limit(middleware.LimitAPIWrite)))

	// Card management
	router.POST("/api/v1/cards",
		chain(deps.CardHandler.Create, authMid.Handle, authMid.RequireUser, limits.Limit(middleware.LimitAPIWrite)))
	router.GET("/api/v1/cards",
		chain(deps.CardHandler.List, authMid.Handle, authMid.RequireUser, limits.Limit(middleware.LimitAPIRead)))
	router.GET("/api/v1/cards/:card_id",
		chain(deps.CardHandler.Get, authMid.Handle, authMid.RequireUser, limits.Limit(middleware.LimitAPIRead)))
	router.PUT("/api/v1/cards/:card_id",
		chain(deps.CardHandler.Update, authMid.Handle, authMid.RequireUser, limits.Limit(middleware.LimitAPIWrite)))
	router.DELETE("/api/v1/cards/:card_id",
		chain(deps.CardHandler.Archive, authMid.Handle, authMid.RequireUser, limits.Limit(middleware.LimitAPIWrite)))
	router.GET("/api/v1/cards/:card_id/qr",
		chain(deps.CardHandler.GetQRCode, authMid.Handle, authMid.RequireUser, limits.Limit(middleware.LimitAPIRead)))

	// Captured contacts
	router.GET("/api/v1/contacts",
		chain(deps.ContactHandler.List, authMid.Handle, authMid.RequireUser, limits.Limit(middleware.LimitAPIRead)))
	router.PUT("/api/v1/contacts/:contact_id",
		chain(deps.ContactHandler.Update, authMid.Handle, authMid.RequireUser, limits.Limit(middleware.LimitAPIWrite)))

	// Analytics
	router.GET("/api/v1/analytics/overview",
		chain(deps.AnalyticsHandler.GetOverview, authMid.Handle, authMid.RequireUser, limits.Limit(middleware.LimitAPIRead)))
	router.GET("/api/v1/analytics/cards/:card_id",
		chain(deps.AnalyticsHandler.GetCardSummary, authMid.Handle, authMid.RequireUser, limits.Limit(middleware.LimitAPIRead)))

	// Billing provider callback, authenticated by signature
	router.POST("/api/v1/webhooks/billing", wrap(deps.WebhookHandler.HandleBilling))

	return router
}

// Helper function to chain middlewares
func chain(handler http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) httprouter.Handle {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return wrap(handler)
}

// Convert http.HandlerFunc to httprouter.Handle
func wrap(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		// Inject params into context
		ctx := context.WithValue(r.Context(), apiContext.Params, ps)
		handler(w, r.WithContext(ctx))
	}
}

package main

import (
	"fmt"
	"log"
	"net/http"

	"cardsynch/internal/api"
	"cardsynch/internal/api/handlers"
	"cardsynch/internal/api/middleware"
	"cardsynch/internal/engine/analytics"
	"cardsynch/internal/engine/billing"
	"cardsynch/internal/engine/cards"
	"cardsynch/internal/engine/leads"
	"cardsynch/internal/engine/scans"
	"cardsynch/internal/pkg/logger"
	"cardsynch/internal/platform/auth"
	"cardsynch/internal/platform/config"
	"cardsynch/internal/platform/database"
	"cardsynch/internal/platform/email"
	"cardsynch/internal/platform/repositories"
	"cardsynch/internal/platform/shortlink"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Logging)

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	cardRepo := cards.NewRepository(db)
	scanRepo := scans.NewRepository(db)
	leadRepo := leads.NewRepository(db)
	analyticsRepo := analytics.NewRepository(db)

	// Outbound capabilities
	shortener := shortlink.NewClient(cfg.ShortLink)
	sender := email.NewSender(cfg.Email)

	// Services
	verifier := auth.NewVerifier(cfg.JWT)
	cardSvc := cards.NewService(cardRepo, shortener, cfg.Domains.CardDomain)
	recorder := scans.NewRecorder(scanRepo, cardRepo)
	leadSvc := leads.NewService(leadRepo, cardRepo, userRepo, sender)
	analyticsSvc := analytics.NewService(analyticsRepo, cardSvc)
	billingProc := billing.NewProcessor(userRepo, cfg.Billing.WebhookSecret)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(verifier, userRepo)
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit)

	// Router
	deps := &api.Dependencies{
		AuthHandler:      handlers.NewAuthHandler(userRepo),
		UserHandler:      handlers.NewUserHandler(userRepo),
		CardHandler:      handlers.NewCardHandler(cardSvc),
		PublicHandler:    handlers.NewPublicHandler(cardSvc, cardRepo, recorder, leadSvc),
		ContactHandler:   handlers.NewContactHandler(leadSvc),
		AnalyticsHandler: handlers.NewAnalyticsHandler(analyticsSvc),
		WebhookHandler:   handlers.NewWebhookHandler(billingProc),
		HealthHandler:    handlers.NewHealthHandler(db),
		AuthMiddleware:   authMiddleware,
		RateLimiter:      rateLimiter,
	}
	router := api.NewRouter(deps)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	log.Printf("Server starting on %s", addr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cardsynch/internal/pkg/logger"
	"cardsynch/internal/platform/config"
	"cardsynch/internal/platform/database"
	"cardsynch/internal/platform/repositories"
	"cardsynch/internal/workers"
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

	userRepo := repositories.NewUserRepository(db)
	planExpiry := workers.NewPlanExpiry(userRepo)

	log.Println("Starting background workers...")

	// Sweep on startup so a long-down worker catches up immediately
	if err := planExpiry.RunOnce(); err != nil {
		log.Printf("Plan expiry sweep failed: %v", err)
	}

	stop := make(chan struct{})
	go planExpiry.Run(time.Hour, stop)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	close(stop)
	log.Println("Workers stopped")
}

package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload" // Automatically load .env file if present
	"github.com/pumpjaine/pumpjaine-backend/internal/api"
	"github.com/pumpjaine/pumpjaine-backend/internal/config"
	"github.com/pumpjaine/pumpjaine-backend/internal/server"
	"github.com/pumpjaine/pumpjaine-backend/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration:", err)
	}

	var dbService services.DBService
	if cfg.DatabaseURL != "" {
		dbService, err = services.NewPostgresDBService(cfg.DatabaseURL)
	} else {
		dbService, err = services.NewSqliteDBService(cfg.SQLitePath)
	}
	if err != nil {
		log.Fatal("Failed to initialize database service:", err)
	}
	defer dbService.Close()

	svc := server.InitializeServices(dbService.GetDB(), cfg)

	if err := svc.Templates.Seed(); err != nil {
		log.Fatal("Failed to seed contract templates:", err)
	}

	if purged, err := svc.Auth.PurgeExpired(); err != nil {
		log.Printf("Failed to purge expired sessions: %v", err)
	} else if purged > 0 {
		log.Printf("Purged %d expired sessions", purged)
	}

	apiServer := api.NewAPIServer(cfg, svc.Auth, svc.Users, svc.Templates, svc.Rarity, svc.Deploys, svc.Compiler, svc.Cache)

	go func() {
		log.Printf("PumpJaine API listening on port %d (%s)\n", cfg.Port, cfg.Environment)
		if err := apiServer.Listen(cfg.Port); err != nil {
			log.Fatal("Failed to start API server:", err)
		}
	}()

	// Set up graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	log.Println("\nShutting down server...")

	if err := apiServer.Shutdown(); err != nil {
		log.Printf("Error shutting down API server: %v", err)
	}

	log.Println("Server shut down successfully")
}

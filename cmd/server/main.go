package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/jengzang/fleet-activity-go/internal/api"
	"github.com/jengzang/fleet-activity-go/internal/config"
	"github.com/jengzang/fleet-activity-go/internal/database"
	"github.com/jengzang/fleet-activity-go/internal/geocode"
	"github.com/jengzang/fleet-activity-go/internal/report"
	"github.com/jengzang/fleet-activity-go/internal/telemetry"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg := config.Load()

	// The geocode cache is the only persistent state.
	dbConfig := database.Config{
		Path: cfg.DBPath,
	}
	if err := database.Init(dbConfig); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()

	client := telemetry.NewClient(cfg.TelemetryBaseURL, cfg.TelemetryAPIKey)
	resolver := geocode.NewResolver(client, geocode.NewCache(database.GetDB()))

	generator := &report.Generator{
		API:        client,
		Labeler:    resolver,
		GroupID:    cfg.FleetGroupID,
		HomeZoneID: cfg.HomeZoneID,
		Loc:        cfg.ReportLoc,
	}

	router := api.SetupRouter(cfg, generator)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

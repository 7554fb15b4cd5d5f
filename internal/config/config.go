package config

import (
	"log"
	"os"
	"time"
)

// Config holds the application configuration.
type Config struct {
	Port      string
	DBPath    string
	JWTSecret string

	TelemetryBaseURL string
	TelemetryAPIKey  string

	// FleetGroupID selects the device group the report covers.
	FleetGroupID string
	// HomeZoneID is the designated depot zone, always included in the
	// home-zone set even when it is missing from the home zone type.
	HomeZoneID string

	// ReportLoc is the timezone used for calendar-day bucketing.
	ReportLoc *time.Location
}

// Load reads configuration from environment variables with fallbacks.
func Load() *Config {
	cfg := &Config{
		Port:             getEnv("PORT", ":8080"),
		DBPath:           getEnv("DB_PATH", "./data/geocode.db"),
		JWTSecret:        getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		TelemetryBaseURL: getEnv("TELEMETRY_BASE_URL", "http://localhost:9000/api/v1"),
		TelemetryAPIKey:  os.Getenv("TELEMETRY_API_KEY"),
		FleetGroupID:     getEnv("FLEET_GROUP_ID", "b27A5"),
		HomeZoneID:       getEnv("HOME_ZONE_ID", "b1"),
		ReportLoc:        time.Local,
	}

	if tz := os.Getenv("REPORT_TZ"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			log.Printf("Invalid REPORT_TZ %q, using local time: %v", tz, err)
		} else {
			cfg.ReportLoc = loc
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

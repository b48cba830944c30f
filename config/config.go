// Package config loads the server configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the server.
type AppConfig struct {
	Port        int
	DBPath      string
	LogLevel    string
	Environment string

	// CORSOrigins is the allowed origin list; "*" allows any. Empty falls back
	// to the router's local development origins.
	CORSOrigins []string

	// StatementCron is the schedule of the monthly statement job. Empty
	// (STATEMENT_CRON=off) disables the job.
	StatementCron string

	// StrictTimes makes the parser reject out-of-range clock values.
	StrictTimes bool
}

// Load reads configuration from environment variables and a .env file (if
// present). Existing environment variables win over the file.
func Load() (*AppConfig, error) {
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.Port, err = strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	cfg.DBPath = getEnv("DB_PATH", "payroll.db")

	cfg.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", "info"))
	cfg.Environment = strings.ToLower(getEnv("ENVIRONMENT", "development"))

	for _, origin := range strings.Split(getEnv("CORS_ORIGINS", ""), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}

	// Default: 03:00 on the 1st, recomputing the month that just ended
	cfg.StatementCron = getEnv("STATEMENT_CRON", "0 3 1 * *")
	if strings.EqualFold(cfg.StatementCron, "off") {
		cfg.StatementCron = ""
	}

	cfg.StrictTimes, err = strconv.ParseBool(getEnv("STRICT_TIMES", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid STRICT_TIMES: %w", err)
	}

	return cfg, nil
}

// IsProduction reports whether structured (JSON) logs should be emitted.
func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "staging"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

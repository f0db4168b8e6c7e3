// Package config holds library configuration loaded from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	// Load environment variables from .env files when present.
	_ "github.com/joho/godotenv"

	"github.com/clearspend/statement-core/pkg/money"
)

// Config holds all tunables for the extraction and classification core.
type Config struct {
	Parsing        ParsingConfig
	Classification ClassificationConfig
	Subscriptions  SubscriptionsConfig
}

// ParsingConfig controls statement parsing behaviour.
type ParsingConfig struct {
	DefaultCurrency string // ISO-4217 code used when a file carries no currency column
}

// ClassificationConfig controls the classification cascade and review engine.
type ClassificationConfig struct {
	ReviewThreshold float64 // transactions below this confidence enter the review queue
	FuzzyThreshold  int     // minimum fuzzysearch rank score for alias matches
}

// SubscriptionsConfig controls recurrence detection.
type SubscriptionsConfig struct {
	UpcomingWindowDays int      // "due soon" horizon for upcoming subscriptions
	WellKnownServices  []string // canonical-name fragments exempt from "forgotten" flagging
}

// Load reads configuration from environment variables, applying defaults
// suitable for UK consumer statements.
func Load() (*Config, error) {
	cfg := &Config{
		Parsing: ParsingConfig{
			DefaultCurrency: getEnv("STATEMENT_DEFAULT_CURRENCY", money.GBP),
		},
		Classification: ClassificationConfig{
			ReviewThreshold: getEnvAsFloat("STATEMENT_REVIEW_THRESHOLD", 0.6),
			FuzzyThreshold:  getEnvAsInt("STATEMENT_FUZZY_THRESHOLD", 80),
		},
		Subscriptions: SubscriptionsConfig{
			UpcomingWindowDays: getEnvAsInt("STATEMENT_UPCOMING_WINDOW_DAYS", 7),
			WellKnownServices:  getEnvAsList("STATEMENT_WELL_KNOWN_SERVICES", nil),
		},
	}

	if !money.ValidCurrency(cfg.Parsing.DefaultCurrency) {
		return nil, fmt.Errorf("invalid default currency %q", cfg.Parsing.DefaultCurrency)
	}
	if cfg.Classification.ReviewThreshold < 0 || cfg.Classification.ReviewThreshold > 1 {
		return nil, fmt.Errorf("review threshold must be in [0,1], got %v", cfg.Classification.ReviewThreshold)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

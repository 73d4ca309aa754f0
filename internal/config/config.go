package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ProjectID             string
	Port                  string
	LogLevel              string
	BaseCurrency          string
	ExchangeRateAPIURL    string
	PaystackBaseURL       string
	PaystackSecretKey     string
	PaystackWebhookSecret string
	PaystackSecretName    string
	CleanupInterval       time.Duration
	CleanupRetention      time.Duration
}

func New() *Config {
	// Local development convenience; in Cloud Run the env is injected.
	_ = godotenv.Load()

	return &Config{
		ProjectID:             os.Getenv("PROJECTID"),
		Port:                  getOrDefault("PORT", "8080"),
		LogLevel:              os.Getenv("LOGLEVEL"),
		BaseCurrency:          getOrDefault("BASECURRENCY", "NGN"),
		ExchangeRateAPIURL:    getOrDefault("EXCHANGERATEAPIURL", "https://open.er-api.com/v6"),
		PaystackBaseURL:       getOrDefault("PAYSTACKBASEURL", "https://api.paystack.co"),
		PaystackSecretKey:     os.Getenv("PAYSTACKSECRETKEY"),
		PaystackWebhookSecret: os.Getenv("PAYSTACKWEBHOOKSECRET"),
		PaystackSecretName:    os.Getenv("PAYSTACKSECRETNAME"),
		CleanupInterval:       getDurationHours("CLEANUPINTERVALHOURS", 24),
		CleanupRetention:      getDurationHours("CLEANUPRETENTIONHOURS", 24*30),
	}
}

func getOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDurationHours(key string, fallback int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if hours, err := strconv.Atoi(v); err == nil && hours > 0 {
			return time.Duration(hours) * time.Hour
		}
	}
	return time.Duration(fallback) * time.Hour
}

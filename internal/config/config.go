package config

import (
	"os"
	"strings"
)

type Config struct {
	Port         string
	DatabaseURL  string
	RedisURL     string
	KafkaBrokers string
	OTLPEndpoint string

	// Processor credentials. An empty key means that environment is not
	// configured; the payment flow falls back to sandbox simulation.
	ProcessorBaseURL string
	TestSecretKey    string
	LiveSecretKey    string
	WebhookSecret    string

	DefaultCurrency string
	RedirectBaseURL string

	AdminEmail    string
	AdminPassword string
	JWTSecret     string

	SMTPAddr string
	SMTPFrom string
}

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8081"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RedisURL:     getEnv("REDIS_URL", "localhost:6379"),
		KafkaBrokers: getEnv("KAFKA_BROKERS", "localhost:9092"),
		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),

		ProcessorBaseURL: getEnv("PROCESSOR_BASE_URL", "https://api.flutterwave.com/v3"),
		TestSecretKey:    os.Getenv("PROCESSOR_TEST_SECRET_KEY"),
		LiveSecretKey:    os.Getenv("PROCESSOR_LIVE_SECRET_KEY"),
		WebhookSecret:    os.Getenv("PROCESSOR_WEBHOOK_SECRET"),

		DefaultCurrency: getEnv("DEFAULT_CURRENCY", "SSP"),
		RedirectBaseURL: getEnv("REDIRECT_BASE_URL", "https://payssd.com/checkout"),

		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		JWTSecret:     os.Getenv("JWT_SECRET"),

		SMTPAddr: os.Getenv("SMTP_ADDR"),
		SMTPFrom: getEnv("SMTP_FROM", "no-reply@payssd.com"),
	}
}

// LiveConfigured reports whether live processor credentials are present.
func (c *Config) LiveConfigured() bool {
	return strings.TrimSpace(c.LiveSecretKey) != ""
}

// TestConfigured reports whether sandbox processor credentials are present.
func (c *Config) TestConfigured() bool {
	return strings.TrimSpace(c.TestSecretKey) != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

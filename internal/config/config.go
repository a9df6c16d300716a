package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env                   string
	HTTPAddr              string
	DatabaseURL           string
	JWTSecret             string
	OwnerEmail            string
	VATRate               float64
	OrderFetchConcurrency int
	MaxFileSizeBytes      int64
	RestaurantTimezone    string
	RabbitMQURL           string
	RabbitMQWorkerMode    string
	CorsAllowedOrigins    []string
	WSHeartbeatInterval   time.Duration
	WSDashboardPoll       time.Duration
	CartTTL               time.Duration

	ObjectStoreEndpoint        string
	ObjectStoreRegion          string
	ObjectStoreAccessKeyID     string
	ObjectStoreSecretAccessKey string
	ObjectStoreBucket          string
	ObjectStorePublicBaseURL   string
	ObjectStoreStorageClass    string
}

func Load() Config {
	cfg := Config{
		Env:                   getEnv("APP_ENV", "development"),
		HTTPAddr:              getEnv("HTTP_ADDR", ":8090"),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		JWTSecret:             getEnv("JWT_SECRET", ""),
		OwnerEmail:            getEnv("OWNER_EMAIL", ""),
		VATRate:               getEnvFloat64("VAT_RATE", 0.20),
		OrderFetchConcurrency: getEnvInt("ORDER_FETCH_CONCURRENCY", 8),
		MaxFileSizeBytes:      getEnvInt64("MAX_FILE_SIZE", 5*1024*1024),
		RestaurantTimezone:    getEnv("RESTAURANT_TIMEZONE", "Europe/London"),
		RabbitMQURL:           getEnv("RABBITMQ_URL", ""),
		RabbitMQWorkerMode:    getEnv("RABBITMQ_WORKER_MODE", "daemon"),
		CorsAllowedOrigins:    splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "")),
		WSHeartbeatInterval:   getEnvDuration("WS_HEARTBEAT_INTERVAL", 30*time.Second),
		WSDashboardPoll:       getEnvDuration("WS_DASHBOARD_POLL_INTERVAL", 5*time.Second),
		CartTTL:               getEnvDuration("CART_TTL", 6*time.Hour),

		// Object store (Cloudflare R2 / S3-compatible) for menu photos
		ObjectStoreEndpoint:        getEnv("OBJECT_STORE_ENDPOINT", ""),
		ObjectStoreRegion:          getEnv("OBJECT_STORE_REGION", "auto"),
		ObjectStoreAccessKeyID:     getEnv("OBJECT_STORE_ACCESS_KEY_ID", ""),
		ObjectStoreSecretAccessKey: getEnv("OBJECT_STORE_SECRET_ACCESS_KEY", ""),
		ObjectStoreBucket:          getEnv("OBJECT_STORE_BUCKET", ""),
		ObjectStorePublicBaseURL:   getEnv("OBJECT_STORE_PUBLIC_BASE_URL", ""),
		ObjectStoreStorageClass:    getEnv("OBJECT_STORE_STORAGE_CLASS", "STANDARD"),
	}

	if cfg.MaxFileSizeBytes <= 0 {
		cfg.MaxFileSizeBytes = 5 * 1024 * 1024
	}
	if cfg.OrderFetchConcurrency <= 0 {
		cfg.OrderFetchConcurrency = 8
	}
	if cfg.VATRate < 0 {
		cfg.VATRate = 0
	}

	return cfg
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt64(key string, fallback int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat64(key string, fallback float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func splitCSV(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

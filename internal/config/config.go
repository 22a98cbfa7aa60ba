package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPPort           string
	Environment        string
	RequestTimeout     time.Duration
	ShutdownTimeout    time.Duration
	MaxRequestBodySize int64

	Postgres PostgresConfig

	MongoURI    string
	MongoDBName string

	RedisAddr     string
	RedisPassword string

	KafkaBrokers      []string
	NotificationTopic string

	PaymentAPIURL        string
	PaymentSecretKey     string
	PaymentWebhookSecret string

	EmailAPIURL string
	EmailAPIKey string
	EmailFrom   string
	AdminEmail  string

	AdminAPIToken string
	SessionSecret string

	RateLimit       int
	RateLimitWindow time.Duration
}

type PostgresConfig struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

func Load() *Config {
	return &Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		RequestTimeout:     30 * time.Second,
		ShutdownTimeout:    10 * time.Second,
		MaxRequestBodySize: 1 << 20, // 1MB

		Postgres: PostgresConfig{
			Host:              getEnv("POSTGRES_HOST", "localhost"),
			Port:              getEnvInt("POSTGRES_PORT", 5432),
			User:              getEnv("POSTGRES_USER", "postgres"),
			Password:          getEnv("POSTGRES_PASSWORD", "postgres"),
			DBName:            getEnv("POSTGRES_DB", "kollect"),
			MigrationsDirPath: getEnv("MIGRATIONS_DIR", "./migrations"),
		},

		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName: getEnv("MONGO_DB_NAME", "kollect"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		KafkaBrokers:      strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		NotificationTopic: getEnv("NOTIFICATION_TOPIC", "order-notifications"),

		PaymentAPIURL:        getEnv("PAYMENT_API_URL", "https://api.payments.example.com"),
		PaymentSecretKey:     getEnv("PAYMENT_SECRET_KEY", ""),
		PaymentWebhookSecret: getEnv("PAYMENT_WEBHOOK_SECRET", ""),

		EmailAPIURL: getEnv("EMAIL_API_URL", "https://api.email.example.com"),
		EmailAPIKey: getEnv("EMAIL_API_KEY", ""),
		EmailFrom:   getEnv("EMAIL_FROM", "orders@kollect-it.com"),
		AdminEmail:  getEnv("ADMIN_EMAIL", "admin@kollect-it.com"),

		AdminAPIToken: getEnv("ADMIN_API_TOKEN", ""),
		SessionSecret: getEnv("SESSION_SECRET", "dev-session-secret"),

		RateLimit:       getEnvInt("RATE_LIMIT", 60),
		RateLimitWindow: time.Duration(getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second,
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

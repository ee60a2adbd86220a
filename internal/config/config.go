package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Session  SessionConfig
	Stripe   StripeConfig
	Store    StoreConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Database DatabaseConfig
	JWT      JWTConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type SessionConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
	ServiceFee    string
	Currency      string
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	// CallTimeout bounds every processor round trip.
	CallTimeout time.Duration
}

// Configured reports whether live Stripe credentials are present. Placeholder
// keys from .env templates count as unconfigured so the server falls back to
// simulation mode instead of failing on the first intent.
func (c StripeConfig) Configured() bool {
	return c.SecretKey != "" &&
		c.SecretKey != "sk_test_YOUR_TEST_KEY" &&
		c.SecretKey != "sk_live_YOUR_LIVE_KEY"
}

type StoreConfig struct {
	// Backend selects the session store: "memory" or "redis".
	Backend string
}

type RedisConfig struct {
	Addr string
}

type KafkaConfig struct {
	Brokers  []string
	Enabled  bool
	MockMode bool
	Topics   TopicConfig
}

type TopicConfig struct {
	PaymentCompleted string
	PaymentFailed    string
}

type DatabaseConfig struct {
	DSN     string
	Migrate bool
}

type JWTConfig struct {
	Secret               string
	AccessTokenSecret    string
	RefreshTokenSecret   string
	EmailTokenSecret     string
	ForgotPasswordSecret string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", ":5000"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Session: SessionConfig{
			TTL:           getEnvDuration("SESSION_TTL_MINUTES", 10) * time.Minute,
			SweepInterval: getEnvDuration("SESSION_SWEEP_MINUTES", 10) * time.Minute,
			ServiceFee:    getEnv("SERVICE_FEE", "10"),
			Currency:      getEnv("PAYMENT_CURRENCY", "usd"),
		},
		Stripe: StripeConfig{
			SecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
			CallTimeout:   time.Duration(getEnvInt("STRIPE_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Store: StoreConfig{
			Backend: getEnv("SESSION_STORE", "memory"),
		},
		Redis: RedisConfig{
			Addr: getEnv("REDIS_ADDR", "localhost:6379"),
		},
		Kafka: KafkaConfig{
			Brokers:  []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			Enabled:  getEnvBool("KAFKA_ENABLED", false),
			MockMode: getEnvBool("KAFKA_MOCK_MODE", false),
			Topics: TopicConfig{
				PaymentCompleted: getEnv("KAFKA_TOPIC_PAYMENT_COMPLETED", "tixmojo.payment.completed"),
				PaymentFailed:    getEnv("KAFKA_TOPIC_PAYMENT_FAILED", "tixmojo.payment.failed"),
			},
		},
		Database: DatabaseConfig{
			DSN:     getEnv("POSTGRES_DSN", ""),
			Migrate: getEnvBool("DB_MIGRATE", false),
		},
		JWT: JWTConfig{
			Secret:               getEnv("JWT_SECRET", ""),
			AccessTokenSecret:    getEnv("JWT_ACCESS_TOKEN_SECRET", ""),
			RefreshTokenSecret:   getEnv("JWT_REFRESH_TOKEN_SECRET", ""),
			EmailTokenSecret:     getEnv("JWT_EMAIL_TOKEN_SECRET", ""),
			ForgotPasswordSecret: getEnv("JWT_FORGOT_PASSWORD_TOKEN_SECRET", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue int) time.Duration {
	return time.Duration(getEnvInt(key, defaultValue))
}

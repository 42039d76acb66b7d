package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all runtime settings of the stock service
type Config struct {
	ServiceName string
	Environment string
	LogLevel    string
	HTTPPort    string

	JaegerEndpoint string

	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Gateway  GatewayConfig

	DefaultRate    DefaultRateConfig
	TransferPolicy string
}

// DatabaseConfig selects and addresses the backing store
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string

	AutoMigrate bool
}

// RedisConfig configures the conversion-rate cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	RateTTL  time.Duration
}

// KafkaConfig configures the stock event stream. No brokers means events are only logged.
type KafkaConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

// GatewayConfig configures the intermediary write service tried before the direct store write
type GatewayConfig struct {
	URL                string
	Timeout            time.Duration
	MaxFailures        int
	BreakerOpenTimeout time.Duration
}

// DefaultRateConfig is the conversion rate used for SKUs without configuration
type DefaultRateConfig struct {
	Level1Rate int
	Level2Rate int
	Level1Name string
	Level2Name string
	Level3Name string
}

// IsDevelopment reports whether the service runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Load reads the .env file (if any) and the environment
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found, using system environment variables")
	}

	return &Config{
		ServiceName: getEnv("OTEL_SERVICE_NAME", "stock-service"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		HTTPPort:    getEnv("HTTP_PORT", "8082"),

		JaegerEndpoint: getEnv("JAEGER_ENDPOINT", ""),

		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "stockdb"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),

			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", true),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			RateTTL:  getEnvAsDuration("REDIS_RATE_TTL", 10*time.Minute),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvAsList("KAFKA_BROKERS"),
			Topic:   getEnv("KAFKA_STOCK_TOPIC", "inventory-stock-events"),
			GroupID: getEnv("KAFKA_GROUP_ID", "stock-audit"),
		},
		Gateway: GatewayConfig{
			URL:                strings.TrimRight(getEnv("GATEWAY_URL", ""), "/"),
			Timeout:            getEnvAsDuration("GATEWAY_TIMEOUT", 3*time.Second),
			MaxFailures:        getEnvAsInt("GATEWAY_MAX_FAILURES", 5),
			BreakerOpenTimeout: getEnvAsDuration("GATEWAY_BREAKER_TIMEOUT", 30*time.Second),
		},
		DefaultRate: DefaultRateConfig{
			Level1Rate: getEnvAsInt("DEFAULT_LEVEL1_RATE", 144),
			Level2Rate: getEnvAsInt("DEFAULT_LEVEL2_RATE", 12),
			Level1Name: getEnv("DEFAULT_LEVEL1_NAME", "carton"),
			Level2Name: getEnv("DEFAULT_LEVEL2_NAME", "box"),
			Level3Name: getEnv("DEFAULT_LEVEL3_NAME", "piece"),
		},
		TransferPolicy: getEnv("TRANSFER_POLICY", "best_effort"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping blanks
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

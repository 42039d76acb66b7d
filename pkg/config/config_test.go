package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DEFAULT_LEVEL1_RATE", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("GATEWAY_URL", "")

	cfg := Load()

	if cfg.DefaultRate.Level1Rate != 144 || cfg.DefaultRate.Level2Rate != 12 {
		t.Errorf("default rates = %d/%d, want 144/12", cfg.DefaultRate.Level1Rate, cfg.DefaultRate.Level2Rate)
	}
	if cfg.TransferPolicy != "best_effort" {
		t.Errorf("TransferPolicy = %q, want best_effort", cfg.TransferPolicy)
	}
	if len(cfg.Kafka.Brokers) != 0 {
		t.Errorf("Kafka.Brokers = %v, want none", cfg.Kafka.Brokers)
	}
	if !cfg.Database.AutoMigrate {
		t.Error("AutoMigrate should default to true")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DEFAULT_LEVEL1_RATE", "24")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, ,kafka-2:9092")
	t.Setenv("GATEWAY_URL", "http://gateway:8000/")
	t.Setenv("GATEWAY_TIMEOUT", "750ms")
	t.Setenv("DB_AUTO_MIGRATE", "false")

	cfg := Load()

	if cfg.DefaultRate.Level1Rate != 24 {
		t.Errorf("Level1Rate = %d, want 24", cfg.DefaultRate.Level1Rate)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "kafka-2:9092" {
		t.Errorf("Kafka.Brokers = %v", cfg.Kafka.Brokers)
	}
	if cfg.Gateway.URL != "http://gateway:8000" {
		t.Errorf("Gateway.URL = %q, trailing slash should be trimmed", cfg.Gateway.URL)
	}
	if cfg.Gateway.Timeout != 750*time.Millisecond {
		t.Errorf("Gateway.Timeout = %v", cfg.Gateway.Timeout)
	}
	if cfg.Database.AutoMigrate {
		t.Error("AutoMigrate should be false")
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("HTTP_ADDR", "")
	cfg := FromEnv()
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("expected default addr, got %q", cfg.HTTPAddr)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("unexpected shutdown timeout %s", cfg.ShutdownTimeout)
	}
	if cfg.KafkaOrdersTopic != "orders" {
		t.Fatalf("unexpected topic %q", cfg.KafkaOrdersTopic)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
http:
  addr: ":9000"
  cors_origins: [" https://shop.example ", ""]
redis:
  url: redis://cache:6379/0
  tracking_cache_seconds: 45
kafka:
  brokers: ["kafka-1:9092", "kafka-2:9092"]
gemini:
  model: gemini-test
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("HTTP_ADDR", ":7000")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("TRACING_ENABLED", "true")
	t.Setenv("SESSION_TTL_HOURS", "2")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":7000" {
		t.Fatalf("env should override file, got %q", cfg.HTTPAddr)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "https://shop.example" {
		t.Fatalf("unexpected cors origins %v", cfg.CORSOrigins)
	}
	if cfg.RedisURL != "redis://cache:6379/0" || cfg.TrackingCacheTTL != 45*time.Second {
		t.Fatalf("unexpected redis config %q %s", cfg.RedisURL, cfg.TrackingCacheTTL)
	}
	if len(cfg.KafkaBrokers) != 2 {
		t.Fatalf("unexpected brokers %v", cfg.KafkaBrokers)
	}
	if cfg.GeminiModel != "gemini-test" || !cfg.TracingEnabled || cfg.SessionTTL != 2*time.Hour {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("DATABASE_URL", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.LLMProvider != "stub" {
		t.Fatalf("expected stub llm provider by default, got %s", cfg.LLMProvider)
	}
	if cfg.DataDir != "data" {
		t.Fatalf("expected default data dir, got %s", cfg.DataDir)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Fatalf("expected default session ttl, got %s", cfg.SessionTTL)
	}
	if cfg.MaxTokens != 2048 {
		t.Fatalf("expected default max tokens, got %d", cfg.MaxTokens)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DATABASE_URL", "postgres://user@host/db")
	t.Setenv("LLM_PROVIDER", "Bedrock")
	t.Setenv("BEDROCK_MODEL_ID", "anthropic.claude-3-5-haiku-20241022-v1:0")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("LLM_TEMPERATURE", "0.3")
	t.Setenv("REDIS_TLS", "true")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("port = %s", cfg.Port)
	}
	if cfg.DatabaseURL != "postgres://user@host/db" {
		t.Fatalf("database url = %s", cfg.DatabaseURL)
	}
	if cfg.LLMProvider != "bedrock" {
		t.Fatalf("llm provider should be lowercased, got %s", cfg.LLMProvider)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Fatalf("session ttl = %s", cfg.SessionTTL)
	}
	if cfg.Temperature != 0.3 {
		t.Fatalf("temperature = %v", cfg.Temperature)
	}
	if !cfg.RedisTLS {
		t.Fatal("redis tls should be enabled")
	}
}

func TestInvalidValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("LLM_MAX_TOKENS", "not-a-number")
	t.Setenv("SESSION_TTL", "soon")
	t.Setenv("REDIS_TLS", "yep")

	cfg := Load()
	if cfg.MaxTokens != 2048 {
		t.Fatalf("max tokens = %d, want default", cfg.MaxTokens)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Fatalf("session ttl = %s, want default", cfg.SessionTTL)
	}
	if cfg.RedisTLS {
		t.Fatal("unparseable bool should fall back to false")
	}
}

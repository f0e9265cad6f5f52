package token

import (
	"testing"
	"time"
)

func TestLoadConfigFromEnv_MissingKey(t *testing.T) {
	t.Setenv(KeyEnvKey, "")
	if _, err := LoadConfigFromEnv(); err != ErrKeyMissing {
		t.Fatalf("expected ErrKeyMissing, got %v", err)
	}
}

func TestLoadConfigFromEnv_ShortKey(t *testing.T) {
	t.Setenv(KeyEnvKey, "too-short")
	if _, err := LoadConfigFromEnv(); err != ErrKeyTooShort {
		t.Fatalf("expected ErrKeyTooShort, got %v", err)
	}
}

func TestLoadConfigFromEnv_InvalidTTL(t *testing.T) {
	t.Setenv(KeyEnvKey, testKey)
	t.Setenv("PADRON_TOKEN_TTL", "yesterday")
	if _, err := LoadConfigFromEnv(); err == nil {
		t.Fatalf("expected error for invalid ttl")
	}
}

func TestLoadConfigFromEnv_Valid(t *testing.T) {
	t.Setenv(KeyEnvKey, testKey)
	t.Setenv("PADRON_TOKEN_ISSUER", "padron-test")
	t.Setenv("PADRON_TOKEN_TTL", "24h")

	cfg, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Issuer != "padron-test" {
		t.Fatalf("issuer mismatch: %q", cfg.Issuer)
	}
	if cfg.TTL != 24*time.Hour {
		t.Fatalf("ttl mismatch: %v", cfg.TTL)
	}
}

func TestLoadConfigFromEnv_DefaultNoExpiry(t *testing.T) {
	t.Setenv(KeyEnvKey, testKey)
	t.Setenv("PADRON_TOKEN_TTL", "")

	cfg, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TTL != 0 {
		t.Fatalf("expected zero ttl (no expiry), got %v", cfg.TTL)
	}
}

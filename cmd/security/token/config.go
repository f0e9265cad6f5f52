package token

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	// KeyEnvKey is the env var name for the JWT signing key.
	// #nosec G101 -- not a credential; it's an environment variable name.
	KeyEnvKey = "PADRON_TOKEN_KEY"

	// MinKeyBytes is the minimum signing key length for HMAC-SHA256.
	MinKeyBytes = 32
)

// Config controls token issuance and verification.
type Config struct {
	Issuer string
	Key    []byte

	// TTL == 0 means tokens never expire (the default). A positive TTL sets
	// an exp claim enforced at verification time.
	TTL time.Duration
}

// LoadConfigFromEnv loads token configuration.
//
// Env surface:
// - PADRON_TOKEN_KEY (required, >= 32 bytes)
// - PADRON_TOKEN_ISSUER (default "padron")
// - PADRON_TOKEN_TTL (optional Go duration; absent/zero = no expiry)
func LoadConfigFromEnv() (Config, error) {
	key, err := KeyFromEnv(MinKeyBytes)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Issuer: "padron",
		Key:    key,
	}

	if v := strings.TrimSpace(os.Getenv("PADRON_TOKEN_ISSUER")); v != "" {
		cfg.Issuer = v
	}

	if v := strings.TrimSpace(os.Getenv("PADRON_TOKEN_TTL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return Config{}, fmt.Errorf("PADRON_TOKEN_TTL: invalid duration %q", v)
		}
		cfg.TTL = d
	}

	return cfg, nil
}

// KeyFromEnv returns the configured signing key bytes (trimmed), enforcing a
// minimum byte length. Missing/blank -> ErrKeyMissing; too short -> ErrKeyTooShort.
// Bytes (not runes) are measured because the key is used as raw key material.
func KeyFromEnv(minBytes int) ([]byte, error) {
	raw := strings.TrimSpace(os.Getenv(KeyEnvKey))
	if raw == "" {
		return nil, ErrKeyMissing
	}
	b := []byte(raw)
	if minBytes > 0 && len(b) < minBytes {
		return nil, ErrKeyTooShort
	}
	return b, nil
}

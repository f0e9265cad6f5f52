package app

import (
	"errors"

	"padron/cmd/security/token"
)

// ValidateSecurityConfig enforces the token key policy at startup.
// Fail-fast: a server that signs tokens with a missing or short key must
// not come up at all.
func ValidateSecurityConfig(cfg Config) error {
	if !cfg.RequireTokenKey {
		return nil
	}

	// Minimum 32 bytes for an HMAC-SHA256 secret, measured as raw bytes.
	if _, err := token.KeyFromEnv(token.MinKeyBytes); err != nil {
		switch {
		case errors.Is(err, token.ErrKeyMissing):
			return errors.New("security policy: PADRON_TOKEN_KEY is missing")
		case errors.Is(err, token.ErrKeyTooShort):
			return errors.New("security policy: PADRON_TOKEN_KEY is too short (min 32 bytes)")
		default:
			return err
		}
	}

	return nil
}

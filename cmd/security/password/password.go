package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hash hashes a password using bcrypt and returns the encoded digest string.
// bcrypt embeds the salt and cost in the digest, so no extra state is needed
// to verify later.
func (c Config) Hash(password string) (string, error) {
	if err := c.Validate(password); err != nil {
		return "", err
	}

	cost := c.Cost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether password matches the given encoded digest.
// A malformed or unsupported digest reports false, not an error: callers use
// this on the login path where "cannot verify" and "wrong password" must be
// indistinguishable.
func (c Config) Verify(encodedDigest, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(encodedDigest), []byte(password)) == nil
}

// Validate checks password against the configured policy.
func (c Config) Validate(password string) error {
	if len(password) < c.Policy.MinLength {
		return ErrPasswordTooShort
	}
	if c.Policy.MaxLength > 0 && len(password) > c.Policy.MaxLength {
		return ErrPasswordTooLong
	}
	return nil
}

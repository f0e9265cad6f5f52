package password

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func testConfig() Config {
	cfg := DefaultConfig()
	// MinCost keeps the test suite fast; the digest format is identical.
	cfg.Cost = bcrypt.MinCost
	return cfg
}

func TestHashAndVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	cfg := testConfig()

	digest, err := cfg.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !strings.HasPrefix(digest, "$2") {
		t.Fatalf("unexpected digest format: %q", digest)
	}
	if strings.Contains(digest, "correct horse") {
		t.Fatalf("digest leaks plaintext")
	}

	if !cfg.Verify(digest, "correct horse battery staple") {
		t.Fatalf("expected match")
	}
	if cfg.Verify(digest, "wrong password!") {
		t.Fatalf("expected mismatch")
	}
}

func TestHash_SaltedDigestsDiffer(t *testing.T) {
	t.Parallel()

	cfg := testConfig()

	d1, err := cfg.Hash("same-password-123")
	if err != nil {
		t.Fatalf("Hash 1: %v", err)
	}
	d2, err := cfg.Hash("same-password-123")
	if err != nil {
		t.Fatalf("Hash 2: %v", err)
	}
	if d1 == d2 {
		t.Fatalf("expected salted digests to differ")
	}
}

func TestVerify_MalformedDigestReportsFalse(t *testing.T) {
	t.Parallel()

	cfg := testConfig()

	for _, digest := range []string{"", "not-a-digest", "$2b$10$tooshort", "$argon2id$v=19$..."} {
		if cfg.Verify(digest, "whatever-password") {
			t.Fatalf("Verify(%q) = true, want false", digest)
		}
	}
}

func TestValidate_PolicyBounds(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if err := cfg.Validate("short"); err != ErrPasswordTooShort {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}
	if err := cfg.Validate(strings.Repeat("x", 73)); err != ErrPasswordTooLong {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
	if err := cfg.Validate("long-enough-password"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("PADRON_PASSWORD_MIN_LEN", "10")
	t.Setenv("PADRON_PASSWORD_MAX_LEN", "64")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Policy.MinLength != 10 || cfg.Policy.MaxLength != 64 {
		t.Fatalf("policy mismatch: %+v", cfg.Policy)
	}
	if cfg.Cost != bcrypt.DefaultCost {
		t.Fatalf("cost must stay at DefaultCost, got %d", cfg.Cost)
	}
}

func TestFromEnv_Invalid(t *testing.T) {
	t.Setenv("PADRON_PASSWORD_MIN_LEN", "64")
	t.Setenv("PADRON_PASSWORD_MAX_LEN", "10")

	if _, err := FromEnv(); err == nil {
		t.Fatalf("expected error for min > max")
	}

	t.Setenv("PADRON_PASSWORD_MIN_LEN", "not-a-number")
	if _, err := FromEnv(); err == nil {
		t.Fatalf("expected error for non-integer")
	}

	t.Setenv("PADRON_PASSWORD_MIN_LEN", "8")
	t.Setenv("PADRON_PASSWORD_MAX_LEN", "100")
	if _, err := FromEnv(); err == nil {
		t.Fatalf("expected error for max past bcrypt input limit")
	}
}

package token

import (
	"strings"
	"testing"
	"time"
)

const testKey = "0123456789abcdef0123456789abcdef" // 32 bytes

func testManager(t *testing.T, ttl time.Duration) *Manager {
	t.Helper()
	m, err := NewManager(Config{Issuer: "padron-test", Key: []byte(testKey), TTL: ttl})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m
}

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()

	m := testManager(t, 0)
	now := time.Now().UTC().Truncate(time.Second)

	tok, err := m.Issue("68b1c2d3e4f5a6b7c8d9e0f1", "carla@example.com", "user", now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := m.Verify(tok, now)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != "68b1c2d3e4f5a6b7c8d9e0f1" {
		t.Fatalf("subject mismatch: %q", claims.UserID)
	}
	if claims.Email != "carla@example.com" {
		t.Fatalf("email mismatch: %q", claims.Email)
	}
	if claims.Role != "user" {
		t.Fatalf("role mismatch: %q", claims.Role)
	}
	if claims.ExpiresAt != nil {
		t.Fatalf("expected no expiry by default, got %v", claims.ExpiresAt)
	}
}

func TestVerify_NoExpiryTokenOutlivesAnyClock(t *testing.T) {
	t.Parallel()

	m := testManager(t, 0)
	now := time.Now().UTC()

	tok, err := m.Issue("68b1c2d3e4f5a6b7c8d9e0f1", "a@b.com", "user", now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Ten years later it still verifies.
	if _, err := m.Verify(tok, now.AddDate(10, 0, 0)); err != nil {
		t.Fatalf("Verify far in the future: %v", err)
	}
}

func TestVerify_TTLEnforced(t *testing.T) {
	t.Parallel()

	m := testManager(t, 15*time.Minute)
	now := time.Now().UTC()

	tok, err := m.Issue("68b1c2d3e4f5a6b7c8d9e0f1", "a@b.com", "user", now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := m.Verify(tok, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("Verify within ttl: %v", err)
	}
	if claims.ExpiresAt == nil {
		t.Fatalf("expected exp claim")
	}

	if _, err := m.Verify(tok, now.Add(16*time.Minute)); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken after expiry, got %v", err)
	}
}

func TestVerify_RejectsTamperAndWrongKey(t *testing.T) {
	t.Parallel()

	m := testManager(t, 0)
	now := time.Now().UTC()

	tok, err := m.Issue("68b1c2d3e4f5a6b7c8d9e0f1", "a@b.com", "user", now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Flip a character in the payload segment.
	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape")
	}
	mutated := parts[0] + "." + parts[1][:len(parts[1])-2] + "xx." + parts[2]
	if _, err := m.Verify(mutated, now); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for tampered token, got %v", err)
	}

	other, err := NewManager(Config{Issuer: "padron-test", Key: []byte(strings.Repeat("k", 32))})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if _, err := other.Verify(tok, now); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for wrong key, got %v", err)
	}
}

func TestNewManager_KeyPolicy(t *testing.T) {
	t.Parallel()

	if _, err := NewManager(Config{Issuer: "x"}); err != ErrKeyMissing {
		t.Fatalf("expected ErrKeyMissing, got %v", err)
	}
	if _, err := NewManager(Config{Issuer: "x", Key: []byte("short")}); err != ErrKeyTooShort {
		t.Fatalf("expected ErrKeyTooShort, got %v", err)
	}
}

package ids

import (
	"testing"
	"time"
)

func TestNew_CarriesTimestamp(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	id := New(now)
	if got := id.Timestamp().UTC(); !got.Equal(now) {
		t.Fatalf("timestamp mismatch: got %v want %v", got, now)
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	id := New(time.Now().UTC())

	got, err := Parse(id.Hex())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got != id {
		t.Fatalf("round-trip mismatch: %v != %v", got, id)
	}

	// Surrounding whitespace is tolerated.
	if _, err := Parse("  " + id.Hex() + " "); err != nil {
		t.Fatalf("Parse with whitespace: %v", err)
	}

	for _, bad := range []string{"", "zzz", "123", "507f1f77bcf86cd79943901"} {
		if _, err := Parse(bad); err != ErrMalformed {
			t.Fatalf("Parse(%q): expected ErrMalformed, got %v", bad, err)
		}
	}
}

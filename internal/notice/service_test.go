package notice

import (
	"testing"
	"time"
)

func TestParseExpiryFormats(t *testing.T) {
	expiry, err := parseExpiry("2025-12-31")
	if err != nil {
		t.Fatalf("date-only: %v", err)
	}
	if expiry == nil || expiry.Year() != 2025 || expiry.Month() != time.December {
		t.Errorf("parsed = %v", expiry)
	}

	expiry, err = parseExpiry("2025-12-31T23:59:00Z")
	if err != nil {
		t.Fatalf("rfc3339: %v", err)
	}
	if expiry == nil || expiry.Hour() != 23 {
		t.Errorf("parsed = %v", expiry)
	}
}

func TestParseExpiryEmpty(t *testing.T) {
	expiry, err := parseExpiry("")
	if err != nil {
		t.Fatalf("empty: %v", err)
	}
	if expiry != nil {
		t.Errorf("expected no expiry, got %v", expiry)
	}
}

func TestParseExpiryRejectsGarbage(t *testing.T) {
	if _, err := parseExpiry("next week"); err == nil {
		t.Error("garbage expiry accepted")
	}
}

package validation

import (
	"strings"
	"testing"
	"time"
)

func TestIsValidUserID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"user_00042", true},
		{"a.b-c_D9", true},
		{"", false},
		{"has space", false},
		{"semi;colon", false},
		{strings.Repeat("x", MaxUserIDLength), true},
		{strings.Repeat("x", MaxUserIDLength+1), false},
	}
	for _, tt := range tests {
		if got := IsValidUserID(tt.id); got != tt.want {
			t.Errorf("IsValidUserID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  New York \x00 ", 100); got != "New York" {
		t.Errorf("got %q", got)
	}
	if got := SanitizeString("abcdef", 3); got != "abc" {
		t.Errorf("got %q", got)
	}
}

func TestParseTimestamp(t *testing.T) {
	got, err := ParseTimestamp("2026-03-04T23:30:00+09:00")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Location() != time.UTC {
		t.Error("timestamp not UTC-normalized")
	}
	if got.Hour() != 14 {
		t.Errorf("hour = %d, want 14 after UTC shift", got.Hour())
	}

	if _, err := ParseTimestamp("04/03/2026"); err == nil {
		t.Error("expected error for non-RFC3339 timestamp")
	}

	now, err := ParseTimestamp("")
	if err != nil {
		t.Fatalf("empty timestamp should default to now: %v", err)
	}
	if time.Since(now) > time.Minute {
		t.Error("defaulted timestamp not near now")
	}
}

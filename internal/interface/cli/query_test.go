package cli

import (
	"testing"
	"time"
)

func TestParseSince(t *testing.T) {
	tests := []struct {
		input string
		year  int
		month time.Month
		day   int
	}{
		{"2026-08-01", 2026, time.August, 1},
		{"2026/08/01", 2026, time.August, 1},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseSince(tt.input)
			if err != nil {
				t.Fatalf("parseSince(%q) error = %v", tt.input, err)
			}
			if got.Year() != tt.year || got.Month() != tt.month || got.Day() != tt.day {
				t.Errorf("parseSince(%q) = %v, want %d-%02d-%02d", tt.input, got, tt.year, tt.month, tt.day)
			}
		})
	}
}

func TestParseSince_NaturalLanguage(t *testing.T) {
	got, err := parseSince("yesterday")
	if err != nil {
		t.Fatalf("parseSince(yesterday) error = %v", err)
	}

	now := time.Now()
	if got.After(now) {
		t.Errorf("parseSince(yesterday) = %v, in the future", got)
	}
	if got.Before(now.Add(-48 * time.Hour)) {
		t.Errorf("parseSince(yesterday) = %v, more than two days old", got)
	}
}

func TestParseSince_Invalid(t *testing.T) {
	if _, err := parseSince("not a time"); err == nil {
		t.Error("expected error for unparseable input")
	}
}

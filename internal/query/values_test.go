package query

import (
	"testing"
	"time"

	"github.com/nlstn/go-contactql/internal/metadata"
)

func TestIsNumberString(t *testing.T) {
	valid := []string{"1234", "+250788383383", "0"}
	invalid := []string{"", "+", "bob", "12a4", "12 34", "1.5"}

	for _, s := range valid {
		if !isNumberString(s) {
			t.Errorf("Expected %q to be a number string", s)
		}
	}
	for _, s := range invalid {
		if isNumberString(s) {
			t.Errorf("Expected %q not to be a number string", s)
		}
	}
}

func TestDateWindow(t *testing.T) {
	kigali, err := time.LoadLocation("Africa/Kigali")
	if err != nil {
		t.Fatalf("Failed to load timezone: %v", err)
	}

	tests := []struct {
		name     string
		dayFirst bool
		tz       *time.Location
		value    string
		start    string
	}{
		{name: "Day-first dashes", dayFirst: true, tz: time.UTC, value: "01-03-2018", start: "2018-03-01T00:00:00Z"},
		{name: "Day-first slashes", dayFirst: true, tz: time.UTC, value: "01/03/2018", start: "2018-03-01T00:00:00Z"},
		{name: "Day-first dots", dayFirst: true, tz: time.UTC, value: "01.03.2018", start: "2018-03-01T00:00:00Z"},
		{name: "Day-first two-digit year", dayFirst: true, tz: time.UTC, value: "01-03-18", start: "2018-03-01T00:00:00Z"},
		{name: "Month-first reads the same text differently", dayFirst: false, tz: time.UTC, value: "01-03-2018", start: "2018-01-03T00:00:00Z"},
		{name: "ISO accepted in both conventions", dayFirst: true, tz: time.UTC, value: "2018-03-01", start: "2018-03-01T00:00:00Z"},
		{name: "Window anchored in org timezone", dayFirst: true, tz: kigali, value: "01-03-2018", start: "2018-02-28T22:00:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			org := metadata.NewStaticOrg(tt.tz, tt.dayFirst, false)
			start, end, err := dateWindow(org, tt.value)
			if err != nil {
				t.Fatalf("dateWindow failed: %v", err)
			}

			expectedStart, err := time.Parse(time.RFC3339, tt.start)
			if err != nil {
				t.Fatalf("Bad expectation: %v", err)
			}
			if !start.Equal(expectedStart) {
				t.Errorf("Expected window start %v, got %v", expectedStart, start)
			}
			if !end.Equal(expectedStart.Add(24 * time.Hour)) {
				t.Errorf("Expected 24h window, got end %v", end)
			}
		})
	}

	t.Run("Garbage is an error", func(t *testing.T) {
		org := metadata.NewStaticOrg(time.UTC, true, false)
		if _, _, err := dateWindow(org, "azertyuiop"); err == nil {
			t.Errorf("Expected error for unparseable date")
		}
	})
}

func TestParseDecimal(t *testing.T) {
	if _, err := parseDecimal("32.5"); err != nil {
		t.Errorf("Expected 32.5 to parse: %v", err)
	}
	if _, err := parseDecimal(" 18 "); err != nil {
		t.Errorf("Expected padded value to parse: %v", err)
	}
	if _, err := parseDecimal("old"); err == nil {
		t.Errorf("Expected error for unparseable decimal")
	}
}

func TestParseUUID(t *testing.T) {
	normalized, err := parseUUID("173E7E25-9434-4E26-AFD0-DC271A37B3A3")
	if err != nil {
		t.Fatalf("Expected UUID to parse: %v", err)
	}
	if normalized != "173e7e25-9434-4e26-afd0-dc271a37b3a3" {
		t.Errorf("Expected lowercase normalization, got %s", normalized)
	}
	if _, err := parseUUID("not-a-uuid"); err == nil {
		t.Errorf("Expected error for invalid UUID")
	}
}

func TestLastPathSegment(t *testing.T) {
	tests := []struct {
		value    string
		expected string
	}{
		{value: "Nyarugenge", expected: "Nyarugenge"},
		{value: "Rwanda > Kigali City > Nyarugenge", expected: "Nyarugenge"},
		{value: " Kigali City ", expected: "Kigali City"},
	}

	for _, tt := range tests {
		if got := lastPathSegment(tt.value); got != tt.expected {
			t.Errorf("lastPathSegment(%q) = %q, expected %q", tt.value, got, tt.expected)
		}
	}
}

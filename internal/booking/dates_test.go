package booking

import (
	"errors"
	"testing"
	"time"
)

func TestParseDateFormats(t *testing.T) {
	want := time.Date(2024, 7, 15, 0, 0, 0, 0, paris)

	tests := []struct {
		name string
		text string
	}{
		{"day slash month slash year", "15/07/2024"},
		{"iso", "2024-07-15"},
		{"day dash month dash year", "15-07-2024"},
		{"french month name", "15 juillet 2024"},
		{"english month name", "15 July 2024"},
		{"surrounding whitespace", "  15/07/2024  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.text, paris)
			if err != nil {
				t.Fatalf("ParseDate(%q) error: %v", tt.text, err)
			}
			if !got.Equal(want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.text, got, want)
			}
		})
	}
}

func TestParseDateFrenchMonths(t *testing.T) {
	tests := []struct {
		text string
		want time.Time
	}{
		{"1 janvier 2025", time.Date(2025, 1, 1, 0, 0, 0, 0, paris)},
		{"28 février 2025", time.Date(2025, 2, 28, 0, 0, 0, 0, paris)},
		{"3 aout 2024", time.Date(2024, 8, 3, 0, 0, 0, 0, paris)},
		{"24 décembre 2024", time.Date(2024, 12, 24, 0, 0, 0, 0, paris)},
	}

	for _, tt := range tests {
		got, err := ParseDate(tt.text, paris)
		if err != nil {
			t.Fatalf("ParseDate(%q) error: %v", tt.text, err)
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseDate(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestParseDateRejectsInvalid(t *testing.T) {
	tests := []string{
		"31/02/2024", // not a real calendar date
		"2024/07/15", // wrong separator order
		"demain",
		"July 15",
		"",
	}

	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			if _, err := ParseDate(text, paris); !errors.Is(err, ErrDateParse) {
				t.Errorf("ParseDate(%q) error = %v, want ErrDateParse", text, err)
			}
		})
	}
}

func TestParseDateUsesClinicZone(t *testing.T) {
	got, err := ParseDate("15/07/2024", paris)
	if err != nil {
		t.Fatal(err)
	}
	if got.Location() != paris {
		t.Errorf("parsed date location = %v, want Europe/Paris", got.Location())
	}
	if got.Hour() != 0 {
		t.Errorf("parsed date is not midnight: %v", got)
	}
}

package timefmt

import (
	"errors"
	"testing"
	"time"
)

func TestParse_Valid(t *testing.T) {
	day := time.Date(2026, 3, 20, 17, 45, 33, 12, time.UTC)

	tests := []struct {
		in        string
		hour, min int
	}{
		{"05:10", 5, 10},
		{"5:10", 5, 10},
		{"00:00", 0, 0},
		{"23:59", 23, 59},
		{"12:30", 12, 30},
	}

	for _, tt := range tests {
		got, err := Parse(tt.in, day, time.UTC)
		if err != nil {
			t.Errorf("Parse(%q) error: %v", tt.in, err)
			continue
		}
		want := time.Date(2026, 3, 20, tt.hour, tt.min, 0, 0, time.UTC)
		if !got.Equal(want) {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, want)
		}
	}
}

func TestParse_CarriesDayAndLocation(t *testing.T) {
	loc := time.FixedZone("TRT", 3*60*60)
	day := time.Date(2026, 2, 28, 0, 0, 0, 0, loc)

	got, err := Parse("19:10", day, loc)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if got.Location() != loc {
		t.Errorf("location = %v, want %v", got.Location(), loc)
	}
	if got.Second() != 0 || got.Nanosecond() != 0 {
		t.Errorf("seconds not truncated: %v", got)
	}
}

func TestParse_Malformed(t *testing.T) {
	day := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	malformed := []string{
		"", "0510", "5", ":10", "05:", "05:1", "05:100", "123:45",
		"ab:cd", "05:xx", "-5:10", " 5:10", "05 :10", "24:00", "05:60", "99:99",
	}

	for _, in := range malformed {
		_, err := Parse(in, day, time.UTC)
		if !errors.Is(err, ErrMalformedTime) {
			t.Errorf("Parse(%q) error = %v, want ErrMalformedTime", in, err)
		}
	}
}

func TestParseFormat_RoundTrip(t *testing.T) {
	day := time.Date(2026, 3, 20, 0, 0, 0, 0, time.Local)

	// Every accepted input formats back to its zero-padded form.
	for hour := 0; hour < 24; hour++ {
		for _, min := range []int{0, 1, 9, 10, 30, 59} {
			in := Format(time.Date(2026, 3, 20, hour, min, 0, 0, time.Local))
			parsed, err := Parse(in, day, time.Local)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", in, err)
			}
			if out := Format(parsed); out != in {
				t.Fatalf("round-trip %q -> %q", in, out)
			}
		}
	}
}

func TestDateKeyAndMonthStamp(t *testing.T) {
	d := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)
	if got := DateKey(d); got != "05.03.2026" {
		t.Errorf("DateKey = %q, want %q", got, "05.03.2026")
	}
	if got := MonthStamp(d); got != "03.2026" {
		t.Errorf("MonthStamp = %q, want %q", got, "03.2026")
	}
}

package schedule

import (
	"testing"
	"time"
)

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{2*time.Hour + 15*time.Minute, "2h 15m"},
		{45 * time.Minute, "45m"},
		{0, "0m"},
		{-5 * time.Minute, "0m"},
		{time.Hour, "1h 0m"},
	}

	for _, tt := range tests {
		if got := FormatRemaining(tt.d); got != tt.want {
			t.Errorf("FormatRemaining(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatOutput_Modes(t *testing.T) {
	now := time.Date(2026, 3, 20, 14, 0, 0, 0, time.UTC)
	p := Prayer{Name: "Asr", Time: time.Date(2026, 3, 20, 16, 30, 0, 0, time.UTC)}

	tests := []struct {
		mode string
		want string
	}{
		{FormatTimeRemaining, "2h 30m"},
		{FormatNextPrayerTime, "16:30"},
		{FormatNameAndTime, "Asr 16:30"},
		{FormatNameAndRemaining, "Asr 2h 30m"},
		{FormatShortNameAndTime, "A 16:30"},
		{FormatShortNameAndRemain, "A 2h 30m"},
		{FormatFull, "Asr 16:30 (2h 30m)"},
		{"bogus-mode", "Asr 16:30"},
	}

	for _, tt := range tests {
		if got := FormatOutput(p, now, tt.mode, "15:04"); got != tt.want {
			t.Errorf("FormatOutput(%q) = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestFormatOutput_12h(t *testing.T) {
	now := time.Date(2026, 3, 20, 14, 0, 0, 0, time.UTC)
	p := Prayer{Name: "Asr", Time: time.Date(2026, 3, 20, 16, 30, 0, 0, time.UTC)}

	if got := FormatOutput(p, now, FormatNextPrayerTime, "3:04 PM"); got != "4:30 PM" {
		t.Errorf("12h output = %q, want %q", got, "4:30 PM")
	}
}

func TestFormatOutput_CustomTemplate(t *testing.T) {
	now := time.Date(2026, 3, 20, 14, 0, 0, 0, time.UTC)
	p := Prayer{Name: "Asr", Time: time.Date(2026, 3, 20, 16, 30, 0, 0, time.UTC)}

	got := FormatOutput(p, now, "{{.ShortName}}: {{.Remaining}}", "15:04")
	if got != "A: 2h 30m" {
		t.Errorf("custom template output = %q", got)
	}

	got = FormatOutput(p, now, "{{.Broken", "15:04")
	if got == "" || got[:12] != "template-err" {
		t.Errorf("broken template output = %q, want template-err prefix", got)
	}
}

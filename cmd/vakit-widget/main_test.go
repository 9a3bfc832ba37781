package main

import (
	"strings"
	"testing"
	"time"

	"vakit/internal/api"
	"vakit/internal/widgetstore"
)

func testRecord(day time.Time) api.PrayerTimeRecord {
	return api.PrayerTimeRecord{
		Fajr:               "05:12",
		Sunrise:            "06:40",
		Dhuhr:              "13:05",
		Asr:                "16:30",
		Maghrib:            "19:20",
		Isha:               "20:45",
		GregorianDateShort: day.Format("02.01.2006"),
	}
}

func TestRender_NextPrayer(t *testing.T) {
	now := time.Date(2026, 3, 20, 14, 0, 0, 0, time.UTC)
	rec := testRecord(now)
	snap := &widgetstore.Snapshot{CityName: "Istanbul", Today: &rec}

	got := render(snap, now, "name-and-time", "15:04", false)
	if got != "Asr 16:30" {
		t.Errorf("render = %q, want %q", got, "Asr 16:30")
	}
}

func TestRender_WithCityPrefix(t *testing.T) {
	now := time.Date(2026, 3, 20, 14, 0, 0, 0, time.UTC)
	rec := testRecord(now)
	snap := &widgetstore.Snapshot{CityName: "Istanbul", Today: &rec}

	got := render(snap, now, "next-prayer-time", "15:04", true)
	if got != "Istanbul 16:30" {
		t.Errorf("render = %q, want %q", got, "Istanbul 16:30")
	}
}

func TestRender_AfterIshaUsesTomorrowFajr(t *testing.T) {
	now := time.Date(2026, 3, 20, 22, 0, 0, 0, time.UTC)
	rec := testRecord(now)
	tom := testRecord(now.AddDate(0, 0, 1))
	tom.Fajr = "05:10"
	snap := &widgetstore.Snapshot{CityName: "Istanbul", Today: &rec, Tomorrow: &tom}

	got := render(snap, now, "name-and-time", "15:04", false)
	if got != "Fajr 05:10" {
		t.Errorf("render = %q, want %q", got, "Fajr 05:10")
	}
}

func TestRender_AfterIshaWithoutTomorrow(t *testing.T) {
	now := time.Date(2026, 3, 20, 22, 0, 0, 0, time.UTC)
	rec := testRecord(now)
	snap := &widgetstore.Snapshot{CityName: "Istanbul", Today: &rec}

	got := render(snap, now, "name-and-time", "15:04", false)
	if got != "last prayer --:--" {
		t.Errorf("render = %q, want the exhausted-timeline fallback", got)
	}
}

func TestRender_NilSnapshotFallsBackToPlaceholder(t *testing.T) {
	now := time.Date(2026, 3, 20, 6, 0, 0, 0, time.UTC)

	got := render(nil, now, "name-and-time", "15:04", true)
	if !strings.HasPrefix(got, "- ") {
		t.Errorf("render = %q, want city placeholder prefix", got)
	}
	if !strings.Contains(got, "Sunrise") {
		t.Errorf("render = %q, want placeholder Sunrise as next at 06:00", got)
	}
}

func TestRender_CustomTemplate(t *testing.T) {
	now := time.Date(2026, 3, 20, 14, 0, 0, 0, time.UTC)
	rec := testRecord(now)
	snap := &widgetstore.Snapshot{Today: &rec}

	got := render(snap, now, "{{.ShortName}}@{{.Time}}", "15:04", false)
	if got != "A@16:30" {
		t.Errorf("render = %q, want %q", got, "A@16:30")
	}
}

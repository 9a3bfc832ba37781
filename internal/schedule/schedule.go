// Package schedule derives the prayer-to-prayer timeline of a day from a
// published record and answers "which prayer is current / next".
package schedule

import (
	"time"

	"vakit/internal/api"
	"vakit/internal/timefmt"
)

// Prayer is a single named prayer with its resolved time.
type Prayer struct {
	Name string
	Time time.Time
}

// Names lists the six canonical prayers in chronological order.
var Names = []string{"Fajr", "Sunrise", "Dhuhr", "Asr", "Maghrib", "Isha"}

// ShortNames maps prayer names to status-line abbreviations.
var ShortNames = map[string]string{
	"Fajr":    "F",
	"Sunrise": "S",
	"Dhuhr":   "D",
	"Asr":     "A",
	"Maghrib": "M",
	"Isha":    "I",
}

// FromRecord resolves the record's six clock strings against the calendar
// day of `day` in the given location. A malformed time drops only that
// prayer from the result; the rest of the record stays usable.
func FromRecord(rec api.PrayerTimeRecord, day time.Time, loc *time.Location) []Prayer {
	clock := map[string]string{
		"Fajr":    rec.Fajr,
		"Sunrise": rec.Sunrise,
		"Dhuhr":   rec.Dhuhr,
		"Asr":     rec.Asr,
		"Maghrib": rec.Maghrib,
		"Isha":    rec.Isha,
	}

	var prayers []Prayer
	for _, name := range Names {
		t, err := timefmt.Parse(clock[name], day, loc)
		if err != nil {
			continue
		}
		prayers = append(prayers, Prayer{Name: name, Time: t})
	}
	return prayers
}

// Timeline builds the full day cycle: today's prayers, extended with
// next-day Fajr when tomorrow's record is available, so the stretch after
// Isha still has a "next" target.
func Timeline(today api.PrayerTimeRecord, tomorrow *api.PrayerTimeRecord, day time.Time, loc *time.Location) []Prayer {
	prayers := FromRecord(today, day, loc)
	if tomorrow != nil {
		if t, err := timefmt.Parse(tomorrow.Fajr, day.AddDate(0, 0, 1), loc); err == nil {
			prayers = append(prayers, Prayer{Name: "Fajr", Time: t})
		}
	}
	return prayers
}

// CurrentPrayer returns the most recent prayer at or before now, or nil
// before the day's first prayer.
func CurrentPrayer(prayers []Prayer, now time.Time) *Prayer {
	var current *Prayer
	for i := range prayers {
		if prayers[i].Time.After(now) {
			break
		}
		current = &prayers[i]
	}
	return current
}

// NextPrayer returns the first prayer strictly after now, or nil when the
// timeline is exhausted.
func NextPrayer(prayers []Prayer, now time.Time) *Prayer {
	for i := range prayers {
		if prayers[i].Time.After(now) {
			return &prayers[i]
		}
	}
	return nil
}

// TimeRemaining returns the duration until the given prayer time.
func TimeRemaining(p Prayer, now time.Time) time.Duration {
	return p.Time.Sub(now)
}

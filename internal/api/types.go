package api

import "time"

// PrayerTimeRecord is one calendar day's prayer times as served by the API.
// All times are "HH:MM" strings; GregorianDateShort ("DD.MM.YYYY") is the
// natural key for lookups within a monthly batch. Records are immutable once
// decoded and compare structurally.
type PrayerTimeRecord struct {
	Fajr               string `json:"fajr"`
	Sunrise            string `json:"sunrise"`
	Dhuhr              string `json:"dhuhr"`
	Asr                string `json:"asr"`
	Maghrib            string `json:"maghrib"`
	Isha               string `json:"isha"`
	GregorianDateShort string `json:"gregorianDateShort"`
	HijriDateShort     string `json:"hijriDateShort"`
	ShapeMoonURL       string `json:"shapeMoonUrl,omitempty"`
	QiblaTime          string `json:"qiblaTime,omitempty"`
}

// Country is a top-level location reference entity.
type Country struct {
	ID   int    `json:"id"`
	Code string `json:"code,omitempty"`
	Name string `json:"name"`
}

// State is a second-level location entity. CountryID is never sent by the
// service; it is attached locally once the selection context is known.
type State struct {
	ID        int    `json:"id"`
	Code      string `json:"code,omitempty"`
	Name      string `json:"name"`
	CountryID int    `json:"-"`
}

// City is the leaf location entity prayer times are keyed by. StateID is
// attached locally, like State.CountryID.
type City struct {
	ID      int    `json:"id"`
	Code    string `json:"code,omitempty"`
	Name    string `json:"name"`
	StateID int    `json:"-"`
}

// AuthSession holds the bearer token issued by the auth endpoint. It is
// never persisted; each process re-authenticates from credentials.
type AuthSession struct {
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
}

// usable reports whether the session token may still be sent, leaving a
// safety margin before the server-side expiry.
func (s *AuthSession) usable(now time.Time, margin time.Duration) bool {
	return s != nil && now.Before(s.Expiry.Add(-margin))
}

// PlaceholderRecord is the fixed illustrative record published when no real
// data is available (no credentials configured, or today missing from the
// service batch). Consumers render it instead of an empty screen.
func PlaceholderRecord(day time.Time) PrayerTimeRecord {
	return PrayerTimeRecord{
		Fajr:               "05:30",
		Sunrise:            "07:00",
		Dhuhr:              "12:30",
		Asr:                "15:45",
		Maghrib:            "18:15",
		Isha:               "19:45",
		GregorianDateShort: day.Format("02.01.2006"),
		HijriDateShort:     "",
	}
}

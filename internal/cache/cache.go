// Package cache persists the app-private monthly batch of prayer-time
// records. The cache is overwritten wholesale on every successful fetch and
// is never merged incrementally.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"vakit/internal/api"
	"vakit/internal/timefmt"
)

const monthlyFile = "monthly.json"

// Cache provides file-based storage for the monthly prayer-time batch.
type Cache struct {
	dir string
}

// MonthlyEntry is a month's worth of records plus the validity metadata.
// It is valid only while both the month stamp and the city id match the
// current selection; any mismatch invalidates the whole entry.
type MonthlyEntry struct {
	MonthStamp string                 `json:"monthStamp"` // "MM.YYYY"
	CityID     int                    `json:"cityId"`
	Records    []api.PrayerTimeRecord `json:"records"`
}

// New creates a Cache rooted at the given directory.
// If dir is empty, it defaults to ~/.cache/vakit/.
func New(dir string) (*Cache, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".cache", "vakit")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create cache directory %s: %w", dir, err)
	}

	return &Cache{dir: dir}, nil
}

// Load reads the cached monthly entry. Returns nil if the cache is missing
// or undecodable -- the read path never errors, a bad cache is just a miss.
func (c *Cache) Load() *MonthlyEntry {
	data, err := os.ReadFile(filepath.Join(c.dir, monthlyFile))
	if err != nil {
		return nil
	}

	var entry MonthlyEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil
	}

	return &entry
}

// Save overwrites the monthly entry wholesale.
func (c *Cache) Save(entry *MonthlyEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal monthly cache: %w", err)
	}

	if err := os.WriteFile(filepath.Join(c.dir, monthlyFile), data, 0o644); err != nil {
		return fmt.Errorf("failed to write monthly cache: %w", err)
	}

	return nil
}

// Valid reports whether the entry may serve lookups for the given moment and
// selected city.
func (e *MonthlyEntry) Valid(now time.Time, cityID int) bool {
	return e != nil && e.MonthStamp == timefmt.MonthStamp(now) && e.CityID == cityID
}

// Lookup returns the record for the calendar day of date, or nil when the
// day falls outside the batch (e.g. tomorrow crossing into the next month).
func (e *MonthlyEntry) Lookup(date time.Time) *api.PrayerTimeRecord {
	if e == nil {
		return nil
	}
	key := timefmt.DateKey(date)
	for i := range e.Records {
		if e.Records[i].GregorianDateShort == key {
			return &e.Records[i]
		}
	}
	return nil
}

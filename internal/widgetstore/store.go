// Package widgetstore is the shared-storage scope between the main app and
// the widget binary. The app is the sole writer; the widget is a read-only
// consumer and never talks to the remote service itself.
package widgetstore

import (
	"context"

	"vakit/internal/api"
)

// Snapshot is the full published state. Today is the only required field;
// readers fall back to a placeholder when it is absent.
type Snapshot struct {
	CityName string                 `json:"cityName"`
	Today    *api.PrayerTimeRecord  `json:"today,omitempty"`
	Tomorrow *api.PrayerTimeRecord  `json:"tomorrow,omitempty"`
	Month    []api.PrayerTimeRecord `json:"month,omitempty"`
}

// Store reads and writes the shared snapshot.
type Store interface {
	// Publish overwrites the snapshot wholesale.
	Publish(ctx context.Context, snap *Snapshot) error
	// Read returns the current snapshot, nil when none has been published.
	Read(ctx context.Context) (*Snapshot, error)
}

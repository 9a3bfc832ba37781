package widgetstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vakit/internal/api"
)

func sampleSnapshot() *Snapshot {
	today := api.PrayerTimeRecord{Fajr: "05:10", Isha: "19:45", GregorianDateShort: "20.03.2026"}
	tomorrow := api.PrayerTimeRecord{Fajr: "05:08", Isha: "19:46", GregorianDateShort: "21.03.2026"}
	return &Snapshot{
		CityName: "Istanbul",
		Today:    &today,
		Tomorrow: &tomorrow,
		Month:    []api.PrayerTimeRecord{today, tomorrow},
	}
}

func TestFileStore_PublishRead(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Publish(ctx, sampleSnapshot()))

	got, err := store.Read(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Istanbul", got.CityName)
	assert.Equal(t, "05:10", got.Today.Fajr)
	assert.Equal(t, "21.03.2026", got.Tomorrow.GregorianDateShort)
	assert.Len(t, got.Month, 2)
}

func TestFileStore_ReadMissing(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	got, err := store.Read(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFileStore_ReadCorrupt(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, snapshotFile), []byte("{oops"), 0o644))

	_, err = store.Read(context.Background())
	assert.Error(t, err)
}

func TestFileStore_PublishOverwrites(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Publish(ctx, sampleSnapshot()))

	// A rollover publish with no tomorrow must not leave the old one behind.
	today := api.PrayerTimeRecord{Fajr: "04:50", GregorianDateShort: "01.04.2026"}
	require.NoError(t, store.Publish(ctx, &Snapshot{CityName: "Ankara", Today: &today}))

	got, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ankara", got.CityName)
	assert.Nil(t, got.Tomorrow)
	assert.Nil(t, got.Month)
}

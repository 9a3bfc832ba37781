package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vakit/internal/api"
	"vakit/internal/cache"
	"vakit/internal/widgetstore"
)

// fakeClient serves canned monthly batches and counts fetches.
type fakeClient struct {
	creds   bool
	batches [][]api.PrayerTimeRecord // consumed in order; last one repeats
	err     error
	calls   int
}

var _ TimesClient = (*fakeClient)(nil)

func (f *fakeClient) HasCredentials() bool { return f.creds }

func (f *fakeClient) FetchMonthlyTimes(_ context.Context, _ int) ([]api.PrayerTimeRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if len(f.batches) == 0 {
		return nil, nil
	}
	batch := f.batches[0]
	if len(f.batches) > 1 {
		f.batches = f.batches[1:]
	}
	return batch, nil
}

// fakeStore records every published snapshot.
type fakeStore struct {
	published []*widgetstore.Snapshot
}

var _ widgetstore.Store = (*fakeStore)(nil)

func (f *fakeStore) Publish(_ context.Context, snap *widgetstore.Snapshot) error {
	f.published = append(f.published, snap)
	return nil
}

func (f *fakeStore) Read(_ context.Context) (*widgetstore.Snapshot, error) {
	if len(f.published) == 0 {
		return nil, nil
	}
	return f.published[len(f.published)-1], nil
}

func (f *fakeStore) last() *widgetstore.Snapshot {
	if len(f.published) == 0 {
		return nil
	}
	return f.published[len(f.published)-1]
}

func rec(date string) api.PrayerTimeRecord {
	return api.PrayerTimeRecord{
		Fajr:               "05:10",
		Sunrise:            "06:40",
		Dhuhr:              "13:05",
		Asr:                "16:30",
		Maghrib:            "19:20",
		Isha:               "20:45",
		GregorianDateShort: date,
	}
}

var (
	istanbul = api.City{ID: 9541, Name: "Istanbul", StateID: 539}
	ankara   = api.City{ID: 9206, Name: "Ankara", StateID: 506}
)

// newTestOrchestrator pins the clock to 20.03.2026 10:00 local.
func newTestOrchestrator(t *testing.T, client *fakeClient) (*Orchestrator, *fakeStore, *cache.Cache) {
	t.Helper()
	c, err := cache.New(t.TempDir())
	require.NoError(t, err)

	store := &fakeStore{}
	o := New(client, c, store, zerolog.Nop())
	o.now = func() time.Time {
		return time.Date(2026, 3, 20, 10, 0, 0, 0, time.Local)
	}
	return o, store, c
}

func TestRefreshToday_NoCitySelected(t *testing.T) {
	client := &fakeClient{creds: true}
	o, store, _ := newTestOrchestrator(t, client)

	err := o.RefreshToday(context.Background())
	require.ErrorIs(t, err, ErrNoLocationSelected)
	assert.Equal(t, ErrNoLocationSelected.Error(), o.LastError())
	assert.Empty(t, store.published)
	assert.Zero(t, client.calls)
}

func TestRefreshToday_NoCredentialsPublishesPlaceholder(t *testing.T) {
	client := &fakeClient{creds: false}
	o, store, _ := newTestOrchestrator(t, client)

	require.NoError(t, o.SetCity(context.Background(), istanbul))

	assert.Zero(t, client.calls, "no network call may be made without credentials")
	snap := store.last()
	require.NotNil(t, snap)
	assert.Equal(t, "Istanbul", snap.CityName)
	assert.Equal(t, api.PlaceholderRecord(o.now()), *snap.Today)
	// Degraded mode is not an error.
	assert.Empty(t, o.LastError())
}

func TestRefreshToday_CacheHitSkipsNetwork(t *testing.T) {
	client := &fakeClient{creds: true}
	o, store, c := newTestOrchestrator(t, client)

	require.NoError(t, c.Save(&cache.MonthlyEntry{
		MonthStamp: "03.2026",
		CityID:     istanbul.ID,
		Records:    []api.PrayerTimeRecord{rec("19.03.2026"), rec("20.03.2026"), rec("21.03.2026")},
	}))

	require.NoError(t, o.SetCity(context.Background(), istanbul))

	assert.Zero(t, client.calls)
	snap := store.last()
	require.NotNil(t, snap)
	assert.Equal(t, "20.03.2026", snap.Today.GregorianDateShort)
	assert.Equal(t, "21.03.2026", snap.Tomorrow.GregorianDateShort)
	assert.Len(t, snap.Month, 3)
}

func TestRefreshToday_IdempotentFastPath(t *testing.T) {
	client := &fakeClient{creds: true}
	o, store, c := newTestOrchestrator(t, client)

	require.NoError(t, c.Save(&cache.MonthlyEntry{
		MonthStamp: "03.2026",
		CityID:     istanbul.ID,
		Records:    []api.PrayerTimeRecord{rec("20.03.2026"), rec("21.03.2026")},
	}))

	require.NoError(t, o.SetCity(context.Background(), istanbul))
	published := len(store.published)

	// Second call holds today's record already: full no-op.
	require.NoError(t, o.RefreshToday(context.Background()))
	assert.Equal(t, published, len(store.published))
	assert.Zero(t, client.calls)
}

func TestRefreshToday_InvalidCacheFetches(t *testing.T) {
	client := &fakeClient{
		creds:   true,
		batches: [][]api.PrayerTimeRecord{{rec("20.03.2026"), rec("21.03.2026")}},
	}
	o, store, c := newTestOrchestrator(t, client)

	// Stale month stamp for the same city.
	require.NoError(t, c.Save(&cache.MonthlyEntry{
		MonthStamp: "02.2026",
		CityID:     istanbul.ID,
		Records:    []api.PrayerTimeRecord{rec("19.02.2026")},
	}))

	require.NoError(t, o.SetCity(context.Background(), istanbul))

	assert.Equal(t, 1, client.calls)
	snap := store.last()
	assert.Equal(t, "20.03.2026", snap.Today.GregorianDateShort)

	// Cache was overwritten wholesale with the fresh batch.
	entry := c.Load()
	require.NotNil(t, entry)
	assert.Equal(t, "03.2026", entry.MonthStamp)
	assert.Len(t, entry.Records, 2)
}

func TestRefreshToday_TodayMissingFromBatchPublishesPlaceholder(t *testing.T) {
	client := &fakeClient{
		creds:   true,
		batches: [][]api.PrayerTimeRecord{{rec("01.03.2026"), rec("02.03.2026")}},
	}
	o, store, _ := newTestOrchestrator(t, client)

	require.NoError(t, o.SetCity(context.Background(), istanbul))

	snap := store.last()
	require.NotNil(t, snap)
	assert.Equal(t, api.PlaceholderRecord(o.now()), *snap.Today)
}

func TestRefreshToday_FetchFailurePublishesPlaceholder(t *testing.T) {
	boom := errors.New("service unavailable")
	client := &fakeClient{creds: true, err: boom}
	o, store, _ := newTestOrchestrator(t, client)

	err := o.SetCity(context.Background(), istanbul)
	require.ErrorIs(t, err, boom)

	snap := store.last()
	require.NotNil(t, snap)
	assert.Equal(t, api.PlaceholderRecord(o.now()), *snap.Today)
	assert.Equal(t, boom.Error(), o.LastError())

	// A later success clears the message.
	client.err = nil
	client.batches = [][]api.PrayerTimeRecord{{rec("20.03.2026"), rec("21.03.2026")}}
	require.NoError(t, o.RefreshToday(context.Background()))
	assert.Empty(t, o.LastError())
}

func TestRefreshToday_MonthBoundarySupplementaryFetch(t *testing.T) {
	// Cache holds 19-20.03 for Istanbul, today is 20.03: tomorrow (21.03)
	// is missing, so exactly one live fetch happens and fills it in.
	client := &fakeClient{
		creds:   true,
		batches: [][]api.PrayerTimeRecord{{rec("21.03.2026"), rec("22.03.2026")}},
	}
	o, store, c := newTestOrchestrator(t, client)

	require.NoError(t, c.Save(&cache.MonthlyEntry{
		MonthStamp: "03.2026",
		CityID:     istanbul.ID,
		Records:    []api.PrayerTimeRecord{rec("19.03.2026"), rec("20.03.2026")},
	}))

	require.NoError(t, o.SetCity(context.Background(), istanbul))

	assert.Equal(t, 1, client.calls, "exactly one supplementary fetch")
	snap := store.last()
	assert.Equal(t, "20.03.2026", snap.Today.GregorianDateShort)
	require.NotNil(t, snap.Tomorrow)
	assert.Equal(t, "21.03.2026", snap.Tomorrow.GregorianDateShort)
}

func TestRefreshToday_MonthBoundaryFailureSwallowed(t *testing.T) {
	client := &fakeClient{creds: true, err: errors.New("timeout")}
	o, store, c := newTestOrchestrator(t, client)

	require.NoError(t, c.Save(&cache.MonthlyEntry{
		MonthStamp: "03.2026",
		CityID:     istanbul.ID,
		Records:    []api.PrayerTimeRecord{rec("20.03.2026")},
	}))

	// Today comes from cache; the supplementary fetch fails silently.
	require.NoError(t, o.SetCity(context.Background(), istanbul))

	assert.Equal(t, 1, client.calls)
	assert.Empty(t, o.LastError(), "supplementary failure must not surface")
	snap := store.last()
	assert.Equal(t, "20.03.2026", snap.Today.GregorianDateShort)
	assert.Nil(t, snap.Tomorrow)
}

func TestSetCity_InvalidatesAndRepublishes(t *testing.T) {
	client := &fakeClient{
		creds:   true,
		batches: [][]api.PrayerTimeRecord{{rec("20.03.2026"), rec("21.03.2026")}},
	}
	o, store, c := newTestOrchestrator(t, client)

	// Valid cache for city A.
	require.NoError(t, c.Save(&cache.MonthlyEntry{
		MonthStamp: "03.2026",
		CityID:     istanbul.ID,
		Records:    []api.PrayerTimeRecord{rec("20.03.2026"), rec("21.03.2026")},
	}))
	require.NoError(t, o.SetCity(context.Background(), istanbul))
	assert.Zero(t, client.calls)
	require.NotNil(t, o.Today())

	// Switching to city B invalidates and triggers a live fetch.
	require.NoError(t, o.SetCity(context.Background(), ankara))
	assert.Equal(t, 1, client.calls)
	snap := store.last()
	assert.Equal(t, "Ankara", snap.CityName)
	assert.Equal(t, "20.03.2026", snap.Today.GregorianDateShort)
}

func TestPublish_FiresNotifier(t *testing.T) {
	client := &fakeClient{creds: false}
	o, _, _ := newTestOrchestrator(t, client)

	pings := 0
	o.SetNotifier(func() { pings++ })

	require.NoError(t, o.SetCity(context.Background(), istanbul))
	assert.Equal(t, 1, pings)
}

func TestRefreshToday_ValidityDependsOnTimeAndCity(t *testing.T) {
	entry := &cache.MonthlyEntry{
		MonthStamp: "03.2026",
		CityID:     istanbul.ID,
		Records:    []api.PrayerTimeRecord{rec("20.03.2026")},
	}
	march := time.Date(2026, 3, 20, 10, 0, 0, 0, time.Local)

	assert.True(t, entry.Valid(march, istanbul.ID))
	assert.False(t, entry.Valid(march.AddDate(0, 1, 0), istanbul.ID))
	assert.False(t, entry.Valid(march, ankara.ID))
}

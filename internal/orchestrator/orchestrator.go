// Package orchestrator coordinates the monthly cache, the remote client,
// and the shared widget snapshot. It decides cache-hit vs fetch, handles
// month-boundary rollover, and keeps every failure path non-fatal: the
// outcome is always "last known good state" or "placeholder", plus an
// optional human-readable message.
package orchestrator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"vakit/internal/api"
	"vakit/internal/cache"
	"vakit/internal/timefmt"
	"vakit/internal/widgetstore"
)

// ErrNoLocationSelected means the user has not chosen a city yet. The UI
// turns it into a prompt, not an error banner.
var ErrNoLocationSelected = errors.New("no city selected")

// TimesClient is the slice of the remote client the orchestrator needs.
type TimesClient interface {
	HasCredentials() bool
	FetchMonthlyTimes(ctx context.Context, cityID int) ([]api.PrayerTimeRecord, error)
}

// Orchestrator owns the refresh state machine. RefreshToday is not guarded
// against concurrent re-entry: two rapid calls may both fetch, and the last
// writer to the cache and snapshot wins.
type Orchestrator struct {
	client TimesClient
	cache  *cache.Cache
	store  widgetstore.Store
	log    zerolog.Logger

	// notify pings the widget after a publish; best-effort.
	notify func()
	// now is the clock, injectable for tests.
	now func() time.Time

	mu      sync.Mutex
	city    *api.City
	today   *api.PrayerTimeRecord
	lastErr string
}

// New wires the orchestrator. The widget reload signal is optional; see
// SetNotifier.
func New(client TimesClient, c *cache.Cache, store widgetstore.Store, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		client: client,
		cache:  c,
		store:  store,
		log:    logger,
		now:    time.Now,
	}
}

// SetNotifier installs the post-publish widget reload signal.
func (o *Orchestrator) SetNotifier(fn func()) {
	o.notify = fn
}

// SetCity switches the selected city: the in-memory today record is
// invalidated immediately and a refresh is triggered. Persisting the
// selection is the caller's job (it lives in config, not in the cache).
func (o *Orchestrator) SetCity(ctx context.Context, city api.City) error {
	o.mu.Lock()
	o.city = &city
	o.today = nil
	o.mu.Unlock()

	return o.RefreshToday(ctx)
}

// City returns the currently selected city, or nil.
func (o *Orchestrator) City() *api.City {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.city
}

// Today returns the in-memory record currently published for today, or nil.
func (o *Orchestrator) Today() *api.PrayerTimeRecord {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.today
}

// LastError returns the optional user-facing message from the most recent
// failed operation. A successful operation clears it.
func (o *Orchestrator) LastError() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastErr
}

// RefreshToday brings today's (and, when possible, tomorrow's) published
// records up to date, fetching a new monthly batch only when the cache is
// invalid for the current month and city.
func (o *Orchestrator) RefreshToday(ctx context.Context) error {
	now := o.now()

	o.mu.Lock()
	city := o.city
	memToday := o.today
	o.mu.Unlock()

	if city == nil {
		o.setErr(ErrNoLocationSelected.Error())
		return ErrNoLocationSelected
	}

	// Degraded mode: no credentials means no network calls at all, but the
	// widget still gets something to render. Not surfaced as an error.
	if !o.client.HasCredentials() {
		ph := api.PlaceholderRecord(now)
		o.setToday(&ph)
		o.publish(ctx, city.Name, &ph, nil, nil)
		o.clearErr()
		return nil
	}

	entry := o.cache.Load()
	todayRec := entry.Lookup(now)
	valid := entry.Valid(now, city.ID) && todayRec != nil

	// Idempotent fast path: already holding today's record and the cache
	// still backs it.
	if valid && memToday != nil && memToday.GregorianDateShort == timefmt.DateKey(now) {
		return nil
	}

	if valid {
		tomorrowRec := entry.Lookup(now.AddDate(0, 0, 1))
		o.setToday(todayRec)
		o.publish(ctx, city.Name, todayRec, tomorrowRec, entry.Records)
		o.clearErr()
		if tomorrowRec == nil {
			o.monthBoundaryRefetch(ctx, city, todayRec, entry.Records, now)
		}
		return nil
	}

	// Cache miss: fetch a fresh month and overwrite the cache wholesale.
	records, err := o.client.FetchMonthlyTimes(ctx, city.ID)
	if err != nil {
		o.log.Error().Err(err).Int("city_id", city.ID).Msg("monthly fetch failed")
		ph := api.PlaceholderRecord(now)
		o.setToday(&ph)
		o.publish(ctx, city.Name, &ph, nil, nil)
		o.setErr(err.Error())
		return err
	}

	fresh := &cache.MonthlyEntry{
		MonthStamp: timefmt.MonthStamp(now),
		CityID:     city.ID,
		Records:    records,
	}
	if err := o.cache.Save(fresh); err != nil {
		// A failed cache write only costs a refetch next time.
		o.log.Warn().Err(err).Msg("failed to persist monthly cache")
	}

	todayRec = fresh.Lookup(now)
	if todayRec == nil {
		// Service data error: the current-month window does not cover
		// today. Publish the placeholder as a safe fallback.
		o.log.Warn().Str("date", timefmt.DateKey(now)).Msg("today missing from service batch")
		ph := api.PlaceholderRecord(now)
		todayRec = &ph
	}
	tomorrowRec := fresh.Lookup(now.AddDate(0, 0, 1))

	o.setToday(todayRec)
	o.publish(ctx, city.Name, todayRec, tomorrowRec, records)
	o.clearErr()

	if tomorrowRec == nil {
		o.monthBoundaryRefetch(ctx, city, todayRec, records, now)
	}
	return nil
}

// monthBoundaryRefetch issues the one supplementary live fetch when tomorrow
// falls outside the held batch. Failures are logged and swallowed: today's
// data is already published and usable.
func (o *Orchestrator) monthBoundaryRefetch(ctx context.Context, city *api.City, todayRec *api.PrayerTimeRecord, month []api.PrayerTimeRecord, now time.Time) {
	tomorrow := now.AddDate(0, 0, 1)

	records, err := o.client.FetchMonthlyTimes(ctx, city.ID)
	if err != nil {
		o.log.Warn().Err(err).Str("event", "month_boundary_refetch").Msg("supplementary fetch failed")
		return
	}

	next := &cache.MonthlyEntry{Records: records}
	tomorrowRec := next.Lookup(tomorrow)
	if tomorrowRec == nil {
		// The service window has not rolled over yet.
		o.log.Debug().Str("event", "month_boundary_refetch").Str("date", timefmt.DateKey(tomorrow)).Msg("tomorrow not in service window")
		return
	}

	o.publish(ctx, city.Name, todayRec, tomorrowRec, month)
}

// publish writes the snapshot to the shared store and pings the widget.
func (o *Orchestrator) publish(ctx context.Context, cityName string, today, tomorrow *api.PrayerTimeRecord, month []api.PrayerTimeRecord) {
	snap := &widgetstore.Snapshot{
		CityName: cityName,
		Today:    today,
		Tomorrow: tomorrow,
		Month:    month,
	}
	if err := o.store.Publish(ctx, snap); err != nil {
		o.log.Warn().Err(err).Msg("failed to publish widget snapshot")
		return
	}
	if o.notify != nil {
		o.notify()
	}
}

func (o *Orchestrator) setToday(rec *api.PrayerTimeRecord) {
	o.mu.Lock()
	o.today = rec
	o.mu.Unlock()
}

func (o *Orchestrator) setErr(msg string) {
	o.mu.Lock()
	o.lastErr = msg
	o.mu.Unlock()
}

func (o *Orchestrator) clearErr() {
	o.mu.Lock()
	o.lastErr = ""
	o.mu.Unlock()
}

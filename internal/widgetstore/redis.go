package widgetstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"vakit/internal/api"
)

// Keys written to Redis. The city name is a plain string; the rest are JSON.
const (
	keyCity     = "vakit:city"
	keyToday    = "vakit:today"
	keyTomorrow = "vakit:tomorrow"
	keyMonth    = "vakit:month"
)

// RedisStore publishes the snapshot to a Redis instance, for setups where
// the widget polls a local Redis instead of the filesystem.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore connects to the given Redis address.
func NewRedisStore(addr, username, password string) *RedisStore {
	return &RedisStore{
		rdb: redis.NewClient(&redis.Options{
			Addr:     addr,
			Username: username,
			Password: password,
			DB:       0,
		}),
	}
}

// Publish writes all four keys. Optional keys are deleted when absent so a
// month rollover cannot leave a stale tomorrow behind.
func (s *RedisStore) Publish(ctx context.Context, snap *Snapshot) error {
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, keyCity, snap.CityName, 0)

	if err := setJSON(ctx, pipe, keyToday, snap.Today); err != nil {
		return err
	}
	if err := setJSON(ctx, pipe, keyTomorrow, snap.Tomorrow); err != nil {
		return err
	}
	if len(snap.Month) > 0 {
		data, err := json.Marshal(snap.Month)
		if err != nil {
			return fmt.Errorf("failed to marshal month batch: %w", err)
		}
		pipe.Set(ctx, keyMonth, data, 0)
	} else {
		pipe.Del(ctx, keyMonth)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to publish snapshot: %w", err)
	}
	return nil
}

func setJSON(ctx context.Context, pipe redis.Pipeliner, key string, rec *api.PrayerTimeRecord) error {
	if rec == nil {
		pipe.Del(ctx, key)
		return nil
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	pipe.Set(ctx, key, data, 0)
	return nil
}

// Read assembles a snapshot from the stored keys. Missing today means no
// snapshot has been published.
func (s *RedisStore) Read(ctx context.Context) (*Snapshot, error) {
	todayRaw, err := s.rdb.Get(ctx, keyToday).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap Snapshot
	var today api.PrayerTimeRecord
	if err := json.Unmarshal(todayRaw, &today); err != nil {
		return nil, fmt.Errorf("failed to decode today record: %w", err)
	}
	snap.Today = &today

	snap.CityName, _ = s.rdb.Get(ctx, keyCity).Result()

	if raw, err := s.rdb.Get(ctx, keyTomorrow).Bytes(); err == nil {
		var tomorrow api.PrayerTimeRecord
		if json.Unmarshal(raw, &tomorrow) == nil {
			snap.Tomorrow = &tomorrow
		}
	}
	if raw, err := s.rdb.Get(ctx, keyMonth).Bytes(); err == nil {
		var month []api.PrayerTimeRecord
		if json.Unmarshal(raw, &month) == nil {
			snap.Month = month
		}
	}

	return &snap, nil
}

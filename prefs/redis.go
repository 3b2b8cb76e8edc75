package prefs

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// HashClient is the subset of *redis.Client used to persist a store as a
// single Redis hash
type HashClient interface {
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
	HSet(ctx context.Context, key string, values ...any) *redis.IntCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// LoadRedis reads the hash at key into a new MapStore. Fields stay strings
// and are parsed by the typed getters.
func LoadRedis(ctx context.Context, c HashClient, key string) (*MapStore, error) {
	fields, err := c.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("loading preferences from %s: %w", key, err)
	}

	values := make(map[string]any, len(fields))
	for k, v := range fields {
		values[k] = v
	}
	return NewMapStore(values), nil
}

// SaveRedis replaces the hash at key with the contents of s
func SaveRedis(ctx context.Context, c HashClient, key string, s *MapStore) error {
	snapshot := s.Snapshot()
	fields := make(map[string]any, len(snapshot))
	for k, v := range snapshot {
		str, err := formatValue(v)
		if err != nil {
			return fmt.Errorf("formatting %s: %w", k, err)
		}
		fields[k] = str
	}

	if err := c.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("clearing %s: %w", key, err)
	}
	if len(fields) == 0 {
		return nil
	}
	if err := c.HSet(ctx, key, fields).Err(); err != nil {
		return fmt.Errorf("saving preferences to %s: %w", key, err)
	}
	return nil
}

package prefs

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHash struct {
	data    map[string]map[string]string
	failGet error
}

func newFakeHash() *fakeHash {
	return &fakeHash{data: make(map[string]map[string]string)}
}

func (f *fakeHash) HGetAll(_ context.Context, key string) *redis.MapStringStringCmd {
	if f.failGet != nil {
		return redis.NewMapStringStringResult(nil, f.failGet)
	}
	out := make(map[string]string)
	for k, v := range f.data[key] {
		out[k] = v
	}
	return redis.NewMapStringStringResult(out, nil)
}

func (f *fakeHash) HSet(_ context.Context, key string, values ...any) *redis.IntCmd {
	h, ok := f.data[key]
	if !ok {
		h = make(map[string]string)
		f.data[key] = h
	}
	var n int64
	for _, arg := range values {
		for k, v := range arg.(map[string]any) {
			h[k] = v.(string)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeHash) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestRedisRoundTrip(t *testing.T) {
	ctx := context.Background()
	client := newFakeHash()
	client.data["prefs:user"] = map[string]string{"stale": "x"}

	s := NewMapStore(map[string]any{
		"a_boolean": true,
		"an_int":    int32(-3),
		"a_long":    int64(1 << 40),
		"a_float":   float32(0.25),
		"name":      "true",
		"tags":      Set("red", "blue"),
	})
	require.NoError(t, SaveRedis(ctx, client, "prefs:user", s))

	stored := client.data["prefs:user"]
	assert.NotContains(t, stored, "stale")
	assert.Equal(t, "-3", stored["an_int"])
	assert.Equal(t, "[blue, red]", stored["tags"])

	loaded, err := LoadRedis(ctx, client, "prefs:user")
	require.NoError(t, err)
	assert.True(t, loaded.Bool("a_boolean", false))
	assert.Equal(t, int32(-3), loaded.Int32("an_int", 0))
	assert.Equal(t, int64(1<<40), loaded.Int64("a_long", 0))
	assert.Equal(t, float32(0.25), loaded.Float32("a_float", 0))
	assert.Equal(t, "true", loaded.String("name", ""))
	assert.Equal(t, Set("blue", "red"), loaded.StringSet("tags", nil))
}

func TestRedisLoadError(t *testing.T) {
	client := newFakeHash()
	client.failGet = errors.New("connection refused")

	_, err := LoadRedis(context.Background(), client, "prefs")
	assert.ErrorContains(t, err, "connection refused")
}

func TestRedisSaveEmpty(t *testing.T) {
	client := newFakeHash()
	require.NoError(t, SaveRedis(context.Background(), client, "prefs", NewMapStore(nil)))
	assert.Empty(t, client.data)
}

var _ HashClient = (*redis.Client)(nil)

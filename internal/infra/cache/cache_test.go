package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryHook answers GET/SET/DEL from a map so no Redis server is needed.
type memoryHook struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
}

func (h *memoryHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h *memoryHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func (h *memoryHook) ProcessHook(_ redis.ProcessHook) redis.ProcessHook {
	return func(_ context.Context, cmd redis.Cmder) error {
		h.mu.Lock()
		defer h.mu.Unlock()

		args := cmd.Args()
		switch c := cmd.(type) {
		case *redis.StringCmd:
			value, ok := h.data[fmt.Sprint(args[1])]
			if !ok {
				c.SetErr(redis.Nil)

				return redis.Nil
			}
			c.SetVal(value)
		case *redis.StatusCmd:
			key := fmt.Sprint(args[1])
			switch value := args[2].(type) {
			case []byte:
				h.data[key] = string(value)
			default:
				h.data[key] = fmt.Sprint(value)
			}
			if len(args) > 4 {
				unit := time.Second
				if fmt.Sprint(args[3]) == "px" {
					unit = time.Millisecond
				}
				h.ttls[key] = time.Duration(args[4].(int64)) * unit
			}
			c.SetVal("OK")
		case *redis.IntCmd:
			var removed int64
			for _, arg := range args[1:] {
				key := fmt.Sprint(arg)
				if _, ok := h.data[key]; ok {
					delete(h.data, key)
					removed++
				}
			}
			c.SetVal(removed)
		default:
			return fmt.Errorf("unexpected command %s", cmd.Name())
		}

		return nil
	}
}

func newTestCache(t *testing.T) (*redisCatalogCache, *memoryHook) {
	t.Helper()

	hook := &memoryHook{data: map[string]string{}, ttls: map[string]time.Duration{}}
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	client.AddHook(hook)
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisCatalogCache(client).(*redisCatalogCache), hook
}

type cachedCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestRedisCatalogCache_RoundTrip(t *testing.T) {
	cache, hook := newTestCache(t)
	ctx := context.Background()

	var miss []cachedCategory
	found, err := cache.Get(ctx, "categories", &miss)
	require.NoError(t, err)
	assert.False(t, found)

	want := []cachedCategory{{ID: "1", Name: "Shoes"}}
	require.NoError(t, cache.Set(ctx, "categories", want, time.Minute))
	assert.Contains(t, hook.data, keyPrefix+"categories")
	assert.Equal(t, time.Minute, hook.ttls[keyPrefix+"categories"])

	var got []cachedCategory
	found, err = cache.Get(ctx, "categories", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)

	require.NoError(t, cache.Delete(ctx, "categories"))
	found, err = cache.Get(ctx, "categories", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCatalogCache_CorruptValue(t *testing.T) {
	cache, hook := newTestCache(t)
	hook.data[keyPrefix+"categories"] = "{not json"

	var got []cachedCategory
	found, err := cache.Get(context.Background(), "categories", &got)
	assert.Error(t, err)
	assert.False(t, found)
}

func TestNoopCatalogCache(t *testing.T) {
	cache := NewNoopCatalogCache()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", "v", time.Minute))
	var got string
	found, err := cache.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, cache.Delete(ctx, "k"))
}

// Package toolutil provides shared helpers for the MCP tools.
package toolutil

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/anatolykoptev/go_yt2text/internal/engine"
)

// CacheLoadJSON tries to load a cached value of type T.
// Returns the decoded value and true on hit; zero value and false on miss or decode error.
func CacheLoadJSON[T any](ctx context.Context, cache *engine.Cache, key string) (T, bool) {
	var zero T
	data, ok := cache.Get(ctx, key)
	if !ok {
		return zero, false
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		slog.Debug("toolutil: cached value undecodable", slog.String("key", key), slog.Any("error", err))
		return zero, false
	}
	return out, true
}

// CacheStoreJSON marshals v and stores it under key.
func CacheStoreJSON[T any](ctx context.Context, cache *engine.Cache, key string, v T) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	cache.Set(ctx, key, data)
}

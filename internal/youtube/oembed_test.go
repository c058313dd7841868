package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/anatolykoptev/go_yt2text/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOEmbedServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, WatchURL("dQw4w9WgXcQ"), r.URL.Query().Get("url"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestOEmbedCheckPublic(t *testing.T) {
	srv, _ := newOEmbedServer(t, http.StatusOK, `{"title":"Never Gonna Give You Up","author_name":"Rick Astley"}`)
	c := NewOEmbedChecker(srv.Client(), nil)
	c.endpoint = srv.URL

	meta, err := c.Check(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "Never Gonna Give You Up", meta.Title)
	assert.Equal(t, "Rick Astley", meta.AuthorName)
}

func TestOEmbedCheckDenied(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			srv, _ := newOEmbedServer(t, status, "Unauthorized")
			c := NewOEmbedChecker(srv.Client(), nil)
			c.endpoint = srv.URL

			_, err := c.Check(context.Background(), "dQw4w9WgXcQ")
			require.Error(t, err)
			assert.Equal(t, engine.KindAccessDenied, engine.KindOf(err))
		})
	}
}

func TestOEmbedCheckUnparseableBody(t *testing.T) {
	srv, _ := newOEmbedServer(t, http.StatusOK, "<html>")
	c := NewOEmbedChecker(srv.Client(), nil)
	c.endpoint = srv.URL

	meta, err := c.Check(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Empty(t, meta.Title)
}

func TestOEmbedCheckCachesSuccessOnly(t *testing.T) {
	ctx := context.Background()
	cache := engine.NewCache(ctx, "", time.Minute, 10)

	srv, hits := newOEmbedServer(t, http.StatusOK, `{"title":"cached"}`)
	c := NewOEmbedChecker(srv.Client(), cache)
	c.endpoint = srv.URL

	for range 3 {
		meta, err := c.Check(ctx, "dQw4w9WgXcQ")
		require.NoError(t, err)
		assert.Equal(t, "cached", meta.Title)
	}
	assert.Equal(t, int64(1), hits.Load())

	denied, deniedHits := newOEmbedServer(t, http.StatusNotFound, "")
	d := NewOEmbedChecker(denied.Client(), engine.NewCache(ctx, "", time.Minute, 10))
	d.endpoint = denied.URL
	for range 2 {
		_, err := d.Check(ctx, "dQw4w9WgXcQ")
		require.Error(t, err)
	}
	assert.Equal(t, int64(2), deniedHits.Load())
}

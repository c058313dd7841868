package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/anatolykoptev/go_yt2text/internal/engine"
)

const ytOEmbedURL = "https://www.youtube.com/oembed"

// OEmbed is the subset of the oEmbed response the pipeline reports.
type OEmbed struct {
	Title      string `json:"title"`
	AuthorName string `json:"author_name"`
	AuthorURL  string `json:"author_url,omitempty"`
}

// OEmbedChecker gates downloads on public accessibility. The oEmbed endpoint
// answers 401/403/404 for private, removed, or embed-disabled videos. It does
// not flag age-restricted ones; see PlayerProbe.
type OEmbedChecker struct {
	client   *http.Client
	cache    *engine.Cache
	endpoint string
}

// NewOEmbedChecker creates a checker. cache may be nil.
func NewOEmbedChecker(client *http.Client, cache *engine.Cache) *OEmbedChecker {
	if client == nil {
		client = http.DefaultClient
	}
	return &OEmbedChecker{client: client, cache: cache, endpoint: ytOEmbedURL}
}

// Check returns the video's oEmbed metadata, or an AccessDenied error when the
// endpoint reports a non-success status. Only successful verdicts are cached.
func (c *OEmbedChecker) Check(ctx context.Context, videoID string) (*OEmbed, error) {
	key := engine.CacheKey("oembed", videoID)
	if data, ok := c.cache.Get(ctx, key); ok {
		var meta OEmbed
		if json.Unmarshal(data, &meta) == nil {
			return &meta, nil
		}
	}

	engine.IncrOEmbedChecks()
	q := url.Values{}
	q.Set("url", WatchURL(videoID))
	q.Set("format", "json")
	reqURL := c.endpoint + "?" + q.Encode()

	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", engine.RandomUserAgent())
		return c.client.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("oembed check %s: %w", videoID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		engine.IncrOEmbedDenied()
		slog.Info("oembed: video not publicly accessible",
			slog.String("video_id", videoID), slog.Int("status", resp.StatusCode))
		return nil, engine.Errorf(engine.KindAccessDenied,
			"Video is not publicly accessible (oEmbed status %d)", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return nil, fmt.Errorf("oembed read %s: %w", videoID, err)
	}
	var meta OEmbed
	if err := json.Unmarshal(data, &meta); err != nil {
		// Reachable but unparseable still counts as public.
		slog.Debug("oembed: decode failed", slog.String("video_id", videoID), slog.Any("error", err))
		return &OEmbed{}, nil
	}
	c.cache.Set(ctx, key, data)
	return &meta, nil
}

package engine

import (
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/env"
)

// Config holds all pipeline configuration, injected from main.
type Config struct {
	AudioBucket        string
	AudioKeyPrefix     string
	TranscribeLanguage string
	TranscriptBucket   string // empty = service-managed transcript location
	DownloadRetries    int
	FetchTimeout       time.Duration
	TempDir            string // empty = os.TempDir()
	RedisURL           string // empty = L2 cache disabled
	OEmbedCacheTTL     time.Duration
	UploadCacheTTL     time.Duration
	CacheMaxEntries    int
	CORSAllowOrigins   []string
	HTTPClient         *http.Client
}

// ConfigFromEnv reads the pipeline configuration from the environment.
func ConfigFromEnv() Config {
	timeout := env.Duration("FETCH_TIMEOUT", 15*time.Second)
	return Config{
		AudioBucket:        env.Str("AUDIO_BUCKET", ""),
		AudioKeyPrefix:     env.Str("AUDIO_KEY_PREFIX", ""),
		TranscribeLanguage: env.Str("TRANSCRIBE_LANGUAGE", "en-US"),
		TranscriptBucket:   env.Str("TRANSCRIPT_BUCKET", ""),
		DownloadRetries:    env.Int("DOWNLOAD_RETRIES", 3),
		FetchTimeout:       timeout,
		TempDir:            env.Str("AUDIO_TMP_DIR", ""),
		RedisURL:           env.Str("REDIS_URL", ""),
		OEmbedCacheTTL:     env.Duration("OEMBED_CACHE_TTL", 10*time.Minute),
		UploadCacheTTL:     env.Duration("UPLOAD_CACHE_TTL", 24*time.Hour),
		CacheMaxEntries:    env.Int("CACHE_MAX_ENTRIES", 500),
		CORSAllowOrigins:   env.List("CORS_ALLOW_ORIGINS", "*"),
		HTTPClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 5,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}
}

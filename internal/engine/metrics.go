package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the pipeline.
var metrics struct {
	OEmbedChecks           atomic.Int64
	OEmbedDenied           atomic.Int64
	PlayerProbes           atomic.Int64
	DownloadRequests       atomic.Int64
	DownloadAttempts       atomic.Int64
	DownloadErrors         atomic.Int64
	Uploads                atomic.Int64
	UploadErrors           atomic.Int64
	TranscriptionStarts    atomic.Int64
	TranscriptionConflicts atomic.Int64
	TranscriptionErrors    atomic.Int64
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"oembed_checks":           metrics.OEmbedChecks.Load(),
		"oembed_denied":           metrics.OEmbedDenied.Load(),
		"player_probes":           metrics.PlayerProbes.Load(),
		"download_requests":       metrics.DownloadRequests.Load(),
		"download_attempts":       metrics.DownloadAttempts.Load(),
		"download_errors":         metrics.DownloadErrors.Load(),
		"uploads":                 metrics.Uploads.Load(),
		"upload_errors":           metrics.UploadErrors.Load(),
		"transcription_starts":    metrics.TranscriptionStarts.Load(),
		"transcription_conflicts": metrics.TranscriptionConflicts.Load(),
		"transcription_errors":    metrics.TranscriptionErrors.Load(),
		"cache_hits":              hits,
		"cache_misses":            misses,
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	keys := []string{
		"oembed_checks", "oembed_denied", "player_probes",
		"download_requests", "download_attempts", "download_errors",
		"uploads", "upload_errors",
		"transcription_starts", "transcription_conflicts", "transcription_errors",
		"cache_hits", "cache_misses",
	}
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for the youtube sub-package.
func IncrOEmbedChecks()     { metrics.OEmbedChecks.Add(1) }
func IncrOEmbedDenied()     { metrics.OEmbedDenied.Add(1) }
func IncrPlayerProbes()     { metrics.PlayerProbes.Add(1) }
func IncrDownloadRequests() { metrics.DownloadRequests.Add(1) }
func IncrDownloadAttempts() { metrics.DownloadAttempts.Add(1) }
func IncrDownloadErrors()   { metrics.DownloadErrors.Add(1) }

// Incrementors for storage and transcription.
func IncrUploads()                { metrics.Uploads.Add(1) }
func IncrUploadErrors()           { metrics.UploadErrors.Add(1) }
func IncrTranscriptionStarts()    { metrics.TranscriptionStarts.Add(1) }
func IncrTranscriptionConflicts() { metrics.TranscriptionConflicts.Add(1) }
func IncrTranscriptionErrors()    { metrics.TranscriptionErrors.Add(1) }

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, threshold time.Duration, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > threshold {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}

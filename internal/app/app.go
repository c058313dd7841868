// Package app builds the pipeline stages from configuration and AWS clients.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/anatolykoptev/go_yt2text/internal/engine"
	"github.com/anatolykoptev/go_yt2text/internal/pipeline"
	"github.com/anatolykoptev/go_yt2text/internal/storage"
	"github.com/anatolykoptev/go_yt2text/internal/transcription"
	"github.com/anatolykoptev/go_yt2text/internal/youtube"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awstranscribe "github.com/aws/aws-sdk-go-v2/service/transcribe"
)

// LoadAWS resolves credentials and region from the standard AWS chain.
func LoadAWS(ctx context.Context) (aws.Config, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return cfg, nil
}

// NewDownloader wires the download stage: oEmbed gate (cached), media
// client, player probe and S3 uploader.
func NewDownloader(ctx context.Context, cfg engine.Config, awsCfg aws.Config) *pipeline.Downloader {
	probeClient := cfg.HTTPClient
	if probeClient == nil {
		probeClient = &http.Client{Timeout: cfg.FetchTimeout}
	}
	cache := engine.NewCache(ctx, cfg.RedisURL, cfg.OEmbedCacheTTL, cfg.CacheMaxEntries)

	// Streams may run for minutes; only the probes get an overall timeout.
	media := youtube.NewMediaClient(&http.Client{Transport: probeClient.Transport})

	fetcher := youtube.NewFetcher(
		media,
		youtube.NewOEmbedChecker(probeClient, cache),
		youtube.NewPlayerProbe(probeClient),
		youtube.WithMaxTries(cfg.DownloadRetries),
	)
	uploader := storage.NewUploader(s3.NewFromConfig(awsCfg))

	slog.Debug("download stage ready",
		slog.String("bucket", cfg.AudioBucket),
		slog.String("prefix", cfg.AudioKeyPrefix),
		slog.Int("retries", cfg.DownloadRetries),
	)
	return pipeline.NewDownloader(fetcher, uploader, cfg.AudioBucket, cfg.AudioKeyPrefix, cfg.TempDir)
}

// NewTranscriber wires the transcribe stage.
func NewTranscriber(cfg engine.Config, awsCfg aws.Config) *pipeline.Transcriber {
	trigger := transcription.NewTrigger(awstranscribe.NewFromConfig(awsCfg), cfg.TranscribeLanguage, cfg.TranscriptBucket)
	return pipeline.NewTranscriber(trigger)
}

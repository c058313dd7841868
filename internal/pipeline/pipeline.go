// Package pipeline implements the two invocable stages: download
// (resolve, fetch, upload) and transcribe (start the managed job).
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/anatolykoptev/go_yt2text/internal/engine"
	"github.com/anatolykoptev/go_yt2text/internal/storage"
	"github.com/anatolykoptev/go_yt2text/internal/transcription"
	"github.com/anatolykoptev/go_yt2text/internal/youtube"
)

type audioFetcher interface {
	Fetch(ctx context.Context, videoID, destDir string) (*youtube.Artifact, error)
}

type audioUploader interface {
	Upload(ctx context.Context, path, bucket, prefix string) (storage.Location, error)
}

type jobStarter interface {
	Start(ctx context.Context, s3URI, videoID string) (*transcription.Job, error)
}

// DownloadResult is the success payload of the download stage.
type DownloadResult struct {
	Message string `json:"message"`
	VideoID string `json:"video_id"`
	S3URI   string `json:"s3_uri"`
}

// TranscribeResult is the success payload of the transcribe stage.
type TranscribeResult struct {
	Message string             `json:"message"`
	Job     *transcription.Job `json:"job"`
}

// Downloader runs resolve → fetch → upload inside one scoped temp dir.
type Downloader struct {
	fetcher  audioFetcher
	uploader audioUploader
	bucket   string
	prefix   string
	tempRoot string
}

// NewDownloader creates the download stage. tempRoot may be empty for os.TempDir().
func NewDownloader(fetcher audioFetcher, uploader audioUploader, bucket, prefix, tempRoot string) *Downloader {
	return &Downloader{fetcher: fetcher, uploader: uploader, bucket: bucket, prefix: prefix, tempRoot: tempRoot}
}

// Run processes one YouTube URL. The temp dir holding the artifact is removed
// on every return path.
func (d *Downloader) Run(ctx context.Context, youtubeURL string) (*DownloadResult, error) {
	if youtubeURL == "" {
		return nil, engine.Errorf(engine.KindMissingField, "youtube_url required")
	}
	videoID, err := youtube.ExtractVideoID(youtubeURL)
	if err != nil {
		return nil, err
	}
	if d.bucket == "" {
		return nil, errors.New("AUDIO_BUCKET not configured")
	}

	dir, err := os.MkdirTemp(d.tempRoot, "yt2text-")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			slog.Warn("download: temp cleanup failed", slog.String("dir", dir), slog.Any("error", rmErr))
		}
	}()

	var loc storage.Location
	err = engine.TrackOperation(ctx, "download_"+videoID, 30*time.Second, func(ctx context.Context) error {
		art, err := d.fetcher.Fetch(ctx, videoID, dir)
		if err != nil {
			return err
		}
		loc, err = d.uploader.Upload(ctx, art.Path, d.bucket, d.prefix)
		return err
	})
	if err != nil {
		slog.Warn("download: failed", slog.String("video_id", videoID),
			slog.String("kind", string(engine.KindOf(err))), slog.Any("error", err))
		return nil, err
	}

	return &DownloadResult{
		Message: "Audio uploaded successfully",
		VideoID: videoID,
		S3URI:   loc.URI(),
	}, nil
}

// Transcriber runs the transcribe stage.
type Transcriber struct {
	starter jobStarter
}

// NewTranscriber creates the transcribe stage.
func NewTranscriber(starter jobStarter) *Transcriber {
	return &Transcriber{starter: starter}
}

// Run starts (or finds) the transcription job for the stored audio.
func (t *Transcriber) Run(ctx context.Context, s3URI, videoID string) (*TranscribeResult, error) {
	if s3URI == "" || videoID == "" {
		return nil, engine.Errorf(engine.KindMissingField, "s3_uri and video_id required")
	}
	job, err := t.starter.Start(ctx, s3URI, videoID)
	if err != nil {
		slog.Warn("transcribe: failed", slog.String("video_id", videoID),
			slog.String("kind", string(engine.KindOf(err))), slog.Any("error", err))
		return nil, err
	}
	return &TranscribeResult{Message: "Transcription job started", Job: job}, nil
}

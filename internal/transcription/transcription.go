// Package transcription starts Amazon Transcribe jobs for stored audio.
package transcription

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/anatolykoptev/go_yt2text/internal/engine"
	"github.com/anatolykoptev/go_yt2text/internal/storage"
	"github.com/aws/aws-sdk-go-v2/aws"
	awstranscribe "github.com/aws/aws-sdk-go-v2/service/transcribe"
	"github.com/aws/aws-sdk-go-v2/service/transcribe/types"
)

// DefaultLanguage is used when no language code is configured.
const DefaultLanguage = "en-US"

// videoIDTag is the tag key carrying the originating video ID.
const videoIDTag = "VideoId"

// API is the subset of the Transcribe client used here.
type API interface {
	StartTranscriptionJob(ctx context.Context, params *awstranscribe.StartTranscriptionJobInput, optFns ...func(*awstranscribe.Options)) (*awstranscribe.StartTranscriptionJobOutput, error)
	GetTranscriptionJob(ctx context.Context, params *awstranscribe.GetTranscriptionJobInput, optFns ...func(*awstranscribe.Options)) (*awstranscribe.GetTranscriptionJobOutput, error)
}

// Job is the caller-visible state of a transcription job.
type Job struct {
	Name    string    `json:"name"`
	Status  string    `json:"status"`
	Created time.Time `json:"created"`
	VideoID string    `json:"video_id"`
}

// supportedFormats lists the container extensions Transcribe accepts.
var supportedFormats = map[string]bool{
	"mp3":  true,
	"mp4":  true,
	"wav":  true,
	"flac": true,
	"ogg":  true,
	"amr":  true,
	"webm": true,
	"m4a":  true,
}

// MediaFormat returns the Transcribe media format for an object key.
func MediaFormat(key string) (types.MediaFormat, error) {
	ext := storage.Location{Key: key}.Ext()
	if !supportedFormats[ext] {
		return "", engine.Errorf(engine.KindUnsupportedFormat, "Unsupported audio format: %s", ext)
	}
	return types.MediaFormat(ext), nil
}

// JobName derives the job name from a video ID. Equal IDs give equal names,
// which is what makes Start idempotent.
func JobName(videoID string) string {
	return "transcribe-" + videoID
}

// Trigger starts transcription jobs.
type Trigger struct {
	api          API
	language     string
	outputBucket string
}

// NewTrigger creates a trigger. An empty language selects DefaultLanguage;
// an empty outputBucket leaves transcripts in service-managed storage.
func NewTrigger(api API, language, outputBucket string) *Trigger {
	if language == "" {
		language = DefaultLanguage
	}
	return &Trigger{api: api, language: language, outputBucket: outputBucket}
}

// Start begins a job for the audio at s3URI. When a job with the derived name
// already exists its current state is returned instead.
func (t *Trigger) Start(ctx context.Context, s3URI, videoID string) (*Job, error) {
	loc, err := storage.ParseURI(s3URI)
	if err != nil {
		return nil, err
	}
	format, err := MediaFormat(loc.Key)
	if err != nil {
		return nil, err
	}

	name := JobName(videoID)
	input := &awstranscribe.StartTranscriptionJobInput{
		TranscriptionJobName: aws.String(name),
		Media:                &types.Media{MediaFileUri: aws.String(loc.URI())},
		MediaFormat:          format,
		LanguageCode:         types.LanguageCode(t.language),
		Tags:                 []types.Tag{{Key: aws.String(videoIDTag), Value: aws.String(videoID)}},
	}
	if t.outputBucket != "" {
		input.OutputBucketName = aws.String(t.outputBucket)
	}

	engine.IncrTranscriptionStarts()
	out, err := t.api.StartTranscriptionJob(ctx, input)
	if err == nil {
		slog.Info("transcription: job started", slog.String("job", name), slog.String("media", loc.URI()))
		return toJob(out.TranscriptionJob, name, videoID), nil
	}

	var conflict *types.ConflictException
	if !errors.As(err, &conflict) {
		engine.IncrTranscriptionErrors()
		return nil, engine.Wrap(engine.KindTranscriptionStartFailed, err, "Failed to start transcription")
	}

	engine.IncrTranscriptionConflicts()
	slog.Info("transcription: job exists, fetching state", slog.String("job", name))
	got, err := t.api.GetTranscriptionJob(ctx, &awstranscribe.GetTranscriptionJobInput{
		TranscriptionJobName: aws.String(name),
	})
	if err != nil {
		engine.IncrTranscriptionErrors()
		return nil, engine.Wrap(engine.KindTranscriptionStartFailed, err, "Failed to start transcription")
	}
	return toJob(got.TranscriptionJob, name, videoID), nil
}

func toJob(j *types.TranscriptionJob, name, videoID string) *Job {
	job := &Job{Name: name, VideoID: videoID}
	if j == nil {
		return job
	}
	if j.TranscriptionJobName != nil {
		job.Name = *j.TranscriptionJobName
	}
	job.Status = string(j.TranscriptionJobStatus)
	if j.CreationTime != nil {
		job.Created = j.CreationTime.UTC()
	}
	return job
}

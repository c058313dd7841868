package jobserver

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/anatolykoptev/go_yt2text/internal/engine"
	"github.com/anatolykoptev/go_yt2text/internal/pipeline"
	"github.com/anatolykoptev/go_yt2text/internal/toolutil"
	"github.com/anatolykoptev/go_yt2text/internal/youtube"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type downloadStage interface {
	Run(ctx context.Context, youtubeURL string) (*pipeline.DownloadResult, error)
}

type transcribeStage interface {
	Run(ctx context.Context, s3URI, videoID string) (*pipeline.TranscribeResult, error)
}

// Deps are the pipeline stages the tools call into.
type Deps struct {
	Download   downloadStage
	Transcribe transcribeStage
	// Cache remembers uploads so a repeated fetch of the same video returns
	// the stored object instead of downloading again. May be nil.
	Cache *engine.Cache
}

// AudioFetchInput is the input of youtube_audio_fetch.
type AudioFetchInput struct {
	URL   string `json:"url" jsonschema:"YouTube watch or youtu.be URL"`
	Force bool   `json:"force,omitempty" jsonschema:"Download again even if the audio was uploaded recently"`
}

// TranscriptionStartInput is the input of transcription_start.
type TranscriptionStartInput struct {
	S3URI   string `json:"s3_uri" jsonschema:"s3://bucket/key of the uploaded audio"`
	VideoID string `json:"video_id" jsonschema:"YouTube video ID; the job is named transcribe-<video_id>"`
}

// TranscriptionStartOutput is the output of transcription_start.
type TranscriptionStartOutput struct {
	Message string `json:"message"`
	JobName string `json:"job_name"`
	Status  string `json:"status"`
	Created string `json:"created,omitempty"`
	VideoID string `json:"video_id"`
}

// RegisterTools registers the pipeline tools on the given MCP server:
// youtube_audio_fetch, transcription_start.
func RegisterTools(server *mcp.Server, deps Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_audio_fetch",
		Description: "Download the best available audio track of a YouTube video and upload it to S3. Returns the video ID and the s3:// URI of the stored audio.",
	}, audioFetchHandler(deps.Download, deps.Cache))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "transcription_start",
		Description: "Start an Amazon Transcribe job for audio stored in S3. Idempotent per video: if the job already exists its current state is returned.",
	}, transcriptionStartHandler(deps.Transcribe))
}

type audioFetchFunc = func(context.Context, *mcp.CallToolRequest, AudioFetchInput) (*mcp.CallToolResult, *pipeline.DownloadResult, error)

func audioFetchHandler(stage downloadStage, cache *engine.Cache) audioFetchFunc {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AudioFetchInput) (*mcp.CallToolResult, *pipeline.DownloadResult, error) {
		url := strings.TrimSpace(input.URL)
		if url == "" {
			return nil, nil, errors.New("url is required")
		}
		videoID, err := youtube.ExtractVideoID(url)
		if err != nil {
			return nil, nil, err
		}

		cacheKey := engine.CacheKey("audio_fetch", videoID)
		if !input.Force {
			if out, ok := toolutil.CacheLoadJSON[pipeline.DownloadResult](ctx, cache, cacheKey); ok {
				slog.Debug("youtube_audio_fetch: cached", slog.String("video_id", videoID))
				return nil, &out, nil
			}
		}

		res, err := stage.Run(ctx, url)
		if err != nil {
			return nil, nil, err
		}
		toolutil.CacheStoreJSON(ctx, cache, cacheKey, *res)
		return nil, res, nil
	}
}

type transcriptionStartFunc = func(context.Context, *mcp.CallToolRequest, TranscriptionStartInput) (*mcp.CallToolResult, *TranscriptionStartOutput, error)

func transcriptionStartHandler(stage transcribeStage) transcriptionStartFunc {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input TranscriptionStartInput) (*mcp.CallToolResult, *TranscriptionStartOutput, error) {
		s3URI, videoID := strings.TrimSpace(input.S3URI), strings.TrimSpace(input.VideoID)
		if s3URI == "" {
			return nil, nil, errors.New("s3_uri is required")
		}
		if videoID == "" {
			return nil, nil, errors.New("video_id is required")
		}
		res, err := stage.Run(ctx, s3URI, videoID)
		if err != nil {
			return nil, nil, err
		}
		out := &TranscriptionStartOutput{
			Message: res.Message,
			JobName: res.Job.Name,
			Status:  res.Job.Status,
			VideoID: res.Job.VideoID,
		}
		if !res.Job.Created.IsZero() {
			out.Created = res.Job.Created.Format(time.RFC3339)
		}
		return nil, out, nil
	}
}

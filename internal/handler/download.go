package handler

import (
	"context"
	"net/http"

	"github.com/anatolykoptev/go_yt2text/internal/pipeline"
	"github.com/aws/aws-lambda-go/events"
)

// httpAPIContext is the part of an HTTP API (v2) request context we read.
type httpAPIContext struct {
	HTTP struct {
		Method string `json:"method"`
	} `json:"http"`
}

// DownloadEvent accepts a direct invocation ({"youtube_url": ...}) and an API
// Gateway proxy request whose body carries the same JSON.
type DownloadEvent struct {
	YoutubeURL      string         `json:"youtube_url"`
	HTTPMethod      string         `json:"httpMethod,omitempty"`
	Body            string         `json:"body,omitempty"`
	IsBase64Encoded bool           `json:"isBase64Encoded,omitempty"`
	RequestContext  httpAPIContext `json:"requestContext"`
}

type downloadStage interface {
	Run(ctx context.Context, youtubeURL string) (*pipeline.DownloadResult, error)
}

// Download handles download-audio invocations.
type Download struct {
	stage downloadStage
	cors  CORS
}

// NewDownload creates the download handler.
func NewDownload(stage downloadStage, cors CORS) *Download {
	return &Download{stage: stage, cors: cors}
}

// Handle is the Lambda entry point. The returned error is always nil.
func (h *Download) Handle(ctx context.Context, ev DownloadEvent) (events.APIGatewayProxyResponse, error) {
	if isPreflight(ev.HTTPMethod, ev.RequestContext.HTTP.Method) {
		return h.cors.preflight(), nil
	}

	url := ev.YoutubeURL
	if url == "" {
		var body struct {
			YoutubeURL string `json:"youtube_url"`
		}
		if err := decodeBody(ev.Body, ev.IsBase64Encoded, &body); err != nil {
			return h.cors.errorResponse(err), nil
		}
		url = body.YoutubeURL
	}

	res, err := h.stage.Run(ctx, url)
	if err != nil {
		return h.cors.errorResponse(err), nil
	}
	return h.cors.jsonResponse(http.StatusOK, res), nil
}

package handler

import (
	"context"
	"net/http"

	"github.com/anatolykoptev/go_yt2text/internal/pipeline"
	"github.com/aws/aws-lambda-go/events"
)

// TranscribeEvent carries s3_uri and video_id directly or in a gateway body.
type TranscribeEvent struct {
	S3URI           string         `json:"s3_uri"`
	VideoID         string         `json:"video_id"`
	HTTPMethod      string         `json:"httpMethod,omitempty"`
	Body            string         `json:"body,omitempty"`
	IsBase64Encoded bool           `json:"isBase64Encoded,omitempty"`
	RequestContext  httpAPIContext `json:"requestContext"`
}

type transcribeStage interface {
	Run(ctx context.Context, s3URI, videoID string) (*pipeline.TranscribeResult, error)
}

// Transcribe handles transcribe-audio invocations.
type Transcribe struct {
	stage transcribeStage
	cors  CORS
}

// NewTranscribe creates the transcribe handler.
func NewTranscribe(stage transcribeStage, cors CORS) *Transcribe {
	return &Transcribe{stage: stage, cors: cors}
}

// Handle is the Lambda entry point. The returned error is always nil.
func (h *Transcribe) Handle(ctx context.Context, ev TranscribeEvent) (events.APIGatewayProxyResponse, error) {
	if isPreflight(ev.HTTPMethod, ev.RequestContext.HTTP.Method) {
		return h.cors.preflight(), nil
	}

	s3URI, videoID := ev.S3URI, ev.VideoID
	if s3URI == "" && videoID == "" {
		var body struct {
			S3URI   string `json:"s3_uri"`
			VideoID string `json:"video_id"`
		}
		if err := decodeBody(ev.Body, ev.IsBase64Encoded, &body); err != nil {
			return h.cors.errorResponse(err), nil
		}
		s3URI, videoID = body.S3URI, body.VideoID
	}

	res, err := h.stage.Run(ctx, s3URI, videoID)
	if err != nil {
		return h.cors.errorResponse(err), nil
	}
	return h.cors.jsonResponse(http.StatusOK, res), nil
}

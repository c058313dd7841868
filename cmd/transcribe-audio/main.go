// transcribe-audio starts an Amazon Transcribe job for audio stored in S3.
// Runs as an AWS Lambda function.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/anatolykoptev/go_yt2text/internal/app"
	"github.com/anatolykoptev/go_yt2text/internal/engine"
	"github.com/anatolykoptev/go_yt2text/internal/handler"
	"github.com/aws/aws-lambda-go/lambda"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := engine.ConfigFromEnv()
	awsCfg, err := app.LoadAWS(context.Background())
	if err != nil {
		slog.Error("aws init failed", slog.Any("error", err))
		os.Exit(1)
	}

	h := handler.NewTranscribe(app.NewTranscriber(cfg, awsCfg), handler.CORSFor(cfg.CORSAllowOrigins))
	lambda.Start(h.Handle)
}

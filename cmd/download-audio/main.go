// download-audio resolves a YouTube URL, downloads the best audio-only stream
// and uploads it to S3. Runs as an AWS Lambda function.
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

	ctx := context.Background()
	cfg := engine.ConfigFromEnv()
	awsCfg, err := app.LoadAWS(ctx)
	if err != nil {
		slog.Error("aws init failed", slog.Any("error", err))
		os.Exit(1)
	}

	h := handler.NewDownload(app.NewDownloader(ctx, cfg, awsCfg), handler.CORSFor(cfg.CORSAllowOrigins))
	lambda.Start(h.Handle)
}

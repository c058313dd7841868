// go_yt2text: YouTube audio → S3 → Amazon Transcribe MCP server.
//
// Exposes two MCP tools: youtube_audio_fetch, transcription_start.
// The same stages run as Lambda functions under cmd/.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/anatolykoptev/go_yt2text/internal/app"
	"github.com/anatolykoptev/go_yt2text/internal/engine"
	"github.com/anatolykoptev/go_yt2text/internal/jobserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	version = "dev"
	mcpPort = env.Str("MCP_PORT", "8892")
)

func main() {
	ctx := context.Background()
	cfg := engine.ConfigFromEnv()

	awsCfg, err := app.LoadAWS(ctx)
	if err != nil {
		slog.Error("aws init failed", slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("starting go_yt2text",
		slog.String("port", mcpPort),
		slog.String("bucket", cfg.AudioBucket),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_yt2text",
		Version: version,
	}, nil)

	jobserver.RegisterTools(server, jobserver.Deps{
		Download:   app.NewDownloader(ctx, cfg, awsCfg),
		Transcribe: app.NewTranscriber(cfg, awsCfg),
		Cache:      engine.NewCache(ctx, cfg.RedisURL, cfg.UploadCacheTTL, cfg.CacheMaxEntries),
	})
	slog.Info("tools registered", slog.Int("count", 2))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_yt2text",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 900 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const maxGatewayBody = 1 << 20

// Gateway serves both handlers over plain HTTP the way API Gateway would
// invoke them: the request body is passed through verbatim.
func Gateway(download *Download, transcribe *Transcribe, timeout time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodPost, "/download", proxy(func(ctx context.Context, method, body string) (events.APIGatewayProxyResponse, error) {
		return download.Handle(ctx, DownloadEvent{HTTPMethod: method, Body: body})
	}))
	r.Method(http.MethodOptions, "/download", proxy(func(ctx context.Context, method, body string) (events.APIGatewayProxyResponse, error) {
		return download.Handle(ctx, DownloadEvent{HTTPMethod: method})
	}))
	r.Method(http.MethodPost, "/transcribe", proxy(func(ctx context.Context, method, body string) (events.APIGatewayProxyResponse, error) {
		return transcribe.Handle(ctx, TranscribeEvent{HTTPMethod: method, Body: body})
	}))
	r.Method(http.MethodOptions, "/transcribe", proxy(func(ctx context.Context, method, body string) (events.APIGatewayProxyResponse, error) {
		return transcribe.Handle(ctx, TranscribeEvent{HTTPMethod: method})
	}))
	return r
}

type invokeFunc func(ctx context.Context, method, body string) (events.APIGatewayProxyResponse, error)

func proxy(invoke invokeFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxGatewayBody))
		if err != nil {
			http.Error(w, "read body", http.StatusBadRequest)
			return
		}
		resp, err := invoke(r.Context(), r.Method, string(body))
		if err != nil {
			slog.Error("gateway: handler error", slog.String("path", r.URL.Path), slog.Any("error", err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		for k, v := range resp.Headers {
			w.Header().Set(k, v)
		}
		w.WriteHeader(resp.StatusCode)
		_, _ = io.WriteString(w, resp.Body)
	}
}

// Package handler adapts the pipeline stages to Lambda invocation events.
// Every failure is converted to a structured response here; handlers never
// return an error to the runtime.
package handler

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/anatolykoptev/go_yt2text/internal/engine"
	"github.com/aws/aws-lambda-go/events"
)

// CORS holds the cross-origin headers attached to every response.
type CORS struct {
	AllowOrigin  string
	AllowHeaders string
	AllowMethods string
}

// DefaultCORS is fully permissive.
var DefaultCORS = CORS{
	AllowOrigin:  "*",
	AllowHeaders: "Content-Type,Authorization,X-Amz-Date,X-Api-Key,X-Amz-Security-Token",
	AllowMethods: "OPTIONS,POST",
}

// CORSFor builds CORS headers from an origin allow-list; empty means "*".
func CORSFor(origins []string) CORS {
	c := DefaultCORS
	if len(origins) > 0 && origins[0] != "" {
		c.AllowOrigin = strings.Join(origins, ",")
	}
	return c
}

func (c CORS) headers() map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin":  c.AllowOrigin,
		"Access-Control-Allow-Headers": c.AllowHeaders,
		"Access-Control-Allow-Methods": c.AllowMethods,
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func (c CORS) preflight() events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK, Headers: c.headers()}
}

func (c CORS) jsonResponse(status int, body any) events.APIGatewayProxyResponse {
	h := c.headers()
	h["Content-Type"] = "application/json"
	data, err := json.Marshal(body)
	if err != nil {
		slog.Error("handler: encode response", slog.Any("error", err))
		status = http.StatusInternalServerError
		data = []byte(`{"error":"internal error"}`)
	}
	return events.APIGatewayProxyResponse{StatusCode: status, Headers: h, Body: string(data)}
}

func (c CORS) errorResponse(err error) events.APIGatewayProxyResponse {
	return c.jsonResponse(StatusFor(err), errorBody{Error: err.Error()})
}

// StatusFor maps an error to the response status: client kinds are 400,
// everything else 500.
func StatusFor(err error) int {
	if engine.KindOf(err).IsClient() {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// isPreflight reports whether the request is a CORS pre-flight, for both
// REST (httpMethod) and HTTP API (requestContext.http.method) payloads.
func isPreflight(method, httpAPIMethod string) bool {
	return strings.EqualFold(method, http.MethodOptions) || strings.EqualFold(httpAPIMethod, http.MethodOptions)
}

// decodeBody unmarshals a gateway body (optionally base64) into v.
// An empty body is not an error.
func decodeBody(body string, isBase64 bool, v any) error {
	if strings.TrimSpace(body) == "" {
		return nil
	}
	raw := []byte(body)
	if isBase64 {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return engine.Errorf(engine.KindMissingField, "Invalid request body encoding")
		}
		raw = decoded
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &engine.Error{Kind: engine.KindMissingField, Msg: "Invalid JSON body", Err: err}
	}
	return nil
}

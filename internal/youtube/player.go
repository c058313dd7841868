package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"

	"github.com/anatolykoptev/go_yt2text/internal/engine"
)

// YouTube Innertube /player probe: reads the playability and family-safety
// metadata the download library does not expose.

const (
	ytPlayerURL  = "https://www.youtube.com/youtubei/v1/player"
	ytWebVersion = "2.20250222.10.00"
)

type playerReq struct {
	VideoID        string    `json:"videoId"`
	Context        playerCtx `json:"context"`
	RacyCheckOk    bool      `json:"racyCheckOk"`
	ContentCheckOk bool      `json:"contentCheckOk"`
}

type playerCtx struct {
	Client playerClient `json:"client"`
}

type playerClient struct {
	ClientName    string `json:"clientName"`
	ClientVersion string `json:"clientVersion"`
	VisitorData   string `json:"visitorData,omitempty"`
	Hl            string `json:"hl,omitempty"`
	Gl            string `json:"gl,omitempty"`
}

type playerResp struct {
	PlayabilityStatus *struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
	Microformat *struct {
		PlayerMicroformatRenderer struct {
			IsFamilySafe *bool `json:"isFamilySafe"`
		} `json:"playerMicroformatRenderer"`
	} `json:"microformat"`
}

// ageGatedStatuses are playability statuses YouTube returns for age-gated content.
var ageGatedStatuses = map[string]bool{
	"AGE_CHECK_REQUIRED":        true,
	"AGE_VERIFICATION_REQUIRED": true,
	"CONTENT_CHECK_REQUIRED":    true,
}

// ageRestricted reports whether the player response flags the video as
// age-restricted.
func (r playerResp) ageRestricted() bool {
	if r.PlayabilityStatus != nil && ageGatedStatuses[r.PlayabilityStatus.Status] {
		return true
	}
	if r.Microformat != nil {
		if safe := r.Microformat.PlayerMicroformatRenderer.IsFamilySafe; safe != nil && !*safe {
			return true
		}
	}
	return false
}

// PlayerProbe queries the Innertube /player endpoint with the WEB client.
type PlayerProbe struct {
	client   *http.Client
	endpoint string
}

// NewPlayerProbe creates a probe using client (nil = http.DefaultClient).
func NewPlayerProbe(client *http.Client) *PlayerProbe {
	if client == nil {
		client = http.DefaultClient
	}
	return &PlayerProbe{client: client, endpoint: ytPlayerURL}
}

// AgeRestricted reports whether YouTube marks the video as age-restricted.
func (p *PlayerProbe) AgeRestricted(ctx context.Context, videoID string) (bool, error) {
	engine.IncrPlayerProbes()
	visitorData := generateVisitorData()
	body, err := json.Marshal(playerReq{
		VideoID: videoID,
		Context: playerCtx{Client: playerClient{
			ClientName:    "WEB",
			ClientVersion: ytWebVersion,
			VisitorData:   visitorData,
			Hl:            "en",
			Gl:            "US",
		}},
	})
	if err != nil {
		return false, err
	}

	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+"?prettyPrint=false", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "*/*")
		req.Header.Set("User-Agent", engine.RandomUserAgent())
		req.Header.Set("X-Youtube-Client-Name", "1")
		req.Header.Set("X-Youtube-Client-Version", ytWebVersion)
		req.Header.Set("X-Goog-Visitor-Id", visitorData)
		req.Header.Set("Origin", "https://www.youtube.com")
		req.Header.Set("Referer", "https://www.youtube.com/")
		return p.client.Do(req)
	})
	if err != nil {
		return false, fmt.Errorf("innertube /player: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return false, fmt.Errorf("innertube /player: HTTP %d: %s", resp.StatusCode, snippet)
	}

	var pr playerResp
	if err := json.NewDecoder(io.LimitReader(resp.Body, 3*1024*1024)).Decode(&pr); err != nil {
		return false, fmt.Errorf("innertube /player: decode: %w", err)
	}
	return pr.ageRestricted(), nil
}

// generateVisitorData creates a random 11-char visitor ID for Innertube requests.
func generateVisitorData() string {
	const chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	b := make([]byte, 11)
	for i := range b {
		b[i] = chars[rand.Intn(len(chars))] //nolint:gosec // non-cryptographic use
	}
	return string(b)
}

package youtube

import (
	"net/url"
	"strings"

	"github.com/anatolykoptev/go_yt2text/internal/engine"
)

const watchURLBase = "https://www.youtube.com/watch"

// watchHosts are the hosts serving the canonical /watch page.
var watchHosts = map[string]bool{
	"www.youtube.com": true,
	"youtube.com":     true,
	"m.youtube.com":   true,
}

const shortHost = "youtu.be"

// ExtractVideoID returns the video ID from a standard watch URL
// (https://www.youtube.com/watch?v=ID) or a short link (https://youtu.be/ID).
// It does no network access.
func ExtractVideoID(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", &engine.Error{Kind: engine.KindInvalidURL, Msg: "Invalid YouTube URL", Err: err}
	}

	host := strings.ToLower(u.Hostname())
	switch {
	case watchHosts[host] && u.Path == "/watch":
		id := u.Query().Get("v")
		if id == "" {
			return "", engine.Errorf(engine.KindInvalidURL, "Invalid YouTube URL: missing v parameter")
		}
		return id, nil
	case host == shortHost:
		id := strings.TrimLeft(u.Path, "/")
		if id == "" {
			return "", engine.Errorf(engine.KindInvalidURL, "Invalid YouTube URL: missing video id")
		}
		return id, nil
	}
	return "", engine.Errorf(engine.KindInvalidURL, "Invalid YouTube URL")
}

// WatchURL renders the canonical watch page URL for a video ID.
func WatchURL(videoID string) string {
	return watchURLBase + "?v=" + url.QueryEscape(videoID)
}

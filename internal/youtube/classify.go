package youtube

import (
	"errors"
	"strings"

	"github.com/anatolykoptev/go_yt2text/internal/engine"
	ytdl "github.com/kkdai/youtube/v2"
)

// Downloader failures arrive as free text from a library we do not control.
// Matching is best-effort; update these tables when the wording drifts.

// sentinelKinds maps the download library's exported errors to kinds.
var sentinelKinds = []struct {
	err  error
	kind engine.Kind
	msg  string
}{
	{ytdl.ErrVideoPrivate, engine.KindPrivateVideo, "This video is private"},
	{ytdl.ErrLoginRequired, engine.KindAuthRequired, "This video requires sign-in"},
}

// textKinds maps substrings of the error text to kinds, first match wins.
var textKinds = []struct {
	substr string
	kind   engine.Kind
	msg    string
}{
	{"Private video", engine.KindPrivateVideo, "This video is private"},
	{"Sign in", engine.KindAuthRequired, "This video requires sign-in"},
}

// classifyDownloadError maps a download failure to a classified error.
// Already-classified errors pass through; unmatched text becomes DownloadFailed.
func classifyDownloadError(err error) error {
	if err == nil {
		return nil
	}
	var classified *engine.Error
	if errors.As(err, &classified) {
		return err
	}
	for _, s := range sentinelKinds {
		if errors.Is(err, s.err) {
			return &engine.Error{Kind: s.kind, Msg: s.msg, Err: err}
		}
	}
	text := err.Error()
	for _, m := range textKinds {
		if strings.Contains(text, m.substr) {
			return &engine.Error{Kind: m.kind, Msg: m.msg, Err: err}
		}
	}
	return &engine.Error{Kind: engine.KindDownloadFailed, Msg: "Download failed", Err: err}
}

// isPermanent reports whether retrying a classified download error is pointless.
func isPermanent(err error) bool {
	switch engine.KindOf(err) {
	case engine.KindPrivateVideo, engine.KindAuthRequired, engine.KindAgeRestricted, engine.KindAccessDenied:
		return true
	}
	return false
}

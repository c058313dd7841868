package youtube

import (
	"errors"
	"fmt"
	"testing"

	"github.com/anatolykoptev/go_yt2text/internal/engine"
	ytdl "github.com/kkdai/youtube/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyDownloadError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		want      engine.Kind
		permanent bool
	}{
		{"private text", errors.New("cannot playback and download, status: LOGIN_REQUIRED, reason: Private video"), engine.KindPrivateVideo, true},
		{"sign in text", errors.New("cannot playback and download, status: LOGIN_REQUIRED, reason: Sign in to confirm you're not a bot"), engine.KindAuthRequired, true},
		{"private sentinel", fmt.Errorf("get video: %w", ytdl.ErrVideoPrivate), engine.KindPrivateVideo, true},
		{"login sentinel", ytdl.ErrLoginRequired, engine.KindAuthRequired, true},
		{"generic", errors.New("unexpected status code: 403"), engine.KindDownloadFailed, false},
		{"already classified", engine.Errorf(engine.KindAgeRestricted, "age"), engine.KindAgeRestricted, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyDownloadError(tt.err)
			require.Error(t, got)
			assert.Equal(t, tt.want, engine.KindOf(got))
			assert.Equal(t, tt.permanent, isPermanent(got))
		})
	}
}

func TestClassifyDownloadErrorKeepsOriginalMessage(t *testing.T) {
	orig := errors.New("stream: unexpected EOF")
	got := classifyDownloadError(orig)
	assert.ErrorIs(t, got, orig)
	assert.Contains(t, got.Error(), "stream: unexpected EOF")
}

func TestClassifyDownloadErrorNil(t *testing.T) {
	assert.NoError(t, classifyDownloadError(nil))
}

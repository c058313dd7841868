package youtube

import (
	"testing"

	"github.com/anatolykoptev/go_yt2text/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"watch www", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"watch bare host", "https://youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"watch mobile", "https://m.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"watch extra params", "https://www.youtube.com/watch?list=PL1&v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ"},
		{"watch upper host", "https://WWW.YOUTUBE.COM/watch?v=abc", "abc"},
		{"short link", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"short link slashes", "https://youtu.be///dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"short link query", "https://youtu.be/dQw4w9WgXcQ?t=10", "dQw4w9WgXcQ"},
		{"short link nested path", "https://youtu.be/abc/def", "abc/def"},
		{"surrounding space", "  https://youtu.be/dQw4w9WgXcQ \n", "dQw4w9WgXcQ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractVideoID(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractVideoIDInvalid(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"not a url", "not a url"},
		{"empty", ""},
		{"other host", "https://vimeo.com/watch?v=123"},
		{"channel path", "https://www.youtube.com/channel/UC123"},
		{"shorts path", "https://www.youtube.com/shorts/dQw4w9WgXcQ"},
		{"watch without v", "https://www.youtube.com/watch?list=PL1"},
		{"watch empty v", "https://www.youtube.com/watch?v="},
		{"short link empty", "https://youtu.be/"},
		{"lookalike host", "https://youtube.com.evil.example/watch?v=abc"},
		{"bad escape", "https://www.youtube.com/watch?v=%zz"},
		{"control char", "https://youtu.be/\x7f"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractVideoID(tt.url)
			require.Error(t, err)
			assert.Equal(t, engine.KindInvalidURL, engine.KindOf(err))
		})
	}
}

func TestWatchURLRoundTrip(t *testing.T) {
	ids := []string{"dQw4w9WgXcQ", "a-b_c", "with space", "q&a=1", "ünï"}
	for _, id := range ids {
		t.Run(id, func(t *testing.T) {
			got, err := ExtractVideoID(WatchURL(id))
			require.NoError(t, err)
			assert.Equal(t, id, got)
		})
	}
}

func TestWatchURL(t *testing.T) {
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", WatchURL("dQw4w9WgXcQ"))
}

package youtube

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/anatolykoptev/go_yt2text/internal/engine"
	"github.com/cenkalti/backoff/v5"
	ytdl "github.com/kkdai/youtube/v2"
)

// mediaSource is the subset of *ytdl.Client the fetcher uses.
type mediaSource interface {
	GetVideoContext(ctx context.Context, url string) (*ytdl.Video, error)
	GetStreamContext(ctx context.Context, video *ytdl.Video, format *ytdl.Format) (io.ReadCloser, int64, error)
}

type accessChecker interface {
	Check(ctx context.Context, videoID string) (*OEmbed, error)
}

type ageChecker interface {
	AgeRestricted(ctx context.Context, videoID string) (bool, error)
}

// NewMediaClient returns a download client. httpClient should not carry an
// overall Timeout, since a single stream may take minutes.
func NewMediaClient(httpClient *http.Client) *ytdl.Client {
	return &ytdl.Client{HTTPClient: httpClient}
}

// Artifact is a downloaded audio file inside the caller's destination dir.
type Artifact struct {
	VideoID string
	Path    string
	Ext     string
	Size    int64
	Title   string
}

// Fetcher downloads the best audio-only stream of a single video.
type Fetcher struct {
	source     mediaSource
	access     accessChecker
	age        ageChecker
	maxTries   uint
	newBackOff func() backoff.BackOff
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithMaxTries bounds download attempts (default 3).
func WithMaxTries(n int) FetcherOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxTries = uint(n)
		}
	}
}

// WithBackOff overrides the wait policy between download attempts.
func WithBackOff(fn func() backoff.BackOff) FetcherOption {
	return func(f *Fetcher) { f.newBackOff = fn }
}

// NewFetcher creates a fetcher. access and age may be nil to skip the
// accessibility gate and the age-restriction check.
func NewFetcher(source mediaSource, access accessChecker, age ageChecker, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		source:   source,
		access:   access,
		age:      age,
		maxTries: 3,
		newBackOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Fetch verifies the video is public, downloads its best audio track into
// destDir as <videoID>.<ext>, and returns the artifact. On AgeRestricted the
// downloaded file is removed before returning.
func (f *Fetcher) Fetch(ctx context.Context, videoID, destDir string) (*Artifact, error) {
	engine.IncrDownloadRequests()
	if !validFileStem(videoID) {
		return nil, engine.Errorf(engine.KindInvalidURL, "Invalid video id %q", videoID)
	}

	var title string
	if f.access != nil {
		meta, err := f.access.Check(ctx, videoID)
		if err != nil {
			return nil, err
		}
		title = meta.Title
	}

	operation := func() (string, error) {
		engine.IncrDownloadAttempts()
		ext, err := f.download(ctx, videoID, destDir)
		if err == nil {
			return ext, nil
		}
		err = classifyDownloadError(err)
		if isPermanent(err) {
			return "", backoff.Permanent(err)
		}
		return "", err
	}
	start := time.Now()
	ext, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(f.newBackOff()),
		backoff.WithMaxTries(f.maxTries),
		backoff.WithNotify(func(err error, wait time.Duration) {
			slog.Warn("download: retrying", slog.String("video_id", videoID),
				slog.Duration("wait", wait), slog.Any("error", err))
		}),
	)
	if err != nil {
		engine.IncrDownloadErrors()
		return nil, classifyDownloadError(err)
	}

	path, err := findArtifact(destDir, videoID)
	if err != nil {
		engine.IncrDownloadErrors()
		return nil, err
	}

	if f.age != nil {
		restricted, err := f.age.AgeRestricted(ctx, videoID)
		switch {
		case err != nil:
			slog.Warn("download: age check failed, continuing", slog.String("video_id", videoID), slog.Any("error", err))
		case restricted:
			if rmErr := os.Remove(path); rmErr != nil {
				slog.Warn("download: remove restricted artifact", slog.String("path", path), slog.Any("error", rmErr))
			}
			return nil, engine.Errorf(engine.KindAgeRestricted, "This video is age-restricted")
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, engine.Wrap(engine.KindArtifactNotFound, err, "Audio download failed")
	}
	slog.Info("download: complete", slog.String("video_id", videoID), slog.String("ext", ext),
		slog.Int64("bytes", info.Size()), slog.Duration("elapsed", time.Since(start)))
	return &Artifact{
		VideoID: videoID,
		Path:    path,
		Ext:     filepath.Ext(path)[1:],
		Size:    info.Size(),
		Title:   title,
	}, nil
}

// download performs a single attempt and returns the written file's extension.
func (f *Fetcher) download(ctx context.Context, videoID, destDir string) (string, error) {
	video, err := f.source.GetVideoContext(ctx, WatchURL(videoID))
	if err != nil {
		return "", fmt.Errorf("get video: %w", err)
	}
	format, ext, err := pickAudioFormat(video.Formats)
	if err != nil {
		return "", backoff.Permanent(err)
	}

	stream, _, err := f.source.GetStreamContext(ctx, video, format)
	if err != nil {
		return "", fmt.Errorf("get stream itag %d: %w", format.ItagNo, err)
	}
	defer stream.Close()

	path := filepath.Join(destDir, videoID+"."+ext)
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := io.Copy(out, stream); err != nil {
		out.Close()
		os.Remove(path)
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return ext, nil
}

// audioExts maps audio MIME types to the container extension written to disk.
var audioExts = map[string]string{
	"audio/mp4":  "m4a",
	"audio/webm": "webm",
	"audio/mpeg": "mp3",
	"audio/ogg":  "ogg",
}

// pickAudioFormat selects the highest-bitrate audio/mp4 stream, falling back
// to the highest-bitrate audio-only stream of any container.
func pickAudioFormat(formats ytdl.FormatList) (*ytdl.Format, string, error) {
	var best, bestM4A *ytdl.Format
	for i := range formats {
		f := &formats[i]
		mime := mimeBase(f.MimeType)
		if !strings.HasPrefix(mime, "audio/") {
			continue
		}
		if mime == "audio/mp4" && (bestM4A == nil || f.Bitrate > bestM4A.Bitrate) {
			bestM4A = f
		}
		if best == nil || f.Bitrate > best.Bitrate {
			best = f
		}
	}
	chosen := bestM4A
	if chosen == nil {
		chosen = best
	}
	if chosen == nil {
		return nil, "", engine.Errorf(engine.KindDownloadFailed, "Download failed: no audio-only format available")
	}
	mime := mimeBase(chosen.MimeType)
	ext, ok := audioExts[mime]
	if !ok {
		ext = strings.TrimPrefix(mime, "audio/")
	}
	return chosen, ext, nil
}

func mimeBase(mimeType string) string {
	base, _, _ := strings.Cut(mimeType, ";")
	return strings.ToLower(strings.TrimSpace(base))
}

// findArtifact locates the single file named <videoID>.<ext> in dir.
// Zero or several candidates is an error.
func findArtifact(dir, videoID string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", engine.Wrap(engine.KindArtifactNotFound, err, "Audio download failed")
	}
	var matches []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasPrefix(e.Name(), videoID+".") {
			matches = append(matches, filepath.Join(dir, e.Name()))
		}
	}
	switch len(matches) {
	case 0:
		return "", engine.Errorf(engine.KindArtifactNotFound, "Audio download failed: no file for %s", videoID)
	case 1:
		return matches[0], nil
	}
	return "", engine.Errorf(engine.KindArtifactNotFound,
		"Audio download ambiguous: %d files for %s", len(matches), videoID)
}

// validFileStem reports whether id can be used as a file name stem.
func validFileStem(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	return !strings.ContainsAny(id, `/\`+"\x00")
}

package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/anatolykoptev/go_yt2text/internal/engine"
	"github.com/anatolykoptev/go_yt2text/internal/storage"
	"github.com/anatolykoptev/go_yt2text/internal/transcription"
	"github.com/anatolykoptev/go_yt2text/internal/youtube"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	err     error
	calls   int
	gotID   string
	gotDir  string
	payload string
}

func (f *fakeFetcher) Fetch(_ context.Context, videoID, destDir string) (*youtube.Artifact, error) {
	f.calls++
	f.gotID, f.gotDir = videoID, destDir
	if f.err != nil {
		return nil, f.err
	}
	path := filepath.Join(destDir, videoID+".m4a")
	if err := os.WriteFile(path, []byte(f.payload), 0o600); err != nil {
		return nil, err
	}
	return &youtube.Artifact{VideoID: videoID, Path: path, Ext: "m4a"}, nil
}

type fakeUploader struct {
	err     error
	calls   int
	gotPath string
	sawFile bool
}

func (u *fakeUploader) Upload(_ context.Context, path, bucket, prefix string) (storage.Location, error) {
	u.calls++
	u.gotPath = path
	_, statErr := os.Stat(path)
	u.sawFile = statErr == nil
	if u.err != nil {
		return storage.Location{}, u.err
	}
	return storage.Location{Bucket: bucket, Key: prefix + filepath.Base(path)}, nil
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temp dir must be released")
}

func TestDownloaderRun(t *testing.T) {
	root := t.TempDir()
	f := &fakeFetcher{payload: "audio"}
	u := &fakeUploader{}
	d := NewDownloader(f, u, "audio-bucket", "", root)

	res, err := d.Run(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, &DownloadResult{
		Message: "Audio uploaded successfully",
		VideoID: "dQw4w9WgXcQ",
		S3URI:   "s3://audio-bucket/dQw4w9WgXcQ.m4a",
	}, res)
	assert.Equal(t, "dQw4w9WgXcQ", f.gotID)
	assert.Equal(t, root, filepath.Dir(f.gotDir))
	assert.True(t, u.sawFile, "artifact must exist during upload")
	assertEmptyDir(t, root)
}

func TestDownloaderRunShortLinkWithPrefix(t *testing.T) {
	d := NewDownloader(&fakeFetcher{}, &fakeUploader{}, "b", "audio/", t.TempDir())

	res, err := d.Run(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "dQw4w9WgXcQ", res.VideoID)
	assert.Equal(t, "s3://b/audio/dQw4w9WgXcQ.m4a", res.S3URI)
}

func TestDownloaderRunInvalidURL(t *testing.T) {
	f := &fakeFetcher{}
	u := &fakeUploader{}
	d := NewDownloader(f, u, "b", "", t.TempDir())

	_, err := d.Run(context.Background(), "not a url")
	require.Error(t, err)
	assert.Equal(t, engine.KindInvalidURL, engine.KindOf(err))
	assert.Zero(t, f.calls)
	assert.Zero(t, u.calls)
}

func TestDownloaderRunMissingURL(t *testing.T) {
	_, err := NewDownloader(&fakeFetcher{}, &fakeUploader{}, "b", "", "").Run(context.Background(), "")
	assert.Equal(t, engine.KindMissingField, engine.KindOf(err))
}

func TestDownloaderRunMissingBucket(t *testing.T) {
	f := &fakeFetcher{}
	_, err := NewDownloader(f, &fakeUploader{}, "", "", t.TempDir()).Run(context.Background(), "https://youtu.be/abc")
	require.Error(t, err)
	assert.Equal(t, engine.KindUnknown, engine.KindOf(err))
	assert.Zero(t, f.calls)
}

func TestDownloaderRunFetchFailureCleansUp(t *testing.T) {
	root := t.TempDir()
	u := &fakeUploader{}
	d := NewDownloader(&fakeFetcher{err: engine.Errorf(engine.KindPrivateVideo, "private")}, u, "b", "", root)

	_, err := d.Run(context.Background(), "https://youtu.be/abc")
	require.Error(t, err)
	assert.Equal(t, engine.KindPrivateVideo, engine.KindOf(err))
	assert.Zero(t, u.calls)
	assertEmptyDir(t, root)
}

func TestDownloaderRunUploadFailureCleansUp(t *testing.T) {
	root := t.TempDir()
	cause := engine.Wrap(engine.KindStorageWriteFailed, errors.New("denied"), "upload")
	d := NewDownloader(&fakeFetcher{}, &fakeUploader{err: cause}, "b", "", root)

	_, err := d.Run(context.Background(), "https://youtu.be/abc")
	require.Error(t, err)
	assert.Equal(t, engine.KindStorageWriteFailed, engine.KindOf(err))
	assertEmptyDir(t, root)
}

type fakeStarter struct {
	job   *transcription.Job
	err   error
	calls int
}

func (s *fakeStarter) Start(_ context.Context, _, videoID string) (*transcription.Job, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	j := *s.job
	j.VideoID = videoID
	return &j, nil
}

func TestTranscriberRun(t *testing.T) {
	created := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	s := &fakeStarter{job: &transcription.Job{Name: "transcribe-abc", Status: "IN_PROGRESS", Created: created}}

	res, err := NewTranscriber(s).Run(context.Background(), "s3://b/abc.m4a", "abc")
	require.NoError(t, err)
	assert.Equal(t, "Transcription job started", res.Message)
	assert.Equal(t, "transcribe-abc", res.Job.Name)
	assert.Equal(t, "abc", res.Job.VideoID)
}

func TestTranscriberRunMissingFields(t *testing.T) {
	s := &fakeStarter{}
	tr := NewTranscriber(s)
	for _, in := range [][2]string{{"", "abc"}, {"s3://b/abc.m4a", ""}, {"", ""}} {
		_, err := tr.Run(context.Background(), in[0], in[1])
		assert.Equal(t, engine.KindMissingField, engine.KindOf(err))
	}
	assert.Zero(t, s.calls)
}

func TestTranscriberRunFailure(t *testing.T) {
	s := &fakeStarter{err: engine.Errorf(engine.KindUnsupportedFormat, "Unsupported audio format: xyz")}
	_, err := NewTranscriber(s).Run(context.Background(), "s3://b/abc.xyz", "abc")
	assert.Equal(t, engine.KindUnsupportedFormat, engine.KindOf(err))
}

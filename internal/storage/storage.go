// Package storage uploads audio artifacts to S3.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/anatolykoptev/go_yt2text/internal/engine"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Location identifies a stored object.
type Location struct {
	Bucket string
	Key    string
}

// URI renders the location as s3://bucket/key.
func (l Location) URI() string {
	return "s3://" + l.Bucket + "/" + l.Key
}

func (l Location) String() string { return l.URI() }

// Ext returns the lower-cased key extension without the dot.
func (l Location) Ext() string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(l.Key), "."))
}

// ParseURI parses an s3://bucket/key URI.
func ParseURI(uri string) (Location, error) {
	u, err := url.Parse(strings.TrimSpace(uri))
	if err != nil {
		return Location{}, &engine.Error{Kind: engine.KindInvalidURL, Msg: "Not an S3 URI", Err: err}
	}
	if u.Scheme != "s3" {
		return Location{}, engine.Errorf(engine.KindInvalidURL, "Not an S3 URI: %q", uri)
	}
	key := strings.TrimLeft(u.Path, "/")
	if u.Host == "" || key == "" {
		return Location{}, engine.Errorf(engine.KindInvalidURL, "S3 URI needs bucket and key: %q", uri)
	}
	return Location{Bucket: u.Host, Key: key}, nil
}

// objectUploader is the subset of *manager.Uploader used here.
type objectUploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// Uploader copies local files into a bucket.
type Uploader struct {
	up objectUploader
}

// NewUploader wraps an S3 client in a multipart-capable upload manager.
func NewUploader(client *s3.Client) *Uploader {
	return &Uploader{up: manager.NewUploader(client)}
}

// Upload stores the file at path under <prefix><basename> and returns its
// location. Storage failures are returned as StorageWriteFailed. No retries.
func (u *Uploader) Upload(ctx context.Context, path, bucket, prefix string) (Location, error) {
	engine.IncrUploads()
	loc := Location{Bucket: bucket, Key: prefix + filepath.Base(path)}

	f, err := os.Open(path)
	if err != nil {
		engine.IncrUploadErrors()
		return Location{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	input := &s3.PutObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Key),
		Body:   f,
	}
	if ct := contentType(path); ct != "" {
		input.ContentType = aws.String(ct)
	}

	if _, err := u.up.Upload(ctx, input); err != nil {
		engine.IncrUploadErrors()
		return Location{}, engine.Wrap(engine.KindStorageWriteFailed, err, "upload "+loc.URI())
	}
	slog.Info("storage: uploaded", slog.String("uri", loc.URI()))
	return loc, nil
}

// audioContentTypes covers containers mime.TypeByExtension often lacks.
var audioContentTypes = map[string]string{
	".m4a":  "audio/mp4",
	".webm": "audio/webm",
	".opus": "audio/ogg",
}

func contentType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ct, ok := audioContentTypes[ext]; ok {
		return ct
	}
	return mime.TypeByExtension(ext)
}

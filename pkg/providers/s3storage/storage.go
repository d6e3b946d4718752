// Package s3storage is a small object storage wrapper used for uploading and
// downloading project artifacts. It is a sibling utility to the pool import
// flow, not part of the reconciliation core.
package s3storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/cloudpool/poolimport/pkg/poolimport"
)

// ObjectAPI abstracts the non-transfer S3 operations for testing.
type ObjectAPI interface {
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Uploader abstracts managed uploads for testing.
type Uploader interface {
	Upload(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// Downloader abstracts managed downloads for testing.
type Downloader interface {
	Download(ctx context.Context, w io.WriterAt, in *s3.GetObjectInput, optFns ...func(*manager.Downloader)) (int64, error)
}

// Bucket wraps one S3 bucket with upload/download/exists/remove operations.
type Bucket struct {
	name string

	objects    ObjectAPI
	uploader   Uploader
	downloader Downloader
}

// Option configures the Bucket.
type Option func(*Bucket)

// WithObjectAPI sets the object API client.
func WithObjectAPI(api ObjectAPI) Option {
	return func(b *Bucket) {
		b.objects = api
	}
}

// WithUploader sets the managed uploader.
func WithUploader(u Uploader) Option {
	return func(b *Bucket) {
		b.uploader = u
	}
}

// WithDownloader sets the managed downloader.
func WithDownloader(d Downloader) Option {
	return func(b *Bucket) {
		b.downloader = d
	}
}

// New creates a Bucket wrapper from an AWS configuration.
func New(cfg aws.Config, bucket string, opts ...Option) *Bucket {
	client := s3.NewFromConfig(cfg)
	b := &Bucket{
		name:       bucket,
		objects:    client,
		uploader:   manager.NewUploader(client),
		downloader: manager.NewDownloader(client),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns the bucket name.
func (b *Bucket) Name() string {
	return b.name
}

// Upload stores the reader's contents under key.
func (b *Bucket) Upload(ctx context.Context, key string, body io.Reader) error {
	_, err := b.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(key),
		Body:   body,
	})
	if err != nil {
		return classify(err, "Upload", key)
	}
	return nil
}

// Download fetches the object under key into w.
func (b *Bucket) Download(ctx context.Context, key string, w io.WriterAt) error {
	_, err := b.downloader.Download(ctx, w, &s3.GetObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(key),
	})
	if err != nil {
		return classify(err, "Download", key)
	}
	return nil
}

// Exists reports whether an object is present under key.
func (b *Bucket) Exists(ctx context.Context, key string) (bool, error) {
	_, err := b.objects.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, classify(err, "Exists", key)
	}
	return true, nil
}

// Remove deletes the object under key. Removing a missing key is not an
// error.
func (b *Bucket) Remove(ctx context.Context, key string) error {
	_, err := b.objects.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(key),
	})
	if err != nil {
		return classify(err, "Remove", key)
	}
	return nil
}

// isNotFound recognizes the spread of not-found shapes S3 produces:
// HeadObject surfaces an un-modeled 404 with code NotFound, GetObject a
// modeled NoSuchKey.
func isNotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	return false
}

func classify(err error, operation, key string) error {
	if isNotFound(err) {
		return poolimport.ErrNotFound("object", key).WithOperation(operation).WithCause(err)
	}
	return poolimport.ErrUpstream(fmt.Sprintf("%s failed for object %s", operation, key)).
		WithOperation(operation).
		WithCause(err)
}

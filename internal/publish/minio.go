// Package publish mirrors generated PDFs to S3-compatible object storage.
package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ContentType is set on every uploaded object.
const ContentType = "application/pdf"

// ErrInvalidConfig indicates missing endpoint or bucket.
var ErrInvalidConfig = errors.New("invalid publish config")

// Config describes the target bucket.
type Config struct {
	Endpoint  string // host[:port], no scheme
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Prefix    string // key prefix inside the bucket
}

// MinIOPublisher uploads PDFs to a MinIO/S3 bucket. The bucket is checked
// and created on first upload.
type MinIOPublisher struct {
	client *minio.Client
	bucket string
	prefix string

	mu      sync.Mutex
	ensured bool
}

// NewMinIO creates a publisher. No network call is made until Publish.
func NewMinIO(cfg Config) (*MinIOPublisher, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("%w: endpoint and bucket are required", ErrInvalidConfig)
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating minio client: %w", err)
	}

	return &MinIOPublisher{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
	}, nil
}

// Publish uploads pdf as <prefix>/<name> and returns its URL.
func (p *MinIOPublisher) Publish(ctx context.Context, name string, pdf []byte) (string, error) {
	if err := p.ensureBucket(ctx); err != nil {
		return "", err
	}

	key := p.Key(name)
	_, err := p.client.PutObject(ctx, p.bucket, key, bytes.NewReader(pdf), int64(len(pdf)),
		minio.PutObjectOptions{ContentType: ContentType},
	)
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", key, err)
	}
	return p.ObjectURL(key), nil
}

// Key returns the object key for name.
func (p *MinIOPublisher) Key(name string) string {
	if p.prefix == "" {
		return name
	}
	return path.Join(p.prefix, name)
}

// ObjectURL returns the path-style URL of key.
func (p *MinIOPublisher) ObjectURL(key string) string {
	endpoint := p.client.EndpointURL()
	u := url.URL{
		Scheme: endpoint.Scheme,
		Host:   endpoint.Host,
		Path:   "/" + path.Join(p.bucket, key),
	}
	return u.String()
}

// ensureBucket creates the bucket if needed. Failures are retried on the
// next call.
func (p *MinIOPublisher) ensureBucket(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ensured {
		return nil
	}

	exists, err := p.client.BucketExists(ctx, p.bucket)
	if err != nil {
		return fmt.Errorf("checking bucket %s: %w", p.bucket, err)
	}
	if !exists {
		if err := p.client.MakeBucket(ctx, p.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("creating bucket %s: %w", p.bucket, err)
		}
	}
	p.ensured = true
	return nil
}

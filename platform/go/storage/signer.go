package storage

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
)

// URLSigner issues time-boxed download URLs for stored objects.
type URLSigner interface {
	SignedURL(ctx context.Context, objectKey string, ttl time.Duration) (string, error)
}

// GCSSigner signs V4 GET URLs against a single bucket. The bucket comes from
// deployment configuration (one bucket per environment class).
type GCSSigner struct {
	client *gcs.Client
	bucket string
}

// NewGCSSigner constructs a signer bound to the given bucket.
func NewGCSSigner(client *gcs.Client, bucket string) (*GCSSigner, error) {
	if client == nil {
		return nil, fmt.Errorf("gcs client is required")
	}
	if strings.TrimSpace(bucket) == "" {
		return nil, fmt.Errorf("bucket is required")
	}
	return &GCSSigner{client: client, bucket: bucket}, nil
}

// SignedURL returns a V4 signed GET URL valid for ttl.
func (s *GCSSigner) SignedURL(_ context.Context, objectKey string, ttl time.Duration) (string, error) {
	key := strings.TrimPrefix(strings.TrimSpace(objectKey), "/")
	if key == "" {
		return "", fmt.Errorf("object key is required")
	}

	url, err := s.client.Bucket(s.bucket).SignedURL(key, &gcs.SignedURLOptions{
		Scheme:  gcs.SigningSchemeV4,
		Method:  http.MethodGet,
		Expires: time.Now().Add(ttl),
	})
	if err != nil {
		return "", fmt.Errorf("sign url for %q: %w", key, err)
	}
	return url, nil
}

var _ URLSigner = (*GCSSigner)(nil)

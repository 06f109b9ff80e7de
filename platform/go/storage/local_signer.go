package storage

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalSigner fabricates download URLs pointing at a local directory for
// development environments without GCS credentials. URLs carry an expiry
// parameter for parity with the real signer but nothing enforces it.
type LocalSigner struct {
	baseDir string
	baseURL string
}

// NewLocalSigner constructs a signer serving objects from baseDir via baseURL.
func NewLocalSigner(baseDir, baseURL string) (*LocalSigner, error) {
	if strings.TrimSpace(baseDir) == "" {
		return nil, fmt.Errorf("base dir is required")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "http://localhost:3000/dev-storage"
	}
	return &LocalSigner{baseDir: baseDir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// SignedURL verifies the object exists on disk and returns a dev URL for it.
func (s *LocalSigner) SignedURL(_ context.Context, objectKey string, ttl time.Duration) (string, error) {
	key := strings.TrimPrefix(strings.TrimSpace(objectKey), "/")
	if key == "" {
		return "", fmt.Errorf("object key is required")
	}

	path := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("stat object %q: %w", key, err)
	}

	expires := time.Now().Add(ttl).UTC()
	query := url.Values{"expires": []string{expires.Format(time.RFC3339)}}
	return fmt.Sprintf("%s/%s?%s", s.baseURL, key, query.Encode()), nil
}

var _ URLSigner = (*LocalSigner)(nil)

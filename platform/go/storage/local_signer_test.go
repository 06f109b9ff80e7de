package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLocalSignerSignedURL(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "packs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "packs", "starter.zip"), []byte("zip"), 0o644))

	signer, err := NewLocalSigner(dir, "http://localhost:3000/files")
	require.NoError(t, err)

	url, err := signer.SignedURL(context.Background(), "/packs/starter.zip", time.Minute)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "http://localhost:3000/files/packs/starter.zip?expires="))
}

func TestLocalSignerMissingObject(t *testing.T) {
	signer, err := NewLocalSigner(t.TempDir(), "")
	require.NoError(t, err)

	_, err = signer.SignedURL(context.Background(), "packs/missing.zip", time.Minute)
	require.Error(t, err)
}

func TestLocalSignerEmptyKey(t *testing.T) {
	signer, err := NewLocalSigner(t.TempDir(), "")
	require.NoError(t, err)

	_, err = signer.SignedURL(context.Background(), "  ", time.Minute)
	require.Error(t, err)
}

func TestNewLocalSignerRequiresBaseDir(t *testing.T) {
	_, err := NewLocalSigner("", "http://localhost:3000/files")
	require.Error(t, err)
}

// internal/storage/local_test.go
package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/TimLS94/IJP-Portal-sub000/internal/common/errors"
)

func newLocal(t *testing.T) (*LocalBackend, string) {
	t.Helper()
	dir := t.TempDir()
	b, err := NewLocalBackend(dir)
	require.NoError(t, err)
	return b, dir
}

func TestLocalBackend_Roundtrip(t *testing.T) {
	b, dir := newLocal(t)
	ctx := context.Background()

	key := "documents/100/abc.pdf"
	data := []byte("%PDF-1.4 payload")

	handle, err := b.Upload(ctx, key, data, "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, key, handle)

	// the key layout is mirrored on disk
	_, err = os.Stat(filepath.Join(dir, "documents", "100", "abc.pdf"))
	require.NoError(t, err)

	got, err := b.Download(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	ok, err := b.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, b.Delete(ctx, key))
	ok, err = b.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalBackend_DownloadMissing(t *testing.T) {
	b, _ := newLocal(t)

	_, err := b.Download(context.Background(), "documents/100/missing.pdf")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.CodeOf(err))
}

func TestLocalBackend_DeleteMissingIsNoop(t *testing.T) {
	b, _ := newLocal(t)
	assert.NoError(t, b.Delete(context.Background(), "documents/100/missing.pdf"))
}

func TestLocalBackend_RejectsTraversal(t *testing.T) {
	b, _ := newLocal(t)
	ctx := context.Background()

	keys := []string{
		"../outside.pdf",
		"documents/../../outside.pdf",
		"/etc/passwd",
	}
	for _, key := range keys {
		_, err := b.Upload(ctx, key, []byte("x"), "application/pdf")
		require.Error(t, err, "key %q", key)
		assert.Equal(t, apperrors.ErrCodeValidation, apperrors.CodeOf(err), "key %q", key)

		_, err = b.Download(ctx, key)
		assert.Error(t, err, "key %q", key)
	}
}

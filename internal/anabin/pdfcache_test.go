// internal/anabin/pdfcache_test.go
package anabin

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TimLS94/IJP-Portal-sub000/internal/common/config"
	"github.com/TimLS94/IJP-Portal-sub000/internal/common/logger"
)

func TestCacheKey(t *testing.T) {
	t.Run("sanitizes and suffixes", func(t *testing.T) {
		key := CacheKey("Universität Belgrad")
		assert.True(t, strings.HasSuffix(key, ".pdf"))
		assert.True(t, strings.HasPrefix(key, "universit_t_belgrad_"))
		// 8 hex chars between the name and the extension
		parts := strings.Split(strings.TrimSuffix(key, ".pdf"), "_")
		assert.Len(t, parts[len(parts)-1], 8)
	})

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, CacheKey("Uni Hamburg"), CacheKey("Uni Hamburg"))
	})

	t.Run("near-identical names never collide", func(t *testing.T) {
		assert.NotEqual(t, CacheKey("Uni Hamburg"), CacheKey("Uni  Hamburg"))
	})

	t.Run("truncates long names", func(t *testing.T) {
		long := strings.Repeat("a", 200)
		key := CacheKey(long)
		// 80 name chars, separator, 8 hex chars, ".pdf"
		assert.Len(t, key, 80+1+8+4)
	})
}

func TestFetch_CacheHit(t *testing.T) {
	dir := t.TempDir()
	cfg := config.AnabinConfig{CacheDir: dir}
	cache, err := NewPDFCache(cfg, logger.NewNop())
	require.NoError(t, err)

	want := []byte("%PDF-1.4 cached snapshot")
	path := filepath.Join(dir, CacheKey("Universität Belgrad"))
	require.NoError(t, os.WriteFile(path, want, 0o644))

	res := cache.Fetch(context.Background(), "Universität Belgrad", "Serbia", false)
	assert.True(t, res.Success)
	assert.Equal(t, "cache hit", res.Message)
	assert.Equal(t, want, res.PDF)
}

func TestNewPDFCache_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache")
	_, err := NewPDFCache(config.AnabinConfig{CacheDir: dir}, logger.NewNop())
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

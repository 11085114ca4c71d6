package noaa

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/disasterscience/nexrad/internal/observability"
)

// countingSource records how often each key is downloaded.
type countingSource struct {
	downloads map[string]int
	lists     int
}

func (s *countingSource) List(_ context.Context, site string, _ time.Time) ([]string, error) {
	s.lists++
	return []string{site + "-key"}, nil
}

func (s *countingSource) Download(_ context.Context, key string) ([]byte, error) {
	if s.downloads == nil {
		s.downloads = make(map[string]int)
	}
	s.downloads[key]++
	return []byte("archive:" + key), nil
}

func TestCachedArchiveSource_DownloadOncePerKey(t *testing.T) {
	src := &countingSource{}
	cached := NewCachedArchiveSource(src, 4, observability.NewMetricsForTesting())

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		data, err := cached.Download(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, []byte("archive:a"), data)
	}

	assert.Equal(t, 1, src.downloads["a"], "repeat downloads must come from the cache")
}

func TestCachedArchiveSource_EvictsLeastRecentlyUsed(t *testing.T) {
	src := &countingSource{}
	cached := NewCachedArchiveSource(src, 2, observability.NewMetricsForTesting())
	ctx := context.Background()

	_, err := cached.Download(ctx, "a")
	require.NoError(t, err)
	_, err = cached.Download(ctx, "b")
	require.NoError(t, err)

	// Touch a, making b the eviction candidate, then overflow with c.
	_, err = cached.Download(ctx, "a")
	require.NoError(t, err)
	_, err = cached.Download(ctx, "c")
	require.NoError(t, err)

	_, err = cached.Download(ctx, "a")
	require.NoError(t, err)
	_, err = cached.Download(ctx, "b")
	require.NoError(t, err)

	assert.Equal(t, 1, src.downloads["a"], "a stayed cached throughout")
	assert.Equal(t, 2, src.downloads["b"], "b was evicted and fetched again")
	assert.Equal(t, 1, src.downloads["c"])
}

func TestCachedArchiveSource_ListPassesThrough(t *testing.T) {
	src := &countingSource{}
	cached := NewCachedArchiveSource(src, 2, observability.NewMetricsForTesting())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		keys, err := cached.List(ctx, "KCRP", time.Now())
		require.NoError(t, err)
		assert.Equal(t, []string{"KCRP-key"}, keys)
	}
	assert.Equal(t, 3, src.lists, "listings are never cached")
}

// failingSource always errors on download.
type failingSource struct{ countingSource }

func (s *failingSource) Download(ctx context.Context, key string) ([]byte, error) {
	if _, err := s.countingSource.Download(ctx, key); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("download %s: connection reset", key)
}

func TestCachedArchiveSource_ErrorsAreNotCached(t *testing.T) {
	src := &failingSource{}
	cached := NewCachedArchiveSource(src, 2, observability.NewMetricsForTesting())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := cached.Download(ctx, "a")
		require.Error(t, err)
	}
	assert.Equal(t, 2, src.downloads["a"], "failures must reach the source every time")
}

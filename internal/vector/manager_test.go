package vector

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mevzuat/arama/internal/embed"
	"github.com/mevzuat/arama/internal/store"
)

type fakeSources struct {
	sources []*store.EmbedSource
}

func (f *fakeSources) EmbedSources(_ context.Context) ([]*store.EmbedSource, error) {
	return f.sources, nil
}

func testSources(n int) *fakeSources {
	f := &fakeSources{}
	contents := []string{
		"ceza kanununun amacı",
		"vergi usul hükümleri",
		"iş sözleşmesinin feshi",
		"mülkiyet hakkının kapsamı",
		"ticari defter tutma yükümlülüğü",
	}
	for i := 0; i < n; i++ {
		f.sources = append(f.sources, &store.EmbedSource{
			ArticleID: int64(i + 1),
			Content:   contents[i%len(contents)],
		})
	}
	return f
}

func TestManager_RebuildIndexesAllSources(t *testing.T) {
	m := NewManager(t.TempDir(), testSources(5), embed.NewStaticEmbedder(), nil)
	defer m.Close()

	result, err := m.Rebuild(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, result.Indexed)
	assert.Zero(t, result.Skipped)
	assert.NoError(t, result.Err)
	assert.Equal(t, 5, m.Index().Size())
}

func TestManager_RebuildPersistsAndReloads(t *testing.T) {
	dir := t.TempDir()

	m := NewManager(dir, testSources(3), embed.NewStaticEmbedder(), nil)
	_, err := m.Rebuild(context.Background())
	require.NoError(t, err)
	require.NoError(t, m.Close())

	fresh := NewManager(dir, testSources(3), embed.NewStaticEmbedder(), nil)
	defer fresh.Close()
	require.NoError(t, fresh.Load())
	assert.Equal(t, 3, fresh.Index().Size())
}

func TestManager_LoadWithoutPersistedIndexStaysEmpty(t *testing.T) {
	m := NewManager(t.TempDir(), testSources(0), embed.NewStaticEmbedder(), nil)
	defer m.Close()

	require.NoError(t, m.Load())
	assert.Zero(t, m.Index().Size())
}

func TestManager_RebuildFiresSwapHook(t *testing.T) {
	var mu sync.Mutex
	swaps := 0

	m := NewManager(t.TempDir(), testSources(2), embed.NewStaticEmbedder(), func() {
		mu.Lock()
		swaps++
		mu.Unlock()
	})
	defer m.Close()

	_, err := m.Rebuild(context.Background())
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, swaps)
}

func TestManager_ConcurrentRebuildRejected(t *testing.T) {
	m := NewManager(t.TempDir(), testSources(2), embed.NewStaticEmbedder(), nil)
	defer m.Close()

	m.mu.Lock()
	m.rebuilding = true
	m.mu.Unlock()

	_, err := m.Rebuild(context.Background())
	assert.Error(t, err)
}

func TestManager_RebuildAsyncDeliversResult(t *testing.T) {
	m := NewManager(t.TempDir(), testSources(2), embed.NewStaticEmbedder(), nil)
	defer m.Close()

	done := make(chan *RebuildResult, 1)
	m.RebuildAsync(context.Background(), func(r *RebuildResult) { done <- r })

	select {
	case r := <-done:
		require.NoError(t, r.Err)
		assert.Equal(t, 2, r.Indexed)
	case <-time.After(10 * time.Second):
		t.Fatal("rebuild did not complete")
	}
}

func TestManager_AppendAddsToLiveIndex(t *testing.T) {
	m := NewManager(t.TempDir(), testSources(0), embed.NewStaticEmbedder(), nil)
	defer m.Close()

	err := m.Append(context.Background(), []*store.EmbedSource{
		{ArticleID: 42, Content: "kamulaştırma bedelinin tespiti"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, m.Index().Size())
	assert.True(t, m.Index().Contains(42))
}

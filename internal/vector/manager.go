package vector

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/mevzuat/arama/internal/embed"
	apperrors "github.com/mevzuat/arama/internal/errors"
	"github.com/mevzuat/arama/internal/store"
)

// EmbedSourceLister is the store surface the rebuild consumes.
type EmbedSourceLister interface {
	EmbedSources(ctx context.Context) ([]*store.EmbedSource, error)
}

// RebuildResult summarizes a completed rebuild.
type RebuildResult struct {
	Indexed  int
	Skipped  int
	Duration time.Duration
	Err      error
}

// Manager owns the vector index lifecycle: loading at startup, rebuilds,
// incremental appends, and persistence. A file lock on the index directory
// keeps concurrent processes from writing over each other; an in-process
// mutex serializes rebuilds so at most one runs at a time.
type Manager struct {
	dir      string
	sources  EmbedSourceLister
	embedder embed.Embedder
	fileLock *flock.Flock

	// onSwap fires after the live index is replaced, before the rebuild
	// returns. The result cache hooks in here to drop stale entries.
	onSwap func()

	mu         sync.RWMutex
	index      *Index
	rebuilding bool
}

// NewManager creates a manager over the given index directory. The index
// starts empty; call Load to restore a persisted one.
func NewManager(dir string, sources EmbedSourceLister, embedder embed.Embedder, onSwap func()) *Manager {
	if onSwap == nil {
		onSwap = func() {}
	}
	// The lock file lives inside the index dir, which must exist first.
	_ = os.MkdirAll(dir, 0o755)
	return &Manager{
		dir:      dir,
		sources:  sources,
		embedder: embedder,
		fileLock: flock.New(filepath.Join(dir, ".lock")),
		onSwap:   onSwap,
		index:    NewIndex(0),
	}
}

// Index returns the live index. The pointer swaps atomically on rebuild;
// searches in flight keep the snapshot they started with.
func (m *Manager) Index() *Index {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.index
}

// Load restores the persisted index if one exists. A missing index leaves
// the empty one in place; a corrupt index is reported so the caller can
// decide whether to rebuild.
func (m *Manager) Load() error {
	loaded, err := LoadIndex(m.dir)
	if err != nil {
		return err
	}
	if loaded == nil {
		slog.Info("vector_index_absent", slog.String("dir", m.dir))
		return nil
	}

	m.mu.Lock()
	old := m.index
	m.index = loaded
	m.mu.Unlock()
	_ = old.Close()
	return nil
}

// Rebuild re-embeds every article and swaps in a fresh index. The live
// index keeps serving searches until the swap; a failed rebuild leaves it
// untouched. Persistence failure after a successful swap is reported but
// does not undo the swap.
func (m *Manager) Rebuild(ctx context.Context) (*RebuildResult, error) {
	m.mu.Lock()
	if m.rebuilding {
		m.mu.Unlock()
		return nil, apperrors.New(apperrors.ErrCodeIndexRebuild, "rebuild already in progress", nil)
	}
	m.rebuilding = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.rebuilding = false
		m.mu.Unlock()
	}()

	start := time.Now()

	sources, err := m.sources.EmbedSources(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeIndexRebuild, fmt.Errorf("list embed sources: %w", err))
	}

	fresh := NewIndex(m.embedder.Dimensions())
	indexed, skipped := 0, 0

	const batchSize = embed.DefaultBatchSize
	for startIdx := 0; startIdx < len(sources); startIdx += batchSize {
		if err := ctx.Err(); err != nil {
			_ = fresh.Close()
			return nil, apperrors.Wrap(apperrors.ErrCodeIndexRebuild, err)
		}
		end := min(startIdx+batchSize, len(sources))
		batch := sources[startIdx:end]

		texts := make([]string, len(batch))
		ids := make([]int64, len(batch))
		for i, src := range batch {
			texts[i] = src.Content
			ids[i] = src.ArticleID
		}

		vectors, err := m.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			// One failed batch skips its articles rather than aborting
			// the whole rebuild.
			slog.Warn("rebuild_batch_failed",
				slog.Int("from", startIdx), slog.Int("to", end),
				slog.String("error", err.Error()))
			skipped += len(batch)
			continue
		}
		if err := fresh.Add(ids, vectors); err != nil {
			_ = fresh.Close()
			return nil, apperrors.Wrap(apperrors.ErrCodeIndexRebuild, err)
		}
		indexed += len(batch)
	}

	m.mu.Lock()
	old := m.index
	m.index = fresh
	m.mu.Unlock()
	_ = old.Close()

	m.onSwap()

	result := &RebuildResult{
		Indexed:  indexed,
		Skipped:  skipped,
		Duration: time.Since(start),
	}

	if err := m.Persist(); err != nil {
		result.Err = err
		slog.Error("rebuild_persist_failed", slog.String("error", err.Error()))
	}

	slog.Info("vector_index_rebuilt",
		slog.Int("indexed", indexed),
		slog.Int("skipped", skipped),
		slog.Duration("duration", result.Duration))
	return result, nil
}

// RebuildAsync runs Rebuild on a goroutine and delivers the result to done
// (which may be nil). Searches keep running against the old index meanwhile.
func (m *Manager) RebuildAsync(ctx context.Context, done func(*RebuildResult)) {
	go func() {
		result, err := m.Rebuild(ctx)
		if err != nil {
			result = &RebuildResult{Err: err}
		}
		if done != nil {
			done(result)
		}
	}()
}

// Append embeds the given articles and adds them to the live index, then
// persists. Used for incremental ingestion between full rebuilds.
func (m *Manager) Append(ctx context.Context, sources []*store.EmbedSource) error {
	if len(sources) == 0 {
		return nil
	}

	texts := make([]string, len(sources))
	ids := make([]int64, len(sources))
	for i, src := range sources {
		texts[i] = src.Content
		ids[i] = src.ArticleID
	}

	vectors, err := m.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeIndexRebuild, fmt.Errorf("embed articles: %w", err))
	}
	if err := m.Index().Add(ids, vectors); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeIndexRebuild, err)
	}

	m.onSwap()
	return m.Persist()
}

// Persist writes the live index to disk under the directory file lock.
func (m *Manager) Persist() error {
	locked, err := m.fileLock.TryLock()
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeIndexPersist, fmt.Errorf("acquire index lock: %w", err))
	}
	if !locked {
		return apperrors.New(apperrors.ErrCodeIndexPersist, "index directory locked by another process", nil)
	}
	defer func() {
		if err := m.fileLock.Unlock(); err != nil {
			slog.Warn("index_unlock_failed", slog.String("error", err.Error()))
		}
	}()

	return m.Index().Save(m.dir)
}

// Close releases the index.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index.Close()
}

// Package vector maintains the semantic index: an HNSW graph over article
// embeddings with an article-id mapping, persisted atomically next to the
// SQLite database. The manager serializes rebuilds and guards the index
// directory against concurrent writers from other processes.
package vector

import (
	"bufio"
	"context"
	"encoding/gob"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/coder/hnsw"

	apperrors "github.com/mevzuat/arama/internal/errors"
)

const (
	indexFileName = "articles.hnsw"
	metaFileName  = "articles.hnsw.meta"
)

// Neighbor is one kNN hit: an article id with its cosine similarity in [-1, 1].
type Neighbor struct {
	ArticleID  int64
	Similarity float64
}

// Index is an in-memory HNSW graph keyed by article id.
// Every exported method leaves graph size and mapping size equal;
// lazily deleted nodes stay in the graph but lose their mapping entry
// and are skipped during search.
type Index struct {
	mu    sync.RWMutex
	graph *hnsw.Graph[uint64]

	idMap      map[int64]uint64 // article id -> graph key
	keyMap     map[uint64]int64 // graph key -> article id
	nextKey    uint64
	dimensions int

	closed bool
}

// indexMetadata persists the id mappings alongside the graph file.
type indexMetadata struct {
	IDMap      map[int64]uint64
	NextKey    uint64
	Dimensions int
}

// NewIndex creates an empty index. Dimensions may be zero; it is fixed by
// the first inserted vector.
func NewIndex(dimensions int) *Index {
	graph := hnsw.NewGraph[uint64]()
	graph.Distance = hnsw.CosineDistance
	graph.M = 16
	graph.EfSearch = 20
	graph.Ml = 0.25

	return &Index{
		graph:      graph,
		idMap:      make(map[int64]uint64),
		keyMap:     make(map[uint64]int64),
		dimensions: dimensions,
	}
}

// Add inserts vectors keyed by article id. Re-adding an existing id lazily
// deletes the old node (mapping removed, graph node orphaned) and inserts
// a fresh one.
func (ix *Index) Add(articleIDs []int64, vectors [][]float32) error {
	if len(articleIDs) != len(vectors) {
		return fmt.Errorf("ids and vectors length mismatch: %d vs %d", len(articleIDs), len(vectors))
	}
	if len(articleIDs) == 0 {
		return nil
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.closed {
		return fmt.Errorf("index is closed")
	}

	for _, v := range vectors {
		if ix.dimensions == 0 {
			ix.dimensions = len(v)
		}
		if len(v) != ix.dimensions {
			return fmt.Errorf("dimension mismatch: expected %d, got %d", ix.dimensions, len(v))
		}
	}

	for i, id := range articleIDs {
		if oldKey, exists := ix.idMap[id]; exists {
			delete(ix.keyMap, oldKey)
			delete(ix.idMap, id)
		}

		key := ix.nextKey
		ix.nextKey++

		vec := make([]float32, len(vectors[i]))
		copy(vec, vectors[i])
		normalizeInPlace(vec)

		ix.graph.Add(hnsw.MakeNode(key, vec))
		ix.idMap[id] = key
		ix.keyMap[key] = id
	}
	return nil
}

// Remove lazily deletes article ids: their mapping entries go away and the
// orphaned graph nodes are filtered out of search results.
func (ix *Index) Remove(articleIDs []int64) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.closed {
		return
	}
	for _, id := range articleIDs {
		if key, exists := ix.idMap[id]; exists {
			delete(ix.keyMap, key)
			delete(ix.idMap, id)
		}
	}
}

// Search returns up to k neighbors sorted by decreasing similarity.
// An empty index returns an empty slice, not an error.
func (ix *Index) Search(ctx context.Context, query []float32, k int) ([]Neighbor, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if ix.closed {
		return nil, fmt.Errorf("index is closed")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(ix.idMap) == 0 || k <= 0 {
		return []Neighbor{}, nil
	}
	if len(query) != ix.dimensions {
		return nil, fmt.Errorf("dimension mismatch: expected %d, got %d", ix.dimensions, len(query))
	}

	normalized := make([]float32, len(query))
	copy(normalized, query)
	normalizeInPlace(normalized)

	// Over-fetch to compensate for orphaned nodes skipped below.
	fetch := k
	if orphans := ix.graph.Len() - len(ix.idMap); orphans > 0 {
		fetch += orphans
	}

	nodes := ix.graph.Search(normalized, fetch)

	neighbors := make([]Neighbor, 0, k)
	for _, node := range nodes {
		id, exists := ix.keyMap[node.Key]
		if !exists {
			continue
		}
		// CosineDistance is 1 - cos(a, b); invert to a true similarity.
		distance := ix.graph.Distance(normalized, node.Value)
		neighbors = append(neighbors, Neighbor{
			ArticleID:  id,
			Similarity: 1.0 - float64(distance),
		})
		if len(neighbors) == k {
			break
		}
	}
	return neighbors, nil
}

// Size returns the number of live (mapped) vectors.
func (ix *Index) Size() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.idMap)
}

// Dimensions returns the vector dimension (0 while empty and unset).
func (ix *Index) Dimensions() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.dimensions
}

// Contains reports whether an article id is indexed.
func (ix *Index) Contains(articleID int64) bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	_, exists := ix.idMap[articleID]
	return exists
}

// Save persists the graph and its id mapping under dir using temp files and
// renames so a crash never leaves a partially written index behind.
func (ix *Index) Save(dir string) error {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if ix.closed {
		return fmt.Errorf("index is closed")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeIndexPersist, fmt.Errorf("create index dir: %w", err))
	}

	indexPath := filepath.Join(dir, indexFileName)
	if err := atomicWrite(indexPath, func(f *os.File) error {
		return ix.graph.Export(f)
	}); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeIndexPersist, fmt.Errorf("export graph: %w", err))
	}

	metaPath := filepath.Join(dir, metaFileName)
	meta := indexMetadata{
		IDMap:      ix.idMap,
		NextKey:    ix.nextKey,
		Dimensions: ix.dimensions,
	}
	if err := atomicWrite(metaPath, func(f *os.File) error {
		return gob.NewEncoder(f).Encode(meta)
	}); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeIndexPersist, fmt.Errorf("encode metadata: %w", err))
	}
	return nil
}

// LoadIndex reads a persisted index from dir. A missing index is not an
// error: it returns (nil, nil) so the caller can start empty.
func LoadIndex(dir string) (*Index, error) {
	metaPath := filepath.Join(dir, metaFileName)
	metaFile, err := os.Open(metaPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeIndexLoad, fmt.Errorf("open metadata: %w", err))
	}
	defer metaFile.Close()

	var meta indexMetadata
	if err := gob.NewDecoder(metaFile).Decode(&meta); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeIndexCorrupt, fmt.Errorf("decode metadata: %w", err))
	}

	indexPath := filepath.Join(dir, indexFileName)
	indexFile, err := os.Open(indexPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Metadata without a graph file means an interrupted write.
			return nil, apperrors.New(apperrors.ErrCodeIndexCorrupt, "index graph file missing", nil)
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeIndexLoad, fmt.Errorf("open index: %w", err))
	}
	defer indexFile.Close()

	ix := NewIndex(meta.Dimensions)
	// Import needs an io.ByteReader.
	if err := ix.graph.Import(bufio.NewReader(indexFile)); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeIndexCorrupt, fmt.Errorf("import graph: %w", err))
	}

	ix.idMap = meta.IDMap
	ix.nextKey = meta.NextKey
	for id, key := range meta.IDMap {
		ix.keyMap[key] = id
	}

	slog.Info("vector_index_loaded",
		slog.Int("vectors", len(ix.idMap)),
		slog.Int("dimensions", ix.dimensions))
	return ix, nil
}

// Close releases the graph. Idempotent.
func (ix *Index) Close() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.closed {
		return nil
	}
	ix.closed = true
	ix.graph = nil
	return nil
}

func atomicWrite(path string, write func(*os.File) error) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

func normalizeInPlace(v []float32) {
	var sumSquares float64
	for _, val := range v {
		sumSquares += float64(val) * float64(val)
	}
	if sumSquares == 0 {
		return
	}
	inv := float32(1.0 / math.Sqrt(sumSquares))
	for i := range v {
		v[i] *= inv
	}
}

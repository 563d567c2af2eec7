package vector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex_AddAndSearch(t *testing.T) {
	ix := NewIndex(3)
	defer ix.Close()

	require.NoError(t, ix.Add(
		[]int64{1, 2, 3},
		[][]float32{
			{1, 0, 0},
			{0, 1, 0},
			{0.9, 0.1, 0},
		}))
	assert.Equal(t, 3, ix.Size())

	neighbors, err := ix.Search(context.Background(), []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, neighbors, 2)

	assert.Equal(t, int64(1), neighbors[0].ArticleID)
	assert.InDelta(t, 1.0, neighbors[0].Similarity, 1e-5)
	assert.Equal(t, int64(3), neighbors[1].ArticleID)
	assert.Greater(t, neighbors[0].Similarity, neighbors[1].Similarity)
}

func TestIndex_EmptySearchReturnsNoError(t *testing.T) {
	ix := NewIndex(3)
	defer ix.Close()

	neighbors, err := ix.Search(context.Background(), []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, neighbors)
}

func TestIndex_DimensionMismatch(t *testing.T) {
	ix := NewIndex(3)
	defer ix.Close()

	err := ix.Add([]int64{1}, [][]float32{{1, 0}})
	assert.Error(t, err)

	require.NoError(t, ix.Add([]int64{1}, [][]float32{{1, 0, 0}}))
	_, err = ix.Search(context.Background(), []float32{1, 0}, 1)
	assert.Error(t, err)
}

func TestIndex_ReAddReplacesVector(t *testing.T) {
	ix := NewIndex(3)
	defer ix.Close()

	require.NoError(t, ix.Add([]int64{1}, [][]float32{{1, 0, 0}}))
	require.NoError(t, ix.Add([]int64{1}, [][]float32{{0, 1, 0}}))
	assert.Equal(t, 1, ix.Size())

	neighbors, err := ix.Search(context.Background(), []float32{0, 1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, neighbors, 1)
	assert.Equal(t, int64(1), neighbors[0].ArticleID)
	assert.InDelta(t, 1.0, neighbors[0].Similarity, 1e-5)
}

func TestIndex_RemoveHidesFromSearch(t *testing.T) {
	ix := NewIndex(3)
	defer ix.Close()

	require.NoError(t, ix.Add(
		[]int64{1, 2},
		[][]float32{{1, 0, 0}, {0, 1, 0}}))

	ix.Remove([]int64{1})
	assert.Equal(t, 1, ix.Size())
	assert.False(t, ix.Contains(1))
	assert.True(t, ix.Contains(2))

	neighbors, err := ix.Search(context.Background(), []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, neighbors, 1)
	assert.Equal(t, int64(2), neighbors[0].ArticleID)
}

func TestIndex_SaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	ix := NewIndex(3)
	require.NoError(t, ix.Add(
		[]int64{10, 20},
		[][]float32{{1, 0, 0}, {0, 0, 1}}))
	require.NoError(t, ix.Save(dir))
	require.NoError(t, ix.Close())

	loaded, err := LoadIndex(dir)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	defer loaded.Close()

	assert.Equal(t, 2, loaded.Size())
	assert.Equal(t, 3, loaded.Dimensions())

	neighbors, err := loaded.Search(context.Background(), []float32{0, 0, 1}, 1)
	require.NoError(t, err)
	require.Len(t, neighbors, 1)
	assert.Equal(t, int64(20), neighbors[0].ArticleID)
}

func TestLoadIndex_MissingDirReturnsNil(t *testing.T) {
	loaded, err := LoadIndex(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestIndex_NormalizesOnInsert(t *testing.T) {
	ix := NewIndex(3)
	defer ix.Close()

	// Same direction, different magnitudes: cosine similarity must be 1.
	require.NoError(t, ix.Add([]int64{1}, [][]float32{{10, 0, 0}}))

	neighbors, err := ix.Search(context.Background(), []float32{0.5, 0, 0}, 1)
	require.NoError(t, err)
	require.Len(t, neighbors, 1)
	assert.InDelta(t, 1.0, neighbors[0].Similarity, 1e-5)
}

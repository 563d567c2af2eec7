package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_KeyDependsOnOptions(t *testing.T) {
	c, err := newResultCache(10)
	require.NoError(t, err)

	base := c.key("ceza", Options{Modality: ModalityMixed}, 20)

	assert.Equal(t, base, c.key("ceza", Options{Modality: ModalityMixed}, 20))
	assert.Equal(t, base, c.key("  CEZA ", Options{Modality: ModalityMixed}, 20),
		"key normalizes case and whitespace")

	assert.NotEqual(t, base, c.key("ceza", Options{Modality: ModalityKeyword}, 20))
	assert.NotEqual(t, base, c.key("ceza", Options{Modality: ModalityMixed, IncludeRepealed: true}, 20))
	assert.NotEqual(t, base, c.key("ceza", Options{Modality: ModalityMixed}, 10))
	assert.NotEqual(t, base, c.key("ceza", Options{Modality: ModalityMixed, DocumentTypes: []string{"kanun"}}, 20))
}

func TestCache_TypeFilterOrderInsensitive(t *testing.T) {
	c, err := newResultCache(10)
	require.NoError(t, err)

	a := c.key("ceza", Options{DocumentTypes: []string{"kanun", "yönetmelik"}}, 20)
	b := c.key("ceza", Options{DocumentTypes: []string{"yönetmelik", "kanun"}}, 20)
	assert.Equal(t, a, b)
}

func TestCache_PutGetReturnsCopy(t *testing.T) {
	c, err := newResultCache(10)
	require.NoError(t, err)

	key := c.key("ceza", Options{}, 20)
	c.put(key, []Result{{ArticleID: 1, Score: 0.5}})

	got, ok := c.get(key)
	require.True(t, ok)
	got[0].Score = 99

	again, ok := c.get(key)
	require.True(t, ok)
	assert.Equal(t, 0.5, again[0].Score, "mutating a returned slice must not affect the cache")
}

func TestCache_GenerationInvalidatesAllKeys(t *testing.T) {
	c, err := newResultCache(10)
	require.NoError(t, err)

	key := c.key("ceza", Options{}, 20)
	c.put(key, []Result{{ArticleID: 1}})

	c.invalidateAll()

	fresh := c.key("ceza", Options{}, 20)
	assert.NotEqual(t, key, fresh)
	_, ok := c.get(fresh)
	assert.False(t, ok)
}

func TestCache_LRUEviction(t *testing.T) {
	c, err := newResultCache(2)
	require.NoError(t, err)

	k1 := c.key("a", Options{}, 20)
	k2 := c.key("b", Options{}, 20)
	k3 := c.key("c", Options{}, 20)
	c.put(k1, []Result{{ArticleID: 1}})
	c.put(k2, []Result{{ArticleID: 2}})
	c.put(k3, []Result{{ArticleID: 3}})

	_, ok := c.get(k1)
	assert.False(t, ok, "oldest entry evicted at capacity")
	assert.Equal(t, 2, c.len())
}

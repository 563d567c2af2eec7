package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	cfg.applyDerivedPaths()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 0.6, cfg.Search.LexicalWeight)
	assert.Equal(t, 0.4, cfg.Search.SemanticWeight)
	assert.Equal(t, 0.7, cfg.Search.SimilarityThreshold)
	assert.Equal(t, 0.8, cfg.Expansion.SynonymWeight)
	assert.Equal(t, 0.9, cfg.Expansion.AbbreviationWeight)
	assert.True(t, cfg.Search.Parallel)
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Search.MaxResults, cfg.Search.MaxResults)
	assert.NotEmpty(t, cfg.Paths.DatabasePath)
	assert.NotEmpty(t, cfg.Paths.IndexDir)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
search:
  lexical_weight: 0.7
  semantic_weight: 0.3
  parallel: false
expansion:
  synonym_weight: 0.5
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.7, cfg.Search.LexicalWeight)
	assert.Equal(t, 0.3, cfg.Search.SemanticWeight)
	assert.False(t, cfg.Search.Parallel)
	assert.Equal(t, 0.5, cfg.Expansion.SynonymWeight)
	// Untouched values keep defaults.
	assert.Equal(t, 0.7, cfg.Search.SimilarityThreshold)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative lexical weight", func(c *Config) { c.Search.LexicalWeight = -0.1 }},
		{"zero weights", func(c *Config) { c.Search.LexicalWeight = 0; c.Search.SemanticWeight = 0 }},
		{"threshold above one", func(c *Config) { c.Search.SimilarityThreshold = 1.5 }},
		{"zero max results", func(c *Config) { c.Search.MaxResults = 0 }},
		{"zero cache size", func(c *Config) { c.Search.CacheSize = 0 }},
		{"boost cap below one", func(c *Config) { c.Search.BoostCap = 0.5 }},
		{"synonym weight at one", func(c *Config) { c.Expansion.SynonymWeight = 1.0 }},
		{"zero fuzzy threshold", func(c *Config) { c.Expansion.FuzzyThreshold = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := Default()
	cfg.Search.MaxResults = 50
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 50, loaded.Search.MaxResults)
}

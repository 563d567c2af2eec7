// Package config loads and validates the application configuration.
// Values come from a YAML file layered over built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete application configuration.
type Config struct {
	Version    int              `yaml:"version"`
	Paths      PathsConfig      `yaml:"paths"`
	Search     SearchConfig     `yaml:"search"`
	Expansion  ExpansionConfig  `yaml:"expansion"`
	Embeddings EmbeddingsConfig `yaml:"embeddings"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// PathsConfig locates the on-disk artifacts.
type PathsConfig struct {
	// DataDir is the base directory for all persisted state.
	DataDir string `yaml:"data_dir"`
	// DatabasePath is the SQLite article database. Defaults under DataDir.
	DatabasePath string `yaml:"database_path"`
	// IndexDir holds the vector index and its id mapping. Defaults under DataDir.
	IndexDir string `yaml:"index_dir"`
}

// SearchConfig configures hybrid search behavior.
type SearchConfig struct {
	// LexicalWeight scales keyword scores during fusion (default: 0.6).
	LexicalWeight float64 `yaml:"lexical_weight"`

	// SemanticWeight scales similarity scores during fusion (default: 0.4).
	SemanticWeight float64 `yaml:"semantic_weight"`

	// MaxResults caps the final ranked result list (default: 20).
	MaxResults int `yaml:"max_results"`

	// SimilarityThreshold discards semantic neighbors below it (default: 0.7).
	SimilarityThreshold float64 `yaml:"similarity_threshold"`

	// BoostFactor scales per-occurrence boost-term contributions (default: 0.1).
	// The total boost is capped at BoostCap times the base score.
	BoostFactor float64 `yaml:"boost_factor"`

	// BoostCap limits rescored lexical scores to BoostCap × base (default: 2.0).
	// Heuristic inherited from the production system; tunable, not derived.
	BoostCap float64 `yaml:"boost_cap"`

	// ContextTermBoost is the per-hit semantic boost for domain terms (default: 0.1).
	ContextTermBoost float64 `yaml:"context_term_boost"`

	// DocTypeBoost is the flat bonus when the domain tag matches the
	// result's document type (default: 0.15).
	DocTypeBoost float64 `yaml:"doc_type_boost"`

	// HighlightWindow is the context width in characters around a match (default: 60).
	HighlightWindow int `yaml:"highlight_window"`

	// MaxHighlights caps highlights per lexical result (default: 3).
	MaxHighlights int `yaml:"max_highlights"`

	// CacheSize bounds the result cache entry count (default: 100).
	CacheSize int `yaml:"cache_size"`

	// Parallel runs lexical and semantic executors concurrently (default: true).
	// Fused output is identical either way; only latency differs.
	Parallel bool `yaml:"parallel"`

	// SemanticEnabled gates the semantic path (default: true). Resolved against
	// embedder availability once at startup.
	SemanticEnabled bool `yaml:"semantic_enabled"`
}

// ExpansionConfig configures query expansion weights.
type ExpansionConfig struct {
	// SynonymWeight is assigned to synonym terms (default: 0.8).
	SynonymWeight float64 `yaml:"synonym_weight"`

	// AbbreviationWeight is assigned to abbreviation expansions (default: 0.9).
	// Higher than synonyms: abbreviations are near-exact.
	AbbreviationWeight float64 `yaml:"abbreviation_weight"`

	// ContextWeight is assigned to same-domain context terms (default: 0.6).
	ContextWeight float64 `yaml:"context_weight"`

	// MaxContextTerms caps context terms added per seed term (default: 3).
	MaxContextTerms int `yaml:"max_context_terms"`

	// FuzzyThreshold is the normalized similarity floor for approximate
	// synonym lookup (default: 0.8).
	FuzzyThreshold float64 `yaml:"fuzzy_threshold"`
}

// EmbeddingsConfig configures the embedding provider.
type EmbeddingsConfig struct {
	// Provider selects the embedder: "ollama", "static", or "auto"
	// (ollama with static fallback, default).
	Provider string `yaml:"provider"`

	// Model is the embedding model name for remote providers.
	Model string `yaml:"model"`

	// Dimensions is the embedding dimension (0 = auto-detect / provider default).
	Dimensions int `yaml:"dimensions"`

	// OllamaHost is the Ollama API endpoint (default: http://localhost:11434).
	OllamaHost string `yaml:"ollama_host"`

	// Timeout bounds a single embedding request (default: 60s).
	Timeout time.Duration `yaml:"timeout"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		Version: 1,
		Paths: PathsConfig{
			DataDir: defaultDataDir(),
		},
		Search: SearchConfig{
			LexicalWeight:       0.6,
			SemanticWeight:      0.4,
			MaxResults:          20,
			SimilarityThreshold: 0.7,
			BoostFactor:         0.1,
			BoostCap:            2.0,
			ContextTermBoost:    0.1,
			DocTypeBoost:        0.15,
			HighlightWindow:     60,
			MaxHighlights:       3,
			CacheSize:           100,
			Parallel:            true,
			SemanticEnabled:     true,
		},
		Expansion: ExpansionConfig{
			SynonymWeight:      0.8,
			AbbreviationWeight: 0.9,
			ContextWeight:      0.6,
			MaxContextTerms:    3,
			FuzzyThreshold:     0.8,
		},
		Embeddings: EmbeddingsConfig{
			Provider:   "auto",
			Model:      "embeddinggemma",
			OllamaHost: "http://localhost:11434",
			Timeout:    60 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mevzuat"
	}
	return filepath.Join(home, ".mevzuat")
}

// Load reads a YAML config file over defaults. A missing file returns defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				cfg.applyDerivedPaths()
				return cfg, nil
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyDerivedPaths()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDerivedPaths fills path defaults that depend on DataDir.
func (c *Config) applyDerivedPaths() {
	if c.Paths.DataDir == "" {
		c.Paths.DataDir = defaultDataDir()
	}
	if c.Paths.DatabasePath == "" {
		c.Paths.DatabasePath = filepath.Join(c.Paths.DataDir, "mevzuat.db")
	}
	if c.Paths.IndexDir == "" {
		c.Paths.IndexDir = filepath.Join(c.Paths.DataDir, "index")
	}
}

// Validate checks invariants the rest of the system depends on.
func (c *Config) Validate() error {
	s := c.Search
	if s.LexicalWeight < 0 || s.SemanticWeight < 0 {
		return fmt.Errorf("search weights must be non-negative (lexical=%v semantic=%v)", s.LexicalWeight, s.SemanticWeight)
	}
	if s.LexicalWeight+s.SemanticWeight == 0 {
		return fmt.Errorf("search weights must not both be zero")
	}
	if s.SimilarityThreshold < 0 || s.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity_threshold must be in [0,1], got %v", s.SimilarityThreshold)
	}
	if s.MaxResults <= 0 {
		return fmt.Errorf("max_results must be positive, got %d", s.MaxResults)
	}
	if s.CacheSize <= 0 {
		return fmt.Errorf("cache_size must be positive, got %d", s.CacheSize)
	}
	if s.BoostCap < 1.0 {
		return fmt.Errorf("boost_cap must be >= 1.0, got %v", s.BoostCap)
	}
	e := c.Expansion
	for name, w := range map[string]float64{
		"synonym_weight":      e.SynonymWeight,
		"abbreviation_weight": e.AbbreviationWeight,
		"context_weight":      e.ContextWeight,
	} {
		if w <= 0 || w >= 1 {
			return fmt.Errorf("expansion %s must be in (0,1), got %v", name, w)
		}
	}
	if e.FuzzyThreshold <= 0 || e.FuzzyThreshold > 1 {
		return fmt.Errorf("fuzzy_threshold must be in (0,1], got %v", e.FuzzyThreshold)
	}
	return nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

package embed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mevzuat/arama/internal/config"
)

// NewFromConfig resolves the configured embedding provider. The "auto"
// provider prefers Ollama and falls back to the static embedder when the
// endpoint is unreachable. Resolution happens once; the choice does not
// change while the process runs.
func NewFromConfig(ctx context.Context, cfg config.EmbeddingsConfig) (Embedder, error) {
	switch cfg.Provider {
	case "static":
		return NewStaticEmbedder(), nil

	case "ollama":
		e := newOllama(cfg)
		if !e.Available(ctx) {
			_ = e.Close()
			return nil, fmt.Errorf("ollama is not reachable at %s", cfg.OllamaHost)
		}
		return e, nil

	case "", "auto":
		e := newOllama(cfg)
		if e.Available(ctx) {
			return e, nil
		}
		_ = e.Close()
		slog.Warn("embedder_fallback",
			slog.String("from", "ollama"),
			slog.String("to", "static"),
			slog.String("host", cfg.OllamaHost))
		return NewStaticEmbedder(), nil

	default:
		return nil, fmt.Errorf("unknown embeddings provider %q", cfg.Provider)
	}
}

func newOllama(cfg config.EmbeddingsConfig) *OllamaEmbedder {
	return NewOllamaEmbedder(OllamaConfig{
		Host:       cfg.OllamaHost,
		Model:      cfg.Model,
		Dimensions: cfg.Dimensions,
		Timeout:    cfg.Timeout,
	})
}

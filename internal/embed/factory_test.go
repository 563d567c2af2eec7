package embed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mevzuat/arama/internal/config"
)

func TestNewFromConfig_Static(t *testing.T) {
	e, err := NewFromConfig(context.Background(), config.EmbeddingsConfig{Provider: "static"})
	require.NoError(t, err)
	defer e.Close()
	assert.Equal(t, "static", e.ModelName())
}

func TestNewFromConfig_AutoFallsBackToStatic(t *testing.T) {
	// Nothing listens on this port; auto must fall back.
	e, err := NewFromConfig(context.Background(), config.EmbeddingsConfig{
		Provider:   "auto",
		OllamaHost: "http://127.0.0.1:1",
		Timeout:    time.Second,
	})
	require.NoError(t, err)
	defer e.Close()
	assert.Equal(t, "static", e.ModelName())
}

func TestNewFromConfig_OllamaUnreachableErrors(t *testing.T) {
	_, err := NewFromConfig(context.Background(), config.EmbeddingsConfig{
		Provider:   "ollama",
		OllamaHost: "http://127.0.0.1:1",
		Timeout:    time.Second,
	})
	assert.Error(t, err)
}

func TestNewFromConfig_UnknownProvider(t *testing.T) {
	_, err := NewFromConfig(context.Background(), config.EmbeddingsConfig{Provider: "bogus"})
	assert.Error(t, err)
}

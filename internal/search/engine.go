package search

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mevzuat/arama/internal/config"
	"github.com/mevzuat/arama/internal/embed"
	apperrors "github.com/mevzuat/arama/internal/errors"
	"github.com/mevzuat/arama/internal/store"
	"github.com/mevzuat/arama/internal/vector"
)

// Engine orchestrates hybrid search: expansion, parameter building, the
// lexical and semantic executors, fusion, caching, and history recording.
type Engine struct {
	cfg      *config.Config
	articles store.ArticleStore
	history  store.HistorySink

	expander *Expander
	lexical  *lexicalExecutor
	semantic *semanticExecutor
	cache    *resultCache

	index           func() *vector.Index
	modelName       string
	semanticEnabled bool
}

// NewEngine wires an engine over the article store and vector index.
// history may be nil to disable search-history recording. Semantic search
// resolves once here: it stays off for the engine's lifetime when disabled
// in config.
func NewEngine(cfg *config.Config, articles store.ArticleStore, history store.HistorySink, index func() *vector.Index, embedder embed.Embedder) (*Engine, error) {
	cache, err := newResultCache(cfg.Search.CacheSize)
	if err != nil {
		return nil, err
	}

	return &Engine{
		cfg:             cfg,
		articles:        articles,
		history:         history,
		expander:        NewExpander(cfg.Expansion),
		lexical:         newLexicalExecutor(articles, cfg.Search),
		semantic:        newSemanticExecutor(index, embedder, articles, cfg.Search),
		cache:           cache,
		index:           index,
		modelName:       embedder.ModelName(),
		semanticEnabled: cfg.Search.SemanticEnabled,
	}, nil
}

// Search runs a query and returns results ranked by descending score.
func (e *Engine) Search(ctx context.Context, query string, opts Options) ([]Result, error) {
	start := time.Now()

	if strings.TrimSpace(query) == "" {
		return nil, apperrors.New(apperrors.ErrCodeEmptyQuery, "query must not be empty", nil)
	}
	if opts.Modality == "" {
		opts.Modality = ModalityMixed
	}
	switch opts.Modality {
	case ModalityKeyword, ModalitySemantic, ModalityMixed:
	default:
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "unknown search modality "+string(opts.Modality), nil)
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = e.cfg.Search.MaxResults
	}

	cacheKey := e.cache.key(query, opts, limit)
	if cached, ok := e.cache.get(cacheKey); ok {
		slog.Debug("search_cache_hit", slog.String("query", truncate(query, 50)))
		return cached, nil
	}

	params := BuildParams(e.expander.Expand(query), e.cfg.Search.SimilarityThreshold)

	results, err := e.execute(ctx, params, opts, limit)
	if err != nil {
		return nil, err
	}

	// Stable sort on score alone: ties keep the fusion-produced order,
	// which is the lexical-then-semantic merge order.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}

	e.cache.put(cacheKey, results)
	e.recordHistory(ctx, query, opts.Modality, len(results), time.Since(start))

	slog.Info("search_completed",
		slog.String("query", truncate(query, 50)),
		slog.String("modality", string(opts.Modality)),
		slog.Int("results", len(results)),
		slog.Duration("duration", time.Since(start)))
	return results, nil
}

func (e *Engine) execute(ctx context.Context, params Params, opts Options, limit int) ([]Result, error) {
	switch opts.Modality {
	case ModalityKeyword:
		return e.lexical.search(ctx, params.Lexical, opts, limit)

	case ModalitySemantic:
		if !e.semanticEnabled {
			// Keyword fallback keeps the operation usable when the
			// semantic path is configured off.
			return e.lexical.search(ctx, params.Lexical, opts, limit)
		}
		return e.semantic.search(ctx, params.Semantic, opts, limit)

	default:
		return e.mixedSearch(ctx, params, opts, limit)
	}
}

// mixedSearch runs both executors, in parallel when configured, and fuses
// their results. One failed path degrades to the other's results; both
// failing is a search-unavailable error.
func (e *Engine) mixedSearch(ctx context.Context, params Params, opts Options, limit int) ([]Result, error) {
	var lexResults, semResults []Result
	var lexErr, semErr error

	if !e.semanticEnabled {
		lexResults, lexErr = e.lexical.search(ctx, params.Lexical, opts, limit)
		if lexErr != nil {
			return nil, lexErr
		}
		return fuse(lexResults, nil, e.cfg.Search.LexicalWeight, e.cfg.Search.SemanticWeight), nil
	}

	if e.cfg.Search.Parallel {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			lexResults, lexErr = e.lexical.search(gctx, params.Lexical, opts, limit)
			return nil
		})
		g.Go(func() error {
			semResults, semErr = e.semantic.search(gctx, params.Semantic, opts, limit)
			return nil
		})
		_ = g.Wait()
	} else {
		lexResults, lexErr = e.lexical.search(ctx, params.Lexical, opts, limit)
		semResults, semErr = e.semantic.search(ctx, params.Semantic, opts, limit)
	}

	if lexErr != nil && semErr != nil {
		return nil, apperrors.New(apperrors.ErrCodeSearchUnavailable,
			"both lexical and semantic search failed", lexErr)
	}
	if lexErr != nil {
		slog.Warn("lexical_search_degraded", slog.String("error", lexErr.Error()))
		lexResults = nil
	}
	if semErr != nil {
		slog.Warn("semantic_search_degraded", slog.String("error", semErr.Error()))
		semResults = nil
	}

	return fuse(lexResults, semResults, e.cfg.Search.LexicalWeight, e.cfg.Search.SemanticWeight), nil
}

// recordHistory is fire-and-forget: a failing sink never affects results.
func (e *Engine) recordHistory(ctx context.Context, query string, modality Modality, count int, duration time.Duration) {
	if e.history == nil {
		return
	}
	if err := e.history.Record(ctx, store.HistoryEntry{
		Query:       query,
		Modality:    string(modality),
		ResultCount: count,
		Duration:    duration,
	}); err != nil {
		slog.Warn("history_record_failed", slog.String("error", err.Error()))
	}
}

// Suggest returns query completions from recent history plus a static
// fallback list.
func (e *Engine) Suggest(ctx context.Context, prefix string, limit int) ([]string, error) {
	if e.history == nil {
		return nil, nil
	}
	if len(strings.TrimSpace(prefix)) < 2 {
		return nil, nil
	}
	return e.history.Suggest(ctx, prefix, limit)
}

// InvalidateCache orphans all cached results. The vector manager calls
// this after every index swap so a rebuilt index is immediately visible.
func (e *Engine) InvalidateCache() {
	e.cache.invalidateAll()
}

// Stats summarizes the engine's runtime state.
type Stats struct {
	SemanticEnabled bool
	IndexSize       int
	CacheEntries    int
	EmbeddingModel  string
}

// Stats returns the engine's runtime statistics.
func (e *Engine) Stats() Stats {
	return Stats{
		SemanticEnabled: e.semanticEnabled,
		IndexSize:       e.index().Size(),
		CacheEntries:    e.cache.len(),
		EmbeddingModel:  e.modelName,
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

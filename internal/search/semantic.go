package search

import (
	"context"
	"strings"
	"unicode"

	"github.com/mevzuat/arama/internal/config"
	"github.com/mevzuat/arama/internal/embed"
	apperrors "github.com/mevzuat/arama/internal/errors"
	"github.com/mevzuat/arama/internal/store"
	"github.com/mevzuat/arama/internal/vector"
)

// semanticHighlightCount leading sentences serve as pseudo-highlights.
const semanticHighlightCount = 2

// semanticExecutor embeds the enriched query, walks the vector index, and
// hydrates neighbors from the article store.
type semanticExecutor struct {
	index    func() *vector.Index
	embedder embed.Embedder
	articles store.ArticleStore
	cfg      config.SearchConfig
}

func newSemanticExecutor(index func() *vector.Index, embedder embed.Embedder, articles store.ArticleStore, cfg config.SearchConfig) *semanticExecutor {
	return &semanticExecutor{index: index, embedder: embedder, articles: articles, cfg: cfg}
}

// search returns semantic hits above the similarity threshold. An empty
// index yields no results and no error so the lexical path can carry the
// search alone.
func (sx *semanticExecutor) search(ctx context.Context, params SemanticParams, opts Options, limit int) ([]Result, error) {
	ix := sx.index()
	size := ix.Size()
	if size == 0 {
		return []Result{}, nil
	}

	queryVector, err := sx.embedder.Embed(ctx, params.Query)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeSemanticFailed, err)
	}

	// Over-fetch: post-filters (threshold, types, repealed) thin the set.
	k := min(limit*3, size)
	neighbors, err := ix.Search(ctx, queryVector, k)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeSemanticFailed, err)
	}

	typeFilter := make(map[string]bool, len(opts.DocumentTypes))
	for _, t := range opts.DocumentTypes {
		typeFilter[t] = true
	}

	results := make([]Result, 0, len(neighbors))
	for _, n := range neighbors {
		if n.Similarity < params.Threshold {
			continue
		}

		rec, err := sx.articles.GetArticleWithDocument(ctx, n.ArticleID)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeSemanticFailed, err)
		}
		// The index can briefly reference articles deleted from the
		// store between rebuilds; skip them.
		if rec == nil {
			continue
		}

		if len(typeFilter) > 0 && !typeFilter[rec.DocumentType] {
			continue
		}
		if rec.IsRepealed && !opts.IncludeRepealed {
			continue
		}

		score := sx.contextBoost(n.Similarity, params.Domain, rec)
		highlights := semanticHighlights(rec.Content)
		results = append(results, resultFromRecord(rec, score, ModalitySemantic, highlights))
	}
	return results, nil
}

// contextBoost raises similarity multiplicatively: ContextTermBoost per
// domain term present in the article, DocTypeBoost when the document type
// itself names the domain.
func (sx *semanticExecutor) contextBoost(similarity float64, domain string, rec *store.ArticleRecord) float64 {
	if domain == "" {
		return similarity
	}

	contentLower := strings.ToLowerSpecial(unicode.TurkishCase, rec.Content)
	factor := 1.0
	for _, term := range domainBoostTerms[domain] {
		if strings.Contains(contentLower, term) {
			factor += sx.cfg.ContextTermBoost
		}
	}
	if strings.Contains(strings.ToLowerSpecial(unicode.TurkishCase, rec.DocumentType), domain) {
		factor += sx.cfg.DocTypeBoost
	}
	return similarity * factor
}

// semanticHighlights takes the first substantial sentences. Vector hits
// have no term positions to anchor on, so the article opening stands in.
func semanticHighlights(content string) []string {
	var highlights []string
	for _, sentence := range strings.Split(content, ".") {
		sentence = strings.TrimSpace(sentence)
		if len([]rune(sentence)) > 20 {
			highlights = append(highlights, sentence+".")
			if len(highlights) >= semanticHighlightCount {
				break
			}
		}
	}
	return highlights
}

package search

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"github.com/mevzuat/arama/internal/config"
	apperrors "github.com/mevzuat/arama/internal/errors"
	"github.com/mevzuat/arama/internal/store"
)

// lexicalExecutor runs boolean FTS queries and rescores matches by how
// often the high-weight expansion terms occur in the article body.
type lexicalExecutor struct {
	articles store.ArticleStore
	cfg      config.SearchConfig
}

func newLexicalExecutor(articles store.ArticleStore, cfg config.SearchConfig) *lexicalExecutor {
	return &lexicalExecutor{articles: articles, cfg: cfg}
}

// search fetches twice the limit to leave room for post-filtering, then
// filters repealed articles, boosts, and builds highlights.
func (lx *lexicalExecutor) search(ctx context.Context, params LexicalParams, opts Options, limit int) ([]Result, error) {
	records, err := lx.articles.SearchArticles(ctx, params.FTSQuery, opts.DocumentTypes, limit*2)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeLexicalFailed, err)
	}

	results := make([]Result, 0, len(records))
	for _, rec := range records {
		if rec.IsRepealed && !opts.IncludeRepealed {
			continue
		}

		score := lx.boostScore(rec.Content, params.BoostTerms, params.Weights, rec.Rank)
		highlights := lx.highlights(rec.Content, params.BoostTerms)
		results = append(results, resultFromRecord(rec, score, ModalityKeyword, highlights))
	}
	return results, nil
}

// boostScore adds BoostFactor per weighted occurrence of each boost term,
// capped at BoostCap times the base score so expansion never swamps the
// FTS ranking.
func (lx *lexicalExecutor) boostScore(content string, boostTerms []string, weights map[string]float64, base float64) float64 {
	if len(boostTerms) == 0 {
		return base
	}

	contentLower := strings.ToLowerSpecial(unicode.TurkishCase, content)
	score := base
	for _, term := range boostTerms {
		count := strings.Count(contentLower, strings.ToLowerSpecial(unicode.TurkishCase, term))
		if count == 0 {
			continue
		}
		weight, ok := weights[term]
		if !ok {
			weight = 1.0
		}
		score += float64(count) * weight * lx.cfg.BoostFactor
	}

	return min(score, base*lx.cfg.BoostCap)
}

// highlights returns up to MaxHighlights snippets around term matches with
// each matched word wrapped in <mark> tags.
func (lx *lexicalExecutor) highlights(content string, terms []string) []string {
	var highlights []string
	window := lx.cfg.HighlightWindow
	maxHighlights := lx.cfg.MaxHighlights

	for _, term := range terms {
		if len([]rune(term)) < 3 {
			continue
		}
		pattern := wordPattern(term)
		for _, loc := range pattern.FindAllStringIndex(content, -1) {
			start := max(0, loc[0]-window)
			end := min(len(content), loc[1]+window)
			// Clamp to rune boundaries so the snippet never splits a
			// multi-byte Turkish character.
			for start > 0 && !utf8Start(content[start]) {
				start--
			}
			for end < len(content) && !utf8Start(content[end]) {
				end++
			}

			snippet := pattern.ReplaceAllString(content[start:end], "<mark>$0</mark>")
			highlights = append(highlights, strings.TrimSpace(snippet))
			if len(highlights) >= maxHighlights {
				return highlights
			}
		}
	}
	return highlights
}

// wordPattern matches any word containing the term, case-insensitively.
func wordPattern(term string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)[\p{L}\p{N}]*` + regexp.QuoteMeta(term) + `[\p{L}\p{N}]*`)
}

// utf8Start reports whether b begins a UTF-8 sequence.
func utf8Start(b byte) bool {
	return b&0xC0 != 0x80
}

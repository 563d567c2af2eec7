// Package search implements hybrid retrieval over Turkish legal articles:
// query expansion, a lexical (FTS) executor, a semantic (vector) executor,
// weighted score fusion, and an LRU result cache, orchestrated by Engine.
package search

import "github.com/mevzuat/arama/internal/store"

// Modality selects which retrieval paths run.
type Modality string

const (
	// ModalityKeyword runs only the lexical executor.
	ModalityKeyword Modality = "keyword"

	// ModalitySemantic runs only the semantic executor.
	ModalitySemantic Modality = "semantic"

	// ModalityMixed runs both and fuses the scores.
	ModalityMixed Modality = "mixed"
)

// Options filter and shape a search.
type Options struct {
	// Modality defaults to mixed.
	Modality Modality

	// DocumentTypes restricts results to the given types ("kanun",
	// "yönetmelik", ...). Empty means all.
	DocumentTypes []string

	// IncludeRepealed keeps repealed articles in the results.
	IncludeRepealed bool

	// Limit caps the result list. Zero uses the configured maximum.
	Limit int
}

// Result is one ranked article.
type Result struct {
	ArticleID     int64
	DocumentID    int64
	ArticleNumber string
	Title         string
	Content       string
	DocumentTitle string
	LawNumber     string
	DocumentType  string
	IsRepealed    bool
	IsAmended     bool

	// Score is modality-dependent: a boosted FTS rank for keyword hits,
	// a boosted cosine similarity for semantic hits, or their weighted
	// sum for mixed hits.
	Score float64

	// MatchType records which path(s) produced the result.
	MatchType Modality

	// Highlights are content snippets with matched words in <mark> tags
	// for keyword hits, leading sentences for semantic hits.
	Highlights []string
}

func resultFromRecord(rec *store.ArticleRecord, score float64, matchType Modality, highlights []string) Result {
	return Result{
		ArticleID:     rec.ID,
		DocumentID:    rec.DocumentID,
		ArticleNumber: rec.ArticleNumber,
		Title:         rec.Title,
		Content:       rec.Content,
		DocumentTitle: rec.DocumentTitle,
		LawNumber:     rec.LawNumber,
		DocumentType:  rec.DocumentType,
		IsRepealed:    rec.IsRepealed,
		IsAmended:     rec.IsAmended,
		Score:         score,
		MatchType:     matchType,
		Highlights:    highlights,
	}
}

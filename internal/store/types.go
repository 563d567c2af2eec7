// Package store persists legal documents and their articles in SQLite and
// exposes the read surface the retrieval core depends on: FTS5 boolean search,
// denormalized article lookup, and the search-history sink.
package store

import (
	"context"
	"time"
)

// Document is a legal document (statute, regulation, circular).
type Document struct {
	ID           int64
	Title        string
	LawNumber    string
	DocumentType string // "kanun", "yönetmelik", "genelge", ...
	CreatedAt    time.Time
}

// Article is a single article within a document. The retrieval core treats
// articles as read-only; updates belong to the ingestion collaborator.
type Article struct {
	ID            int64
	DocumentID    int64
	ArticleNumber string // nullable ordinal/string ("5", "5/A", ...)
	Title         string
	Content       string
	ContentClean  string // normalized text used for embedding
	SeqIndex      int    // ordering within the document
	IsRepealed    bool
	IsAmended     bool
}

// ArticleRecord is an article joined with its document's denormalized fields,
// as returned by search and lookup queries.
type ArticleRecord struct {
	Article

	DocumentTitle string
	LawNumber     string
	DocumentType  string

	// Rank is the FTS match score for search results (higher is better).
	// Zero for plain lookups.
	Rank float64
}

// EmbedSource is the minimal article projection the index rebuild consumes.
type EmbedSource struct {
	ArticleID int64
	Content   string
}

// ArticleStore is the article read surface consumed by the retrieval core.
type ArticleStore interface {
	// SearchArticles runs an FTS5 boolean query and returns matching articles
	// with denormalized document fields, best matches first.
	SearchArticles(ctx context.Context, booleanQuery string, typeFilters []string, limit int) ([]*ArticleRecord, error)

	// GetArticleWithDocument returns the article joined with its document,
	// or (nil, nil) when the article does not exist.
	GetArticleWithDocument(ctx context.Context, articleID int64) (*ArticleRecord, error)

	// EmbedSources returns every article with cleaned content, for index rebuild.
	EmbedSources(ctx context.Context) ([]*EmbedSource, error)

	Close() error
}

// HistoryEntry records one executed search.
type HistoryEntry struct {
	Query       string
	Modality    string
	ResultCount int
	Duration    time.Duration
}

// HistorySink is a fire-and-forget recorder of executed searches.
// Failures must never affect search results.
type HistorySink interface {
	Record(ctx context.Context, entry HistoryEntry) error

	// Suggest returns recent distinct queries containing prefix, newest first.
	Suggest(ctx context.Context, prefix string, limit int) ([]string, error)
}

// Stats summarizes store contents.
type Stats struct {
	DocumentCount int
	ArticleCount  int
	SearchCount   int
}

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)
)

// SQLiteStore implements ArticleStore and HistorySink over a single SQLite
// database. WAL mode allows concurrent query-time reads.
type SQLiteStore struct {
	mu     sync.RWMutex
	db     *sql.DB
	path   string
	closed bool
}

var (
	_ ArticleStore = (*SQLiteStore)(nil)
	_ HistorySink  = (*SQLiteStore)(nil)
)

// Open opens (or creates) the article database. An empty path opens an
// in-memory database for testing.
func Open(path string) (*SQLiteStore, error) {
	dsn := ":memory:"
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
		dsn = path
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Single writer prevents lock contention; reads go through WAL.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	s := &SQLiteStore{db: db, path: path}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY
	);

	CREATE TABLE IF NOT EXISTS documents (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		law_number TEXT,
		document_type TEXT NOT NULL,
		created_at TEXT NOT NULL DEFAULT (datetime('now'))
	);

	CREATE TABLE IF NOT EXISTS articles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		document_id INTEGER NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
		article_number TEXT,
		title TEXT,
		content TEXT NOT NULL,
		content_clean TEXT,
		seq_index INTEGER DEFAULT 0,
		is_repealed INTEGER DEFAULT 0,
		is_amended INTEGER DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_articles_document ON articles(document_id);

	-- FTS5 index over article text. Kept in sync explicitly on write;
	-- the retrieval core only reads it.
	CREATE VIRTUAL TABLE IF NOT EXISTS articles_fts USING fts5(
		article_id UNINDEXED,
		title,
		content,
		tokenize='unicode61'
	);

	CREATE TABLE IF NOT EXISTS search_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		query TEXT NOT NULL,
		query_type TEXT DEFAULT 'MIXED',
		results_count INTEGER DEFAULT 0,
		execution_time_ms REAL,
		created_at TEXT NOT NULL DEFAULT (datetime('now'))
	);

	INSERT OR IGNORE INTO schema_version (version) VALUES (1);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveDocument inserts a document and returns its id.
// Write operations exist for the ingestion collaborator and tests.
func (s *SQLiteStore) SaveDocument(ctx context.Context, doc *Document) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, fmt.Errorf("store is closed")
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (title, law_number, document_type) VALUES (?, ?, ?)`,
		doc.Title, doc.LawNumber, doc.DocumentType)
	if err != nil {
		return 0, fmt.Errorf("insert document: %w", err)
	}
	return res.LastInsertId()
}

// SaveArticles inserts articles and their FTS rows in one transaction.
func (s *SQLiteStore) SaveArticles(ctx context.Context, articles []*Article) error {
	if len(articles) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("store is closed")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	insertStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO articles (document_id, article_number, title, content, content_clean, seq_index, is_repealed, is_amended)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare article insert: %w", err)
	}
	defer insertStmt.Close()

	ftsStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO articles_fts (article_id, title, content) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare FTS insert: %w", err)
	}
	defer ftsStmt.Close()

	for _, a := range articles {
		res, err := insertStmt.ExecContext(ctx,
			a.DocumentID, a.ArticleNumber, a.Title, a.Content, a.ContentClean,
			a.SeqIndex, boolToInt(a.IsRepealed), boolToInt(a.IsAmended))
		if err != nil {
			return fmt.Errorf("insert article: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("article id: %w", err)
		}
		a.ID = id

		ftsContent := a.ContentClean
		if ftsContent == "" {
			ftsContent = a.Content
		}
		if _, err := ftsStmt.ExecContext(ctx, id, a.Title, ftsContent); err != nil {
			return fmt.Errorf("index article %d: %w", id, err)
		}
	}

	return tx.Commit()
}

const recordColumns = `
	a.id, a.document_id, a.article_number, a.title, a.content, a.content_clean,
	a.seq_index, a.is_repealed, a.is_amended,
	d.title, d.law_number, d.document_type`

// SearchArticles implements ArticleStore.
func (s *SQLiteStore) SearchArticles(ctx context.Context, booleanQuery string, typeFilters []string, limit int) ([]*ArticleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, fmt.Errorf("store is closed")
	}
	if strings.TrimSpace(booleanQuery) == "" {
		return []*ArticleRecord{}, nil
	}

	query := `
		SELECT ` + recordColumns + `, bm25(articles_fts) AS rank
		FROM articles_fts f
		JOIN articles a ON a.id = f.article_id
		JOIN documents d ON d.id = a.document_id
		WHERE articles_fts MATCH ?`
	args := []any{booleanQuery}

	if len(typeFilters) > 0 {
		placeholders := strings.Repeat("?,", len(typeFilters))
		query += fmt.Sprintf(" AND d.document_type IN (%s)", placeholders[:len(placeholders)-1])
		for _, t := range typeFilters {
			args = append(args, t)
		}
	}

	query += " ORDER BY rank LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		// FTS5 rejects malformed match expressions; treat as no results,
		// matching how an empty full-text hit behaves.
		if strings.Contains(err.Error(), "fts5") || strings.Contains(err.Error(), "syntax error") {
			slog.Debug("fts_query_rejected", slog.String("query", booleanQuery), slog.String("error", err.Error()))
			return []*ArticleRecord{}, nil
		}
		return nil, fmt.Errorf("search articles: %w", err)
	}
	defer rows.Close()

	var results []*ArticleRecord
	for rows.Next() {
		rec, err := scanRecord(rows, true)
		if err != nil {
			return nil, err
		}
		// FTS5 bm25() is negative, lower is better. Negate so that
		// higher means a better match throughout the retrieval core.
		rec.Rank = -rec.Rank
		results = append(results, rec)
	}
	return results, rows.Err()
}

// GetArticleWithDocument implements ArticleStore.
func (s *SQLiteStore) GetArticleWithDocument(ctx context.Context, articleID int64) (*ArticleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, fmt.Errorf("store is closed")
	}

	query := `
		SELECT ` + recordColumns + `
		FROM articles a
		JOIN documents d ON d.id = a.document_id
		WHERE a.id = ?`

	rows, err := s.db.QueryContext(ctx, query, articleID)
	if err != nil {
		return nil, fmt.Errorf("get article %d: %w", articleID, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanRecord(rows, false)
}

// EmbedSources implements ArticleStore.
func (s *SQLiteStore) EmbedSources(ctx context.Context) ([]*EmbedSource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, fmt.Errorf("store is closed")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content_clean FROM articles
		WHERE content_clean IS NOT NULL AND content_clean != ''
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list embed sources: %w", err)
	}
	defer rows.Close()

	var sources []*EmbedSource
	for rows.Next() {
		src := &EmbedSource{}
		if err := rows.Scan(&src.ArticleID, &src.Content); err != nil {
			return nil, fmt.Errorf("scan embed source: %w", err)
		}
		sources = append(sources, src)
	}
	return sources, rows.Err()
}

// Stats returns store statistics.
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, fmt.Errorf("store is closed")
	}

	stats := &Stats{}
	counts := map[string]*int{
		"documents":      &stats.DocumentCount,
		"articles":       &stats.ArticleCount,
		"search_history": &stats.SearchCount,
	}
	for table, dst := range counts {
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(dst); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
	}
	return stats, nil
}

// Close closes the database. Idempotent.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.db != nil {
		_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
		return s.db.Close()
	}
	return nil
}

func scanRecord(rows *sql.Rows, withRank bool) (*ArticleRecord, error) {
	rec := &ArticleRecord{}
	var articleNumber, title, contentClean, lawNumber sql.NullString
	var repealed, amended int

	dest := []any{
		&rec.ID, &rec.DocumentID, &articleNumber, &title, &rec.Content, &contentClean,
		&rec.SeqIndex, &repealed, &amended,
		&rec.DocumentTitle, &lawNumber, &rec.DocumentType,
	}
	if withRank {
		dest = append(dest, &rec.Rank)
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, fmt.Errorf("scan article: %w", err)
	}

	rec.ArticleNumber = articleNumber.String
	rec.Title = title.String
	rec.ContentClean = contentClean.String
	rec.LawNumber = lawNumber.String
	rec.IsRepealed = repealed != 0
	rec.IsAmended = amended != 0
	return rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

package search

import (
	"context"
	"sync"

	"github.com/mevzuat/arama/internal/config"
	"github.com/mevzuat/arama/internal/store"
	"github.com/mevzuat/arama/internal/vector"
)

// fakeArticles is a canned ArticleStore for executor and engine tests.
type fakeArticles struct {
	mu        sync.Mutex
	records   []*store.ArticleRecord
	searchErr error
	calls     int
}

func (f *fakeArticles) SearchArticles(_ context.Context, _ string, typeFilters []string, _ int) ([]*store.ArticleRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.searchErr != nil {
		return nil, f.searchErr
	}

	allowed := make(map[string]bool, len(typeFilters))
	for _, t := range typeFilters {
		allowed[t] = true
	}
	var out []*store.ArticleRecord
	for _, r := range f.records {
		if len(allowed) > 0 && !allowed[r.DocumentType] {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeArticles) GetArticleWithDocument(_ context.Context, articleID int64) (*store.ArticleRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.ID == articleID {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeArticles) EmbedSources(context.Context) ([]*store.EmbedSource, error) {
	return nil, nil
}

func (f *fakeArticles) Close() error { return nil }

func (f *fakeArticles) setRank(articleID int64, rank float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.ID == articleID {
			r.Rank = rank
		}
	}
}

// fakeHistory records history entries in memory.
type fakeHistory struct {
	mu      sync.Mutex
	entries []store.HistoryEntry
}

func (f *fakeHistory) Record(_ context.Context, entry store.HistoryEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeHistory) Suggest(context.Context, string, int) ([]string, error) {
	return nil, nil
}

// stubEmbedder returns one fixed vector for every input.
type stubEmbedder struct {
	vec []float32
	err error
}

func (s *stubEmbedder) Embed(context.Context, string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.vec, nil
}

func (s *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		v, err := s.Embed(ctx, texts[i])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (s *stubEmbedder) Dimensions() int                { return len(s.vec) }
func (s *stubEmbedder) ModelName() string              { return "stub" }
func (s *stubEmbedder) Available(context.Context) bool { return true }
func (s *stubEmbedder) Close() error                   { return nil }

func testRecord(id int64, docType, content string, rank float64) *store.ArticleRecord {
	rec := &store.ArticleRecord{
		DocumentTitle: "Test Kanunu",
		LawNumber:     "1234",
		DocumentType:  docType,
	}
	rec.ID = id
	rec.DocumentID = 1
	rec.Content = content
	rec.Rank = rank
	return rec
}

func testConfig() *config.Config {
	cfg := config.Default()
	return cfg
}

// newTestEngine assembles an engine over fakes and a prebuilt index.
func newTestEngine(cfg *config.Config, articles *fakeArticles, ix *vector.Index, emb *stubEmbedder, history store.HistorySink) *Engine {
	e, err := NewEngine(cfg, articles, history, func() *vector.Index { return ix }, emb)
	if err != nil {
		panic(err)
	}
	return e
}

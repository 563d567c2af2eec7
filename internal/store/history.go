package store

import (
	"context"
	"fmt"
	"strings"
)

// fallbackSuggestions seed the suggestion list when history is thin.
var fallbackSuggestions = []string{
	"vergi kanunu",
	"türk ceza kanunu",
	"medeni kanun",
	"borçlar kanunu",
	"iş kanunu",
	"sosyal güvenlik",
	"ticaret kanunu",
	"çevre kanunu",
	"eğitim",
	"sağlık",
}

// Record implements HistorySink.
func (s *SQLiteStore) Record(ctx context.Context, entry HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("store is closed")
	}

	query := strings.TrimSpace(entry.Query)
	if query == "" {
		return nil
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO search_history (query, query_type, results_count, execution_time_ms)
		VALUES (?, ?, ?, ?)`,
		query, strings.ToUpper(entry.Modality), entry.ResultCount,
		float64(entry.Duration.Microseconds())/1000.0)
	if err != nil {
		return fmt.Errorf("record search: %w", err)
	}
	return nil
}

// Suggest implements HistorySink. Recent distinct history entries matching the
// prefix come first; the static fallback list fills the remainder.
func (s *SQLiteStore) Suggest(ctx context.Context, prefix string, limit int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, fmt.Errorf("store is closed")
	}
	if limit <= 0 {
		limit = 10
	}

	prefix = strings.ToLower(strings.TrimSpace(prefix))

	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT query FROM search_history
		WHERE lower(query) LIKE ? ESCAPE '\'
		ORDER BY created_at DESC
		LIMIT ?`,
		escapeLike(prefix)+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("suggest queries: %w", err)
	}
	defer rows.Close()

	var suggestions []string
	seen := make(map[string]bool)
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, fmt.Errorf("scan suggestion: %w", err)
		}
		suggestions = append(suggestions, q)
		seen[strings.ToLower(q)] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, fb := range fallbackSuggestions {
		if len(suggestions) >= limit {
			break
		}
		if seen[fb] || !strings.HasPrefix(fb, prefix) {
			continue
		}
		suggestions = append(suggestions, fb)
		seen[fb] = true
	}
	return suggestions, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

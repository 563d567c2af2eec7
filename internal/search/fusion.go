package search

// fusedHighlightCap bounds merged highlight lists.
const fusedHighlightCap = 5

// fuse merges lexical and semantic results by article id with weighted
// scores. An article found by both paths becomes a mixed hit whose score is
// the weighted sum and whose highlights are deduplicated. Output order is
// deterministic: lexical hits in rank order, then semantic-only hits in
// similarity order; the caller sorts by fused score.
func fuse(lexical, semantic []Result, lexicalWeight, semanticWeight float64) []Result {
	fused := make([]Result, 0, len(lexical)+len(semantic))
	position := make(map[int64]int, len(lexical))

	for _, r := range lexical {
		r.Score *= lexicalWeight
		position[r.ArticleID] = len(fused)
		fused = append(fused, r)
	}

	for _, r := range semantic {
		if i, found := position[r.ArticleID]; found {
			fused[i].Score += r.Score * semanticWeight
			fused[i].MatchType = ModalityMixed
			fused[i].Highlights = mergeHighlights(fused[i].Highlights, r.Highlights)
			continue
		}
		r.Score *= semanticWeight
		fused = append(fused, r)
	}
	return fused
}

func mergeHighlights(a, b []string) []string {
	merged := make([]string, 0, len(a)+len(b))
	seen := make(map[string]bool, len(a)+len(b))
	for _, h := range append(append([]string{}, a...), b...) {
		if seen[h] {
			continue
		}
		seen[h] = true
		merged = append(merged, h)
		if len(merged) >= fusedHighlightCap {
			break
		}
	}
	return merged
}

package search

import (
	"fmt"
	"strings"
)

// LexicalParams drive the FTS executor.
type LexicalParams struct {
	// FTSQuery is the boolean prefix query handed to the full-text store.
	FTSQuery string

	// BoostTerms are the highest-weighted terms; their occurrences in a
	// matching article raise its score.
	BoostTerms []string

	// Weights carry the expansion weight of every term.
	Weights map[string]float64
}

// SemanticParams drive the vector executor.
type SemanticParams struct {
	// Query is the enriched text to embed: the original query, the domain
	// suffix, and the top-weighted expansion terms.
	Query string

	// Domain enables the context boost when non-empty.
	Domain string

	// Threshold discards neighbors with lower cosine similarity.
	Threshold float64
}

// Params bundles both executors' parameters for one search.
type Params struct {
	Lexical   LexicalParams
	Semantic  SemanticParams
	Expansion *Expansion
}

const (
	// ftsBoostTerms caps the boost-term list handed to the lexical executor.
	ftsBoostTerms = 3

	// ftsAlternativeTerms caps the OR tail of expansion alternatives.
	ftsAlternativeTerms = 7

	// semanticTopTerms expansion terms are appended to the embed text.
	semanticTopTerms = 5
)

// BuildParams turns an expansion into executor parameters.
func BuildParams(exp *Expansion, similarityThreshold float64) Params {
	return Params{
		Lexical:   buildLexicalParams(exp),
		Semantic:  buildSemanticParams(exp, similarityThreshold),
		Expansion: exp,
	}
}

// buildLexicalParams builds the boolean FTS query. The original query is
// the one required term; synonyms, abbreviation expansions and context
// terms are alternative phrasings of it and join as OR alternatives, so
// an article carrying only the full form of an abbreviated query still
// matches.
func buildLexicalParams(exp *Expansion) LexicalParams {
	weighted := exp.AllTerms()

	alternatives := make([]string, 0, len(weighted))
	for _, term := range weighted {
		if term == exp.Original {
			continue
		}
		alternatives = append(alternatives, term)
	}
	if len(alternatives) > ftsAlternativeTerms {
		alternatives = alternatives[:ftsAlternativeTerms]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s*", quoteFTSTerm(exp.Original))
	for _, term := range alternatives {
		fmt.Fprintf(&b, " OR %s*", quoteFTSTerm(term))
	}

	boost := weighted
	if len(boost) > ftsBoostTerms {
		boost = boost[:ftsBoostTerms]
	}

	return LexicalParams{
		FTSQuery:   b.String(),
		BoostTerms: boost,
		Weights:    exp.Weights,
	}
}

// buildSemanticParams enriches the embed text with the detected domain and
// the top-weighted expansion terms.
func buildSemanticParams(exp *Expansion, threshold float64) SemanticParams {
	var b strings.Builder
	b.WriteString(exp.Original)

	if exp.Domain != "" {
		fmt.Fprintf(&b, " %s hukuku", exp.Domain)
	}

	top := exp.AllTerms()
	if len(top) > semanticTopTerms {
		top = top[:semanticTopTerms]
	}
	for _, term := range top {
		b.WriteByte(' ')
		b.WriteString(term)
	}

	return SemanticParams{
		Query:     b.String(),
		Domain:    exp.Domain,
		Threshold: threshold,
	}
}

// quoteFTSTerm wraps a term in double quotes so FTS5 treats multi-word
// compounds as phrases and never parses embedded operators.
func quoteFTSTerm(term string) string {
	return `"` + strings.ReplaceAll(term, `"`, `""`) + `"`
}

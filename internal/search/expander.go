package search

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"

	"github.com/mevzuat/arama/internal/config"
)

// Expansion is the result of expanding a query: the original terms plus
// synonyms, abbreviation expansions, and same-domain context terms, each
// carrying a weight reflecting how closely it tracks the user's intent.
type Expansion struct {
	Original string

	// Terms are the significant words and compound phrases of the query,
	// each weighted 1.0.
	Terms []string

	// Synonyms collected across all terms.
	Synonyms []string

	// Expanded holds abbreviation expansions and context terms.
	Expanded []string

	// Weights maps every term above to its expansion weight.
	Weights map[string]float64

	// Domain is the detected legal domain ("" when undecided).
	Domain string
}

// AllTerms returns original, synonyms, and expanded terms ordered by weight
// (descending, ties keep insertion order).
func (e *Expansion) AllTerms() []string {
	terms := make([]string, 0, 1+len(e.Synonyms)+len(e.Expanded))
	terms = append(terms, e.Original)
	terms = append(terms, e.Synonyms...)
	terms = append(terms, e.Expanded...)

	sort.SliceStable(terms, func(i, j int) bool {
		return e.weightOf(terms[i]) > e.weightOf(terms[j])
	})
	return terms
}

func (e *Expansion) weightOf(term string) float64 {
	if w, ok := e.Weights[term]; ok {
		return w
	}
	return 0.5
}

// Expander expands Turkish legal queries using the compiled-in lexicon.
// Expansion is pure and deterministic: the same query always yields the
// same expansion.
type Expander struct {
	cfg config.ExpansionConfig
}

// NewExpander creates an expander with the given weights.
func NewExpander(cfg config.ExpansionConfig) *Expander {
	return &Expander{cfg: cfg}
}

var (
	spaceRun   = regexp.MustCompile(`\s+`)
	queryNoise = regexp.MustCompile(`[^\p{L}\p{N}\s\-/.]`)
)

// Expand expands a query. The original query always carries weight 1.0;
// no expansion step can outrank it.
func (x *Expander) Expand(query string) *Expansion {
	normalized := normalizeQuery(query)
	terms := x.extractTerms(normalized)

	exp := &Expansion{
		Original: query,
		Terms:    terms,
		Weights:  map[string]float64{query: 1.0},
	}

	seenSyn := make(map[string]bool)
	seenExp := make(map[string]bool)

	for _, term := range terms {
		exp.Weights[term] = 1.0

		for _, syn := range x.findSynonyms(term) {
			if !seenSyn[syn] {
				seenSyn[syn] = true
				exp.Synonyms = append(exp.Synonyms, syn)
			}
			exp.Weights[syn] = x.cfg.SynonymWeight
		}

		for _, abbr := range expandAbbreviations(term) {
			if !seenExp[abbr] {
				seenExp[abbr] = true
				exp.Expanded = append(exp.Expanded, abbr)
			}
			exp.Weights[abbr] = x.cfg.AbbreviationWeight
		}

		for _, ctx := range x.contextTerms(term) {
			if !seenExp[ctx] {
				seenExp[ctx] = true
				exp.Expanded = append(exp.Expanded, ctx)
			}
			// Abbreviation weight wins if the term arrived both ways.
			if _, exists := exp.Weights[ctx]; !exists {
				exp.Weights[ctx] = x.cfg.ContextWeight
			}
		}
	}

	exp.Domain = detectDomain(normalized, terms)
	return exp
}

// normalizeQuery lowercases with Turkish casing rules and strips noise while
// keeping characters legal citations use (dashes, slashes, dots).
func normalizeQuery(query string) string {
	q := strings.ToLowerSpecial(unicode.TurkishCase, strings.TrimSpace(query))
	q = queryNoise.ReplaceAllString(q, " ")
	return strings.TrimSpace(spaceRun.ReplaceAllString(q, " "))
}

// extractTerms keeps significant words (not stopwords, longer than two
// runes) and appends compound statute references found in the query.
func (x *Expander) extractTerms(normalized string) []string {
	var terms []string
	for _, word := range strings.Fields(normalized) {
		if turkishStopwords[word] || legalStopwords[word] {
			continue
		}
		if len([]rune(word)) <= 2 {
			continue
		}
		terms = append(terms, word)
	}

	seen := make(map[string]bool, len(terms))
	for _, t := range terms {
		seen[t] = true
	}
	for _, pattern := range compoundPatterns {
		for _, match := range pattern.FindAllString(normalized, -1) {
			compound := strings.ToLowerSpecial(unicode.TurkishCase, match)
			if !seen[compound] {
				seen[compound] = true
				terms = append(terms, compound)
			}
		}
	}
	return terms
}

// findSynonyms looks the term up directly, then falls back to the closest
// fuzzy key so that inflected forms ("kanunu") still hit their entry.
func (x *Expander) findSynonyms(term string) []string {
	if syns, ok := legalSynonyms[term]; ok {
		return syns
	}

	bestKey := ""
	bestSim := x.cfg.FuzzyThreshold
	for key := range legalSynonyms {
		if sim := termSimilarity(term, key); sim >= bestSim {
			// On equal similarity prefer the lexicographically smaller
			// key to keep expansion deterministic.
			if sim > bestSim || bestKey == "" || key < bestKey {
				bestKey = key
				bestSim = sim
			}
		}
	}
	if bestKey != "" {
		return legalSynonyms[bestKey]
	}
	return nil
}

// termSimilarity is a normalized Levenshtein similarity in [0, 1].
func termSimilarity(a, b string) float64 {
	maxLen := max(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 1.0
	}
	distance := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(distance)/float64(maxLen)
}

// expandAbbreviations works both directions: an abbreviation yields its
// full form, and a word of a full form yields the abbreviation.
func expandAbbreviations(term string) []string {
	var expanded []string

	upper := strings.ToUpperSpecial(unicode.TurkishCase, term)
	if full, ok := legalAbbreviations[upper]; ok {
		expanded = append(expanded, full)
	}

	// Deterministic iteration over the map.
	abbrs := make([]string, 0, len(legalAbbreviations))
	for abbr := range legalAbbreviations {
		abbrs = append(abbrs, abbr)
	}
	sort.Strings(abbrs)

	lower := strings.ToLowerSpecial(unicode.TurkishCase, term)
	for _, abbr := range abbrs {
		full := strings.ToLowerSpecial(unicode.TurkishCase, legalAbbreviations[abbr])
		if strings.Contains(full, lower) {
			expanded = append(expanded, strings.ToLowerSpecial(unicode.TurkishCase, abbr))
		}
	}
	return expanded
}

// contextTerms returns up to MaxContextTerms other terms from the same
// legal domain, in deterministic order.
func (x *Expander) contextTerms(term string) []string {
	domain, ok := termDomains[term]
	if !ok {
		return nil
	}

	others := make([]string, 0, 8)
	for other, otherDomain := range termDomains {
		if otherDomain == domain && other != term {
			others = append(others, other)
		}
	}
	sort.Strings(others)

	limit := x.cfg.MaxContextTerms
	if limit <= 0 {
		limit = 3
	}
	if len(others) > limit {
		others = others[:limit]
	}
	return others
}

// detectDomain votes each domain by its indicators appearing in the query
// or among the extracted terms. Ties resolve by the fixed domain order.
func detectDomain(normalized string, terms []string) string {
	termSet := make(map[string]bool, len(terms))
	for _, t := range terms {
		termSet[t] = true
	}

	best := ""
	bestScore := 0
	for _, domain := range domainOrder {
		score := 0
		for _, indicator := range domainIndicators[domain] {
			if strings.Contains(normalized, indicator) {
				score++
			}
			if termSet[indicator] {
				score++
			}
		}
		if score > bestScore {
			best = domain
			bestScore = score
		}
	}
	return best
}

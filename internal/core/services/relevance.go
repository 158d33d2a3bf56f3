package services

import (
	"strings"
	"time"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

// Scoring weights and boost magnitudes. These are tunable ranking
// policy, not correctness constraints; only the [0, 1] bound on the
// final score is load-bearing.
const (
	weightSimilarity = 0.7
	weightLexical    = 0.2
	weightBoost      = 0.1

	titleBoost    = 0.3
	recencyBoost  = 0.1
	recencyWindow = 30 * 24 * time.Hour
)

// RelevanceScorer combines cosine similarity with lexical and
// document-level signals into one bounded ranking score.
type RelevanceScorer struct{}

// NewRelevanceScorer creates a relevance scorer.
func NewRelevanceScorer() *RelevanceScorer {
	return &RelevanceScorer{}
}

// Score returns a relevance score in [0, 1] for one candidate chunk.
// Each sub-term is clamped to [0, 1] before weighting and the weighted
// sum is clamped again, so a malformed input can only cost ranking
// quality, never break the bound.
func (s *RelevanceScorer) Score(similarity float64, chunk domain.Chunk, doc *domain.Document, terms []string) float64 {
	score := weightSimilarity*clamp01(similarity) +
		weightLexical*lexicalOverlap(chunk.Content, terms) +
		weightBoost*documentBoost(doc, terms)
	return clamp01(score)
}

// lexicalOverlap returns the fraction of query terms literally present
// in content, case-insensitive.
func lexicalOverlap(content string, terms []string) float64 {
	if len(terms) == 0 {
		return 0
	}
	lower := strings.ToLower(content)
	matched := 0
	for _, term := range terms {
		if strings.Contains(lower, term) {
			matched++
		}
	}
	return clamp01(float64(matched) / float64(len(terms)))
}

// documentBoost scores document-level signals: a query term in the
// title and recent creation. The boosts are additive and the total is
// clamped before weighting.
func documentBoost(doc *domain.Document, terms []string) float64 {
	if doc == nil {
		return 0
	}

	boost := 0.0
	title := strings.ToLower(doc.Title)
	for _, term := range terms {
		if strings.Contains(title, term) {
			boost += titleBoost
			break
		}
	}
	if !doc.CreatedAt.IsZero() && time.Since(doc.CreatedAt) <= recencyWindow {
		boost += recencyBoost
	}
	return clamp01(boost)
}

// queryTerms normalises a query into lowercase terms with duplicates
// removed, preserving first-occurrence order.
func queryTerms(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	seen := make(map[string]bool, len(fields))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if seen[f] {
			continue
		}
		seen[f] = true
		terms = append(terms, f)
	}
	return terms
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

package search

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tindahan-cloud/prodsearch/internal/domain/product"
	domsearch "github.com/tindahan-cloud/prodsearch/internal/domain/search"
)

// DefaultNegationThreshold is the exclusion cutoff over the [0,1] score.
// Calibrate against representative data before tightening.
const DefaultNegationThreshold = 0.5

// LexicalScorer scores a negated term against candidate text by token match:
// exact token 1.0, token prefix/substring overlap 0.6, otherwise 0. A scorer
// backed by embedding similarity can replace it behind the same contract.
type LexicalScorer struct{}

var tokenSplit = regexp.MustCompile(`[^a-z0-9]+`)

// Score implements TermScorer.
func (LexicalScorer) Score(term, text string) float64 {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" || text == "" {
		return 0
	}
	lower := strings.ToLower(text)

	// Multi-word terms match as a phrase or not at all.
	if strings.ContainsRune(term, ' ') {
		if strings.Contains(lower, term) {
			return 1.0
		}
		return 0
	}

	const partialFloor = 4 // below this, partial overlap is noise ("hot" in "shotgun")
	for _, token := range tokenSplit.Split(lower, -1) {
		if token == term {
			return 1.0
		}
		if len(token) >= partialFloor && len(term) >= partialFloor &&
			(strings.Contains(token, term) || strings.Contains(term, token)) {
			return 0.6
		}
	}
	return 0
}

// applyNegationFiltering removes candidates related to any negated term.
// Exclusion is a union across terms; surviving candidates keep their relative
// order. An empty term list is the identity and records nothing.
func applyNegationFiltering(
	results []product.Result,
	negatedTerms []string,
	scorer TermScorer,
	threshold float64,
	debug *domsearch.DebugInfo,
) []product.Result {
	if len(negatedTerms) == 0 {
		return results
	}

	kept := make([]product.Result, 0, len(results))
	for i := range results {
		candidate := &results[i]
		excluded := false
		for _, term := range negatedTerms {
			score := scorer.Score(term, candidate.SearchText())
			if score <= threshold {
				continue
			}
			excluded = true
			if debug != nil {
				debug.AddNegationDecision(domsearch.NegationDecision{
					Term:        term,
					ProductID:   candidate.ID(),
					Description: snippet(candidate.SearchText(), 80),
					Score:       score,
					Excluded:    true,
					Reasoning: fmt.Sprintf("product text relates to excluded term %q (score %.2f > threshold %.2f)",
						term, score, threshold),
				})
			}
			break
		}
		if !excluded {
			kept = append(kept, results[i])
		}
	}
	return kept
}

func snippet(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Package filtermap validates query components and maps them into the filter
// parameters the retrieval layer consumes.
package filtermap

import (
	"fmt"
	"strings"

	"github.com/tindahan-cloud/prodsearch/internal/domain"
	"github.com/tindahan-cloud/prodsearch/internal/domain/filter"
	"github.com/tindahan-cloud/prodsearch/internal/domain/query"
)

// Mode selects how tolerant the mapper is of ambiguous input. Both modes
// enforce the same hard invariants (non-empty semantic query, ordered
// non-negative bounds).
type Mode string

// Mapper modes.
const (
	// ModeLenient silently drops negated terms that normalize away.
	ModeLenient Mode = "lenient"
	// ModeStrict rejects input whose negated terms all normalize away, or that
	// contains blank terms, instead of quietly producing a weaker filter.
	ModeStrict Mode = "strict"
)

// Summary counts the active filters for logging and UI messaging without
// re-deriving them from raw params.
type Summary struct {
	PriceFilters     int
	ExclusionFilters int
}

// Total returns the number of active filters.
func (s Summary) Total() int { return s.PriceFilters + s.ExclusionFilters }

// Mapper maps validated query components into retrieval filter params.
type Mapper struct {
	mode Mode
}

// New creates a mapper. An unrecognized mode falls back to lenient.
func New(mode Mode) *Mapper {
	if mode != ModeStrict {
		mode = ModeLenient
	}
	return &Mapper{mode: mode}
}

// Map carries the price bounds through and normalizes negated terms into
// excluded terms: trimmed, lower-cased, empties dropped, first occurrence
// wins, and an empty result becomes nil rather than an empty slice.
func (m *Mapper) Map(qc query.Components) (filter.Params, error) {
	if strings.TrimSpace(qc.SemanticQuery()) == "" {
		return filter.Params{}, fmt.Errorf("%w: query components missing semantic query", domain.ErrInvalidInput)
	}

	negated := qc.NegatedTerms()
	excluded, dropped := normalizeTerms(negated)

	if m.mode == ModeStrict {
		if dropped > 0 {
			return filter.Params{}, fmt.Errorf("%w: %d negated terms are blank or unusable",
				domain.ErrInvalidInput, dropped)
		}
		if len(negated) > 0 && excluded == nil {
			return filter.Params{}, fmt.Errorf("%w: all negated terms normalized away",
				domain.ErrInvalidInput)
		}
	}

	params, err := filter.New(qc.PriceMin(), qc.PriceMax(), excluded)
	if err != nil {
		return filter.Params{}, err
	}
	return params, nil
}

// Summarize counts the active filters in mapped params.
func (m *Mapper) Summarize(p filter.Params) Summary {
	var s Summary
	if p.MinPrice() != nil {
		s.PriceFilters++
	}
	if p.MaxPrice() != nil {
		s.PriceFilters++
	}
	s.ExclusionFilters = len(p.ExcludedTerms())
	return s
}

// normalizeTerms cleans negated terms. dropped counts terms that were blank
// after trimming (duplicates are not counted as dropped).
func normalizeTerms(terms []string) (cleaned []string, dropped int) {
	if len(terms) == 0 {
		return nil, 0
	}
	seen := make(map[string]struct{}, len(terms))
	for _, raw := range terms {
		term := strings.ToLower(strings.TrimSpace(raw))
		if term == "" {
			dropped++
			continue
		}
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		cleaned = append(cleaned, term)
	}
	return cleaned, dropped
}

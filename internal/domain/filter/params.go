// Package filter holds the SQL-facing filter parameters derived from query components.
package filter

import (
	"fmt"

	"github.com/tindahan-cloud/prodsearch/internal/domain"
)

// Params is the shape the retrieval layer consumes directly: inclusive price
// bounds and cleaned excluded terms. A nil ExcludedTerms means "no exclusion
// filtering" — the retrieval layer treats nil and empty differently, so the
// empty-to-nil normalization in the mapper is load-bearing.
type Params struct {
	minPrice      *float64
	maxPrice      *float64
	excludedTerms []string
}

// New validates and builds filter params. Bounds must be non-negative and ordered.
func New(minPrice, maxPrice *float64, excludedTerms []string) (Params, error) {
	if minPrice != nil && *minPrice < 0 {
		return Params{}, fmt.Errorf("%w: min_price must be >= 0, got %v", domain.ErrInvalidInput, *minPrice)
	}
	if maxPrice != nil && *maxPrice < 0 {
		return Params{}, fmt.Errorf("%w: max_price must be >= 0, got %v", domain.ErrInvalidInput, *maxPrice)
	}
	if minPrice != nil && maxPrice != nil && *minPrice > *maxPrice {
		return Params{}, fmt.Errorf("%w: min_price %v exceeds max_price %v",
			domain.ErrInvalidInput, *minPrice, *maxPrice)
	}

	var terms []string
	if len(excludedTerms) > 0 {
		terms = make([]string, len(excludedTerms))
		copy(terms, excludedTerms)
	}

	return Params{
		minPrice:      copyBound(minPrice),
		maxPrice:      copyBound(maxPrice),
		excludedTerms: terms,
	}, nil
}

// MinPrice returns the inclusive lower bound, nil when absent.
func (p *Params) MinPrice() *float64 { return copyBound(p.minPrice) }

// MaxPrice returns the inclusive upper bound, nil when absent.
func (p *Params) MaxPrice() *float64 { return copyBound(p.maxPrice) }

// ExcludedTerms returns the cleaned negated terms, nil when none.
func (p *Params) ExcludedTerms() []string {
	if p.excludedTerms == nil {
		return nil
	}
	out := make([]string, len(p.excludedTerms))
	copy(out, p.excludedTerms)
	return out
}

// HasPriceFilters reports whether either price bound is set.
func (p *Params) HasPriceFilters() bool {
	return p.minPrice != nil || p.maxPrice != nil
}

// HasFilters reports whether any filter (price or exclusion) is active.
func (p *Params) HasFilters() bool {
	return p.HasPriceFilters() || len(p.excludedTerms) > 0
}

func copyBound(v *float64) *float64 {
	if v == nil {
		return nil
	}
	b := *v
	return &b
}

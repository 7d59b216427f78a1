// Package search holds the response-side value objects of the search pipeline.
package search

import (
	"fmt"
	"strings"

	"github.com/tindahan-cloud/prodsearch/internal/domain/filter"
)

// FiltersApplied is the customer-facing summary of what filtering actually
// happened. It is always derived from the same filter params that drove
// retrieval, never re-derived from the raw query.
type FiltersApplied struct {
	priceMin      *float64
	priceMax      *float64
	excludedTerms []string
}

// FiltersFromParams builds the applied-filters summary from retrieval params.
func FiltersFromParams(p filter.Params) FiltersApplied {
	return FiltersApplied{
		priceMin:      p.MinPrice(),
		priceMax:      p.MaxPrice(),
		excludedTerms: p.ExcludedTerms(),
	}
}

// PriceMin returns the applied lower bound, nil when none.
func (f *FiltersApplied) PriceMin() *float64 { return f.priceMin }

// PriceMax returns the applied upper bound, nil when none.
func (f *FiltersApplied) PriceMax() *float64 { return f.priceMax }

// ExcludedTerms returns the applied exclusion terms, nil when none.
func (f *FiltersApplied) ExcludedTerms() []string { return f.excludedTerms }

// Any reports whether any filter was applied.
func (f *FiltersApplied) Any() bool {
	return f.priceMin != nil || f.priceMax != nil || len(f.excludedTerms) > 0
}

// Describe renders a short human-readable summary for UI messaging.
func (f *FiltersApplied) Describe() string {
	var parts []string
	switch {
	case f.priceMin != nil && f.priceMax != nil:
		parts = append(parts, fmt.Sprintf("price between %.2f and %.2f", *f.priceMin, *f.priceMax))
	case f.priceMin != nil:
		parts = append(parts, fmt.Sprintf("price at least %.2f", *f.priceMin))
	case f.priceMax != nil:
		parts = append(parts, fmt.Sprintf("price at most %.2f", *f.priceMax))
	}
	if len(f.excludedTerms) > 0 {
		parts = append(parts, "excluding "+strings.Join(f.excludedTerms, ", "))
	}
	if len(parts) == 0 {
		return "no filters applied"
	}
	return strings.Join(parts, "; ")
}

// Package query holds the structured decomposition of a raw search query.
package query

import (
	"fmt"
	"strings"

	"github.com/tindahan-cloud/prodsearch/internal/domain"
)

// Components is the validated output of query rewriting: the residual text meant
// for embedding plus the structured constraints extracted from the raw query.
type Components struct {
	semanticQuery string
	priceMin      *float64
	priceMax      *float64
	negatedTerms  []string
}

// New validates and builds query components. Price bounds, when present, must be
// non-negative and ordered. An empty negated-term slice normalizes to nil.
func New(semanticQuery string, priceMin, priceMax *float64, negatedTerms []string) (Components, error) {
	if strings.TrimSpace(semanticQuery) == "" {
		return Components{}, fmt.Errorf("%w: semantic query must be a non-empty string", domain.ErrInvalidInput)
	}
	if priceMin != nil && *priceMin < 0 {
		return Components{}, fmt.Errorf("%w: price_min must be >= 0, got %v", domain.ErrInvalidInput, *priceMin)
	}
	if priceMax != nil && *priceMax < 0 {
		return Components{}, fmt.Errorf("%w: price_max must be >= 0, got %v", domain.ErrInvalidInput, *priceMax)
	}
	if priceMin != nil && priceMax != nil && *priceMin > *priceMax {
		return Components{}, fmt.Errorf("%w: price_min %v exceeds price_max %v",
			domain.ErrInvalidInput, *priceMin, *priceMax)
	}

	var terms []string
	if len(negatedTerms) > 0 {
		terms = make([]string, len(negatedTerms))
		copy(terms, negatedTerms)
	}

	return Components{
		semanticQuery: semanticQuery,
		priceMin:      copyBound(priceMin),
		priceMax:      copyBound(priceMax),
		negatedTerms:  terms,
	}, nil
}

// SemanticQuery returns the residual text for embedding.
func (c *Components) SemanticQuery() string { return c.semanticQuery }

// PriceMin returns the lower price bound, nil when absent.
func (c *Components) PriceMin() *float64 { return copyBound(c.priceMin) }

// PriceMax returns the upper price bound, nil when absent.
func (c *Components) PriceMax() *float64 { return copyBound(c.priceMax) }

// NegatedTerms returns the terms the customer wants excluded, nil when none.
func (c *Components) NegatedTerms() []string {
	if c.negatedTerms == nil {
		return nil
	}
	out := make([]string, len(c.negatedTerms))
	copy(out, c.negatedTerms)
	return out
}

// HasConstraints reports whether any structured constraint was extracted.
func (c *Components) HasConstraints() bool {
	return c.priceMin != nil || c.priceMax != nil || len(c.negatedTerms) > 0
}

func copyBound(v *float64) *float64 {
	if v == nil {
		return nil
	}
	b := *v
	return &b
}

// Package search orchestrates the query pipeline: rewrite, map, retrieve,
// negation-filter, format.
package search

import (
	"context"

	"github.com/tindahan-cloud/prodsearch/internal/domain"
	"github.com/tindahan-cloud/prodsearch/internal/domain/filter"
	"github.com/tindahan-cloud/prodsearch/internal/domain/product"
	"github.com/tindahan-cloud/prodsearch/internal/domain/query"
	"github.com/tindahan-cloud/prodsearch/internal/usecase/filtermap"
	"github.com/tindahan-cloud/prodsearch/internal/usecase/rewrite"
)

// Rewriter turns a raw query into structured components.
type Rewriter interface {
	Rewrite(ctx context.Context, rawQuery string) (query.Components, rewrite.Method, error)
}

// Mapper maps components into retrieval filter params.
type Mapper interface {
	Map(qc query.Components) (filter.Params, error)
	Summarize(p filter.Params) filtermap.Summary
}

// Retriever runs a similarity-ordered, filter-predicated query against the
// backing store. A zero-row result is a successful outcome, not an error.
type Retriever interface {
	SearchSimilar(
		ctx context.Context, entityType domain.EntityType,
		embedding []float32, params filter.Params,
		orgID string, limit int,
	) ([]product.Row, error)
}

// TermScorer computes a deterministic relatedness score in [0,1] between a
// negated term and a candidate's text.
type TermScorer interface {
	Score(term, text string) float64
}

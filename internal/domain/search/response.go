package search

import (
	"fmt"

	"github.com/tindahan-cloud/prodsearch/internal/domain"
	"github.com/tindahan-cloud/prodsearch/internal/domain/product"
)

// PriceSummary is the derived price view over a result set.
type PriceSummary struct {
	Min float64
	Max float64
	Avg float64
}

// Response is the assembled search outcome: ranked results plus the applied
// filters, plus debug details when the caller asked for them.
type Response struct {
	results []product.Result
	filters FiltersApplied
	debug   *DebugInfo
}

// NewResponse validates every element and assembles a response. Debug may be nil.
func NewResponse(results []product.Result, filters FiltersApplied, debug *DebugInfo) (Response, error) {
	for i := range results {
		if results[i].ID() == "" {
			return Response{}, fmt.Errorf("%w: result %d is not a valid product", domain.ErrInvalidInput, i)
		}
	}
	out := make([]product.Result, len(results))
	copy(out, results)
	return Response{results: out, filters: filters, debug: debug}, nil
}

// Results returns the ranked results.
func (r *Response) Results() []product.Result { return r.results }

// Filters returns the applied-filters summary.
func (r *Response) Filters() FiltersApplied { return r.filters }

// Debug returns the accumulated debug info, nil unless requested.
func (r *Response) Debug() *DebugInfo { return r.debug }

// InStock returns the subset of results with units on hand, order preserved.
func (r *Response) InStock() []product.Result {
	var out []product.Result
	for _, p := range r.results {
		if p.InStock() {
			out = append(out, p)
		}
	}
	return out
}

// OutOfStock returns the pre-order subset, order preserved.
func (r *Response) OutOfStock() []product.Result {
	var out []product.Result
	for _, p := range r.results {
		if !p.InStock() {
			out = append(out, p)
		}
	}
	return out
}

// Prices returns min/max/average price over the results. ok is false when the
// result set is empty.
func (r *Response) Prices() (summary PriceSummary, ok bool) {
	if len(r.results) == 0 {
		return PriceSummary{}, false
	}
	summary.Min = r.results[0].Price()
	summary.Max = r.results[0].Price()
	var sum float64
	for _, p := range r.results {
		price := p.Price()
		sum += price
		if price < summary.Min {
			summary.Min = price
		}
		if price > summary.Max {
			summary.Max = price
		}
	}
	summary.Avg = sum / float64(len(r.results))
	return summary, true
}

package chi

import (
	"github.com/tindahan-cloud/prodsearch/internal/domain/product"
	domsearch "github.com/tindahan-cloud/prodsearch/internal/domain/search"
)

// searchRequest is the POST /v1/search body.
type searchRequest struct {
	Query      string `json:"query"`
	EntityType string `json:"entity_type"`
	Limit      int    `json:"limit"`
	Enhanced   *bool  `json:"enhanced"`
	Debug      bool   `json:"debug"`
}

type productDTO struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Price           float64 `json:"price"`
	StockLevel      int     `json:"stock_level"`
	InStock         bool    `json:"in_stock"`
	StatusLabel     string  `json:"status_label"`
	SimilarityScore float64 `json:"similarity_score"`
}

type filtersAppliedDTO struct {
	PriceMin      *float64 `json:"price_min"`
	PriceMax      *float64 `json:"price_max"`
	ExcludedTerms []string `json:"excluded_terms,omitempty"`
	Summary       string   `json:"summary"`
}

type filterDecisionDTO struct {
	FilterType string            `json:"filter_type"`
	Decision   string            `json:"decision"`
	Reasoning  string            `json:"reasoning"`
	Context    map[string]string `json:"context,omitempty"`
}

type negationDecisionDTO struct {
	Term        string  `json:"term"`
	ProductID   string  `json:"product_id"`
	Description string  `json:"description"`
	Score       float64 `json:"score"`
	Excluded    bool    `json:"excluded"`
	Reasoning   string  `json:"reasoning"`
}

type excludedProductDTO struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Term      string `json:"term"`
}

type stageTimingDTO struct {
	Stage      string  `json:"stage"`
	DurationMs float64 `json:"duration_ms"`
}

type debugDTO struct {
	RawQuery            string                `json:"raw_query"`
	SemanticQuery       string                `json:"semantic_query"`
	ExtractionMethod    string                `json:"extraction_method"`
	QueryComponents     map[string]any        `json:"query_components"`
	FilterParams        map[string]any        `json:"filter_params"`
	FilterDecisions     []filterDecisionDTO   `json:"filter_decisions"`
	NegationDecisions   []negationDecisionDTO `json:"negation_decisions"`
	ExcludedProducts    []excludedProductDTO  `json:"excluded_products"`
	StageTimings        []stageTimingDTO      `json:"stage_timings"`
	TransparencyMessage string                `json:"transparency_message,omitempty"`
}

type searchResponse struct {
	Results        []productDTO      `json:"results"`
	FiltersApplied filtersAppliedDTO `json:"filters_applied"`
	Debug          *debugDTO         `json:"debug,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func productToDTO(p *product.Result) productDTO {
	return productDTO{
		ID:              p.ID(),
		Name:            p.Name(),
		Description:     p.Description(),
		Price:           p.Price(),
		StockLevel:      p.StockLevel(),
		InStock:         p.InStock(),
		StatusLabel:     p.StatusLabel(),
		SimilarityScore: p.Similarity(),
	}
}

func responseToDTO(resp *domsearch.Response) searchResponse {
	results := resp.Results()
	items := make([]productDTO, len(results))
	for i := range results {
		items[i] = productToDTO(&results[i])
	}

	filters := resp.Filters()
	out := searchResponse{
		Results: items,
		FiltersApplied: filtersAppliedDTO{
			PriceMin:      filters.PriceMin(),
			PriceMax:      filters.PriceMax(),
			ExcludedTerms: filters.ExcludedTerms(),
			Summary:       filters.Describe(),
		},
	}

	if debug := resp.Debug(); debug != nil {
		out.Debug = debugToDTO(debug)
	}
	return out
}

func debugToDTO(d *domsearch.DebugInfo) *debugDTO {
	dto := &debugDTO{
		RawQuery:            d.RawQuery,
		SemanticQuery:       d.SemanticQuery,
		ExtractionMethod:    d.ExtractionMethod,
		QueryComponents:     d.Components,
		FilterParams:        d.FilterParams,
		FilterDecisions:     []filterDecisionDTO{},
		NegationDecisions:   []negationDecisionDTO{},
		ExcludedProducts:    []excludedProductDTO{},
		StageTimings:        []stageTimingDTO{},
		TransparencyMessage: d.TransparencyMessage(),
	}
	for _, fd := range d.FilterDecisions() {
		dto.FilterDecisions = append(dto.FilterDecisions, filterDecisionDTO(fd))
	}
	for _, nd := range d.NegationDecisions() {
		dto.NegationDecisions = append(dto.NegationDecisions, negationDecisionDTO(nd))
	}
	for _, ex := range d.ExcludedProducts() {
		dto.ExcludedProducts = append(dto.ExcludedProducts, excludedProductDTO(ex))
	}
	for _, st := range d.StageTimings() {
		dto.StageTimings = append(dto.StageTimings, stageTimingDTO{
			Stage:      st.Stage,
			DurationMs: float64(st.Duration.Microseconds()) / 1000.0,
		})
	}
	return dto
}

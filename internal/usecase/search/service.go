package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tindahan-cloud/prodsearch/internal/domain"
	"github.com/tindahan-cloud/prodsearch/internal/domain/filter"
	"github.com/tindahan-cloud/prodsearch/internal/domain/product"
	"github.com/tindahan-cloud/prodsearch/internal/domain/query"
	domsearch "github.com/tindahan-cloud/prodsearch/internal/domain/search"
	"github.com/tindahan-cloud/prodsearch/internal/metrics"
)

// Result-count limits.
const (
	DefaultLimit = 10
	MaxLimit     = 50
)

// Request is one search invocation. OrgID is the mandatory tenant scope; a
// request without it fails before any retrieval side effect.
type Request struct {
	Query      string
	EntityType domain.EntityType
	Limit      int
	Enhanced   bool
	Debug      bool
	OrgID      string
	RequestID  string
}

// Service runs the search pipeline. Stages execute strictly in sequence; each
// request owns its own components, params, and debug accumulator.
type Service struct {
	rewriter  Rewriter
	mapper    Mapper
	embedder  domain.Embedder
	retriever Retriever
	scorer    TermScorer
	threshold float64
	logger    *zap.Logger
}

// New creates a search service with lexical negation scoring at the default
// threshold.
func New(
	rewriter Rewriter,
	mapper Mapper,
	embedder domain.Embedder,
	retriever Retriever,
	logger *zap.Logger,
) *Service {
	return &Service{
		rewriter:  rewriter,
		mapper:    mapper,
		embedder:  embedder,
		retriever: retriever,
		scorer:    LexicalScorer{},
		threshold: DefaultNegationThreshold,
		logger:    logger,
	}
}

// WithNegationScoring swaps the negation scorer and threshold.
func (s *Service) WithNegationScoring(scorer TermScorer, threshold float64) *Service {
	s.scorer = scorer
	s.threshold = threshold
	return s
}

// Search executes the pipeline: rewrite, map, retrieve, negation-filter,
// format. A stage failure aborts the remaining stages; there is no partial
// result assembly.
func (s *Service) Search(ctx context.Context, req Request) (domsearch.Response, error) {
	if req.OrgID == "" {
		return domsearch.Response{}, fmt.Errorf("%w: missing organization scope", domain.ErrUnauthorized)
	}
	if strings.TrimSpace(req.Query) == "" {
		return domsearch.Response{}, fmt.Errorf("%w: query must be a non-empty string", domain.ErrInvalidInput)
	}
	if !req.EntityType.IsValid() {
		return domsearch.Response{}, fmt.Errorf("%w: unknown entity type %q", domain.ErrInvalidInput, req.EntityType)
	}
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	slog := NewSearchLogger(s.logger, req.RequestID, req.Debug)

	pathLabel := "legacy"
	if req.Enhanced {
		pathLabel = "enhanced"
	}

	resp, err := s.run(ctx, req, limit, slog)
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.SearchRequestsTotal.WithLabelValues(req.EntityType.String(), pathLabel, status).Inc()
	return resp, err
}

func (s *Service) run(ctx context.Context, req Request, limit int, slog *SearchLogger) (domsearch.Response, error) {
	if !req.Enhanced {
		return s.runLegacy(ctx, req, limit, slog)
	}

	debug := domsearch.NewDebugInfo(req.Query)

	// Rewrite
	components, err := s.stageRewrite(ctx, req.Query, debug, slog)
	if err != nil {
		return domsearch.Response{}, err
	}

	// Map
	params, err := s.stageMap(components, debug, slog)
	if err != nil {
		return domsearch.Response{}, err
	}

	// Retrieve (embedding + filtered similarity query). Overfetch when a
	// negation post-filter will run, so exclusions don't starve the page.
	retrieveLimit := limit
	if len(params.ExcludedTerms()) > 0 {
		retrieveLimit = limit * 2
	}
	results, err := s.stageRetrieve(ctx, req, components.SemanticQuery(), params, retrieveLimit, debug, slog)
	if err != nil {
		return domsearch.Response{}, err
	}

	// Negation post-filter
	start := time.Now()
	filtered := applyNegationFiltering(results, params.ExcludedTerms(), s.scorer, s.threshold, debug)
	excluded := len(results) - len(filtered)
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	metrics.NegationExclusionsTotal.Add(float64(excluded))
	observeStage("negation", start, debug)
	slog.Stage("negation", start,
		zap.Int("candidates", len(results)),
		zap.Int("excluded", excluded),
	)

	// Format
	start = time.Now()
	filters := domsearch.FiltersFromParams(params)
	var attached *domsearch.DebugInfo
	if slog.DebugEnabled() {
		attached = debug
	}
	resp, err := domsearch.NewResponse(filtered, filters, attached)
	if err != nil {
		slog.Failure("format", err)
		return domsearch.Response{}, err
	}
	observeStage("format", start, debug)
	slog.Stage("format", start,
		zap.Int("results", len(filtered)),
		zap.String("filters", filters.Describe()),
	)
	return resp, nil
}

// runLegacy embeds the raw query and retrieves without structured filters.
// Tenant scoping and the active-only predicate still apply.
func (s *Service) runLegacy(ctx context.Context, req Request, limit int, slog *SearchLogger) (domsearch.Response, error) {
	results, err := s.embedAndRetrieve(ctx, req, req.Query, filter.Params{}, limit, nil, slog)
	if err != nil {
		return domsearch.Response{}, err
	}
	return domsearch.NewResponse(results, domsearch.FiltersApplied{}, nil)
}

func (s *Service) stageRewrite(
	ctx context.Context, rawQuery string,
	debug *domsearch.DebugInfo, slog *SearchLogger,
) (query.Components, error) {
	start := time.Now()
	components, method, err := s.rewriter.Rewrite(ctx, rawQuery)
	if err != nil {
		slog.Failure("rewrite", err)
		return query.Components{}, err
	}
	observeStage("rewrite", start, debug)

	debug.ExtractionMethod = string(method)
	debug.SemanticQuery = components.SemanticQuery()
	debug.Components = map[string]any{
		"semantic_query": components.SemanticQuery(),
		"price_min":      components.PriceMin(),
		"price_max":      components.PriceMax(),
		"negated_terms":  components.NegatedTerms(),
	}

	slog.Stage("rewrite", start,
		zap.String("method", string(method)),
		zap.String("semantic_query", components.SemanticQuery()),
		zap.Int("negated_terms", len(components.NegatedTerms())),
	)
	return components, nil
}

func (s *Service) stageMap(
	components query.Components,
	debug *domsearch.DebugInfo, slog *SearchLogger,
) (filter.Params, error) {
	start := time.Now()
	params, err := s.mapper.Map(components)
	if err != nil {
		slog.Failure("map", err)
		return filter.Params{}, err
	}
	observeStage("map", start, debug)

	recordFilterDecisions(params, debug)
	debug.FilterParams = map[string]any{
		"min_price":      params.MinPrice(),
		"max_price":      params.MaxPrice(),
		"excluded_terms": params.ExcludedTerms(),
	}

	summary := s.mapper.Summarize(params)
	slog.Stage("map", start,
		zap.Int("price_filters", summary.PriceFilters),
		zap.Int("exclusion_filters", summary.ExclusionFilters),
	)
	return params, nil
}

func (s *Service) stageRetrieve(
	ctx context.Context, req Request, semanticQuery string,
	params filter.Params, limit int,
	debug *domsearch.DebugInfo, slog *SearchLogger,
) ([]product.Result, error) {
	return s.embedAndRetrieve(ctx, req, semanticQuery, params, limit, debug, slog)
}

func (s *Service) embedAndRetrieve(
	ctx context.Context, req Request, text string,
	params filter.Params, limit int,
	debug *domsearch.DebugInfo, slog *SearchLogger,
) ([]product.Result, error) {
	start := time.Now()
	emb, err := s.embedder.Embed(ctx, text)
	if err != nil {
		slog.Failure("embed", err)
		return nil, fmt.Errorf("%w: embed query: %w", domain.ErrRetrievalFailure, err)
	}
	observeStage("embed", start, debug)
	// The vector itself is never logged; only its shape.
	slog.Stage("embed", start, zap.Int("dimensions", len(emb.Embedding)))

	start = time.Now()
	rows, err := s.retriever.SearchSimilar(ctx, req.EntityType, emb.Embedding, params, req.OrgID, limit)
	if err != nil {
		slog.Failure("retrieve", err)
		return nil, err
	}
	observeStage("retrieve", start, debug)
	slog.Stage("retrieve", start, zap.Int("rows", len(rows)))

	results := make([]product.Result, 0, len(rows))
	for i, row := range rows {
		r, err := product.FromRow(row)
		if err != nil {
			slog.Failure("retrieve", err)
			return nil, fmt.Errorf("%w: row %d: %w", domain.ErrRetrievalFailure, i, err)
		}
		results = append(results, r)
	}
	return results, nil
}

func recordFilterDecisions(params filter.Params, debug *domsearch.DebugInfo) {
	if params.HasPriceFilters() {
		debug.AddFilterDecision("price", "applied",
			"price bounds extracted from query", priceContext(params))
	} else {
		debug.AddFilterDecision("price", "skipped", "no price bounds extracted", nil)
	}
	if terms := params.ExcludedTerms(); len(terms) > 0 {
		debug.AddFilterDecision("negation", "applied",
			"negated terms will be excluded post-retrieval",
			map[string]string{"terms": strings.Join(terms, ", ")})
	} else {
		debug.AddFilterDecision("negation", "skipped", "no negated terms extracted", nil)
	}
}

func priceContext(params filter.Params) map[string]string {
	ctx := make(map[string]string, 2)
	if v := params.MinPrice(); v != nil {
		ctx["min_price"] = fmt.Sprintf("%.2f", *v)
	}
	if v := params.MaxPrice(); v != nil {
		ctx["max_price"] = fmt.Sprintf("%.2f", *v)
	}
	return ctx
}

func observeStage(stage string, start time.Time, debug *domsearch.DebugInfo) {
	elapsed := time.Since(start)
	metrics.PipelineStageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
	if debug != nil {
		debug.AddStageTiming(stage, elapsed)
	}
}

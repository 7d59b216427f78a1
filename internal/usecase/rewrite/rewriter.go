package rewrite

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/tindahan-cloud/prodsearch/internal/domain"
	"github.com/tindahan-cloud/prodsearch/internal/domain/query"
)

// Rewriter selects between the LLM and pattern extraction strategies with a
// configured fallback rule.
type Rewriter struct {
	primary         Extractor
	fallback        Extractor
	fallbackEnabled bool
	logger          *zap.Logger
}

// New creates a rewriter. primary may be nil, in which case the pattern
// extractor runs directly. When fallbackEnabled is false, a primary failure
// surfaces as a rewrite failure instead of degrading silently.
func New(primary Extractor, fallbackEnabled bool, logger *zap.Logger) *Rewriter {
	return &Rewriter{
		primary:         primary,
		fallback:        NewPatternExtractor(),
		fallbackEnabled: fallbackEnabled,
		logger:          logger,
	}
}

// Rewrite turns a raw query into validated components and reports which
// strategy produced them.
func (r *Rewriter) Rewrite(ctx context.Context, rawQuery string) (query.Components, Method, error) {
	if strings.TrimSpace(rawQuery) == "" {
		return query.Components{}, "", fmt.Errorf("%w: query must be a non-empty string", domain.ErrInvalidInput)
	}

	if r.primary == nil {
		components, err := r.fallback.Extract(ctx, rawQuery)
		if err != nil {
			return query.Components{}, "", fmt.Errorf("%w: %w", domain.ErrRewriteFailure, err)
		}
		return components, MethodPattern, nil
	}

	components, err := r.primary.Extract(ctx, rawQuery)
	if err == nil {
		return components, MethodLLM, nil
	}
	if errors.Is(err, context.Canceled) {
		return query.Components{}, "", fmt.Errorf("%w: %w", domain.ErrRewriteFailure, err)
	}
	if !r.fallbackEnabled {
		return query.Components{}, "", fmt.Errorf("%w: %w", domain.ErrRewriteFailure, err)
	}

	r.logger.Warn("LLM extraction failed, falling back to pattern extraction",
		zap.Error(err),
	)
	components, err = r.fallback.Extract(ctx, rawQuery)
	if err != nil {
		return query.Components{}, "", fmt.Errorf("%w: %w", domain.ErrRewriteFailure, err)
	}
	return components, MethodPattern, nil
}

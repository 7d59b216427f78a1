package rewrite

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tindahan-cloud/prodsearch/internal/domain"
	"github.com/tindahan-cloud/prodsearch/internal/domain/query"
)

type stubExtractor struct {
	components query.Components
	err        error
	called     bool
}

func (s *stubExtractor) Extract(_ context.Context, _ string) (query.Components, error) {
	s.called = true
	return s.components, s.err
}

func mustComponents(t *testing.T, semantic string) query.Components {
	t.Helper()
	c, err := query.New(semantic, nil, nil, nil)
	require.NoError(t, err)
	return c
}

func TestRewrite_EmptyQuery(t *testing.T) {
	r := New(nil, true, zap.NewNop())
	for _, q := range []string{"", "   "} {
		_, _, err := r.Rewrite(context.Background(), q)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "query %q", q)
	}
}

func TestRewrite_PatternOnlyWhenNoPrimary(t *testing.T) {
	r := New(nil, true, zap.NewNop())
	c, method, err := r.Rewrite(context.Background(), "rice above 50 pesos")
	require.NoError(t, err)
	assert.Equal(t, MethodPattern, method)
	require.NotNil(t, c.PriceMin())
	assert.Equal(t, 50.0, *c.PriceMin())
}

func TestRewrite_PrimarySuccess(t *testing.T) {
	primary := &stubExtractor{components: mustComponents(t, "from llm")}
	r := New(primary, true, zap.NewNop())

	c, method, err := r.Rewrite(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, MethodLLM, method)
	assert.Equal(t, "from llm", c.SemanticQuery())
}

func TestRewrite_FallbackOnPrimaryFailure(t *testing.T) {
	primary := &stubExtractor{err: errors.New("model unreachable")}
	r := New(primary, true, zap.NewNop())

	c, method, err := r.Rewrite(context.Background(), "instant noodles under 20 pesos")
	require.NoError(t, err)
	assert.True(t, primary.called)
	assert.Equal(t, MethodPattern, method)
	assert.Equal(t, "instant noodles", c.SemanticQuery())
	require.NotNil(t, c.PriceMax())
	assert.Equal(t, 20.0, *c.PriceMax())
}

func TestRewrite_FallbackDisabledSurfacesFailure(t *testing.T) {
	primary := &stubExtractor{err: errors.New("bad json")}
	r := New(primary, false, zap.NewNop())

	_, _, err := r.Rewrite(context.Background(), "noodles")
	assert.ErrorIs(t, err, domain.ErrRewriteFailure)
}

func TestRewrite_CallerCancellationNotMaskedByFallback(t *testing.T) {
	primary := &stubExtractor{err: context.Canceled}
	r := New(primary, true, zap.NewNop())

	_, _, err := r.Rewrite(context.Background(), "noodles")
	assert.ErrorIs(t, err, domain.ErrRewriteFailure)
	assert.ErrorIs(t, err, context.Canceled)
}

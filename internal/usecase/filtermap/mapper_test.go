package filtermap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tindahan-cloud/prodsearch/internal/domain"
	"github.com/tindahan-cloud/prodsearch/internal/domain/filter"
	"github.com/tindahan-cloud/prodsearch/internal/domain/query"
)

func ptr(v float64) *float64 { return &v }

func components(t *testing.T, semantic string, min, max *float64, terms []string) query.Components {
	t.Helper()
	c, err := query.New(semantic, min, max, terms)
	require.NoError(t, err)
	return c
}

func TestMap_RoundTrip(t *testing.T) {
	qc := components(t, "x", ptr(10), ptr(50), []string{"spicy"})

	p, err := New(ModeLenient).Map(qc)
	require.NoError(t, err)
	require.NotNil(t, p.MinPrice())
	require.NotNil(t, p.MaxPrice())
	assert.Equal(t, 10.0, *p.MinPrice())
	assert.Equal(t, 50.0, *p.MaxPrice())
	assert.Equal(t, []string{"spicy"}, p.ExcludedTerms())

	// Re-constructing params from the mapped values must not raise.
	_, err = filter.New(p.MinPrice(), p.MaxPrice(), p.ExcludedTerms())
	require.NoError(t, err)
}

func TestMap_TermNormalization(t *testing.T) {
	qc := components(t, "noodles", nil, nil, []string{"  SPICY  ", "Dairy", "spicy"})

	p, err := New(ModeLenient).Map(qc)
	require.NoError(t, err)
	assert.Equal(t, []string{"spicy", "dairy"}, p.ExcludedTerms())
}

func TestMap_EmptyTermsBecomeNil(t *testing.T) {
	qc := components(t, "noodles", nil, nil, []string{"  ", ""})

	p, err := New(ModeLenient).Map(qc)
	require.NoError(t, err)
	// nil, not an empty slice: the retrieval layer treats them differently.
	assert.Nil(t, p.ExcludedTerms())
	assert.False(t, p.HasFilters())
}

func TestMap_ZeroComponentsRejected(t *testing.T) {
	_, err := New(ModeLenient).Map(query.Components{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMap_StrictRejectsBlankTerms(t *testing.T) {
	qc := components(t, "noodles", nil, nil, []string{"spicy", "  "})

	_, err := New(ModeStrict).Map(qc)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Lenient keeps the usable term.
	p, err := New(ModeLenient).Map(qc)
	require.NoError(t, err)
	assert.Equal(t, []string{"spicy"}, p.ExcludedTerms())
}

func TestSummarize(t *testing.T) {
	m := New(ModeLenient)

	p, err := filter.New(ptr(10), ptr(50), []string{"spicy", "dairy"})
	require.NoError(t, err)
	s := m.Summarize(p)
	assert.Equal(t, 2, s.PriceFilters)
	assert.Equal(t, 2, s.ExclusionFilters)
	assert.Equal(t, 4, s.Total())

	empty, err := filter.New(nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, m.Summarize(empty).Total())
}

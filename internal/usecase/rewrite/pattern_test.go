package rewrite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extract(t *testing.T, q string) extracted {
	t.Helper()
	c, err := NewPatternExtractor().Extract(context.Background(), q)
	require.NoError(t, err)
	return extracted{
		semantic: c.SemanticQuery(),
		min:      c.PriceMin(),
		max:      c.PriceMax(),
		negated:  c.NegatedTerms(),
	}
}

type extracted struct {
	semantic string
	min, max *float64
	negated  []string
}

func TestPattern_UnderPrice(t *testing.T) {
	got := extract(t, "instant noodles under 20 pesos")
	assert.Equal(t, "instant noodles", got.semantic)
	require.NotNil(t, got.max)
	assert.Equal(t, 20.0, *got.max)
	assert.Nil(t, got.min)
	assert.Nil(t, got.negated)
}

func TestPattern_AbovePrice(t *testing.T) {
	got := extract(t, "rice above 50 pesos")
	assert.Equal(t, "rice", got.semantic)
	require.NotNil(t, got.min)
	assert.Equal(t, 50.0, *got.min)
	assert.Nil(t, got.max)
}

func TestPattern_BetweenPrice(t *testing.T) {
	got := extract(t, "tools between 20 and 50 pesos")
	assert.Equal(t, "tools", got.semantic)
	require.NotNil(t, got.min)
	require.NotNil(t, got.max)
	assert.Equal(t, 20.0, *got.min)
	assert.Equal(t, 50.0, *got.max)
}

func TestPattern_ReversedRangeNormalized(t *testing.T) {
	got := extract(t, "items between 100 and 50 pesos")
	require.NotNil(t, got.min)
	require.NotNil(t, got.max)
	assert.Equal(t, 50.0, *got.min)
	assert.Equal(t, 100.0, *got.max)
}

func TestPattern_ToRange(t *testing.T) {
	got := extract(t, "snacks from 10 to 30 php")
	assert.Equal(t, "snacks", got.semantic)
	require.NotNil(t, got.min)
	require.NotNil(t, got.max)
	assert.Equal(t, 10.0, *got.min)
	assert.Equal(t, 30.0, *got.max)
}

func TestPattern_CurrencySymbolStripped(t *testing.T) {
	got := extract(t, "canned goods under ₱35")
	assert.Equal(t, "canned goods", got.semantic)
	require.NotNil(t, got.max)
	assert.Equal(t, 35.0, *got.max)

	got = extract(t, "canned goods below $12.50")
	require.NotNil(t, got.max)
	assert.Equal(t, 12.5, *got.max)
}

func TestPattern_CompoundNegation(t *testing.T) {
	got := extract(t, "noodles no spicy avoid dairy")
	assert.Equal(t, "noodles", got.semantic)
	assert.Equal(t, []string{"spicy", "dairy"}, got.negated)
}

func TestPattern_NegationConnectors(t *testing.T) {
	got := extract(t, "snacks no spicy or hot")
	assert.Equal(t, []string{"spicy", "hot"}, got.negated)

	got = extract(t, "drinks without caffeine, sugar and dairy")
	assert.Equal(t, []string{"caffeine", "sugar", "dairy"}, got.negated)
}

func TestPattern_AllStopWordNegation(t *testing.T) {
	// "no items" carries no attribute; not an error, just no terms.
	got := extract(t, "cheap tools no items")
	assert.Nil(t, got.negated)
	assert.Equal(t, "cheap tools", got.semantic)
}

func TestPattern_PriceInsideNegationNotDoubleCounted(t *testing.T) {
	// Price is stripped first, so the negation trigger has no residual clause.
	got := extract(t, "snacks not above 50 pesos")
	require.NotNil(t, got.min)
	assert.Equal(t, 50.0, *got.min)
	assert.Nil(t, got.negated)
	assert.Equal(t, "snacks", got.semantic)
}

func TestPattern_EmptyResidualFallsBackToGenericToken(t *testing.T) {
	got := extract(t, "under 20 pesos")
	assert.Equal(t, FallbackToken, got.semantic)
}

func TestPattern_UnparsableInputPassesThrough(t *testing.T) {
	got := extract(t, "FRESH Eggs!!!")
	assert.Equal(t, "fresh eggs", got.semantic)
	assert.Nil(t, got.min)
	assert.Nil(t, got.max)
	assert.Nil(t, got.negated)
}

func TestPattern_DuplicateNegatedTermsDeduped(t *testing.T) {
	got := extract(t, "noodles no spicy avoid spicy")
	assert.Equal(t, []string{"spicy"}, got.negated)
}

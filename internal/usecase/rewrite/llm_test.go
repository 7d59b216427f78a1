package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExtraction_WellFormed(t *testing.T) {
	c, err := parseExtraction(`{"semantic_query":"instant noodles","price_min":null,"price_max":20,"negated_terms":["spicy"]}`)
	require.NoError(t, err)
	assert.Equal(t, "instant noodles", c.SemanticQuery())
	assert.Nil(t, c.PriceMin())
	require.NotNil(t, c.PriceMax())
	assert.Equal(t, 20.0, *c.PriceMax())
	assert.Equal(t, []string{"spicy"}, c.NegatedTerms())
}

func TestParseExtraction_CodeFence(t *testing.T) {
	c, err := parseExtraction("```json\n{\"semantic_query\":\"rice\",\"price_min\":50,\"price_max\":null,\"negated_terms\":null}\n```")
	require.NoError(t, err)
	assert.Equal(t, "rice", c.SemanticQuery())
	require.NotNil(t, c.PriceMin())
	assert.Equal(t, 50.0, *c.PriceMin())
}

func TestParseExtraction_NumericString(t *testing.T) {
	c, err := parseExtraction(`{"semantic_query":"rice","price_min":"50","price_max":null,"negated_terms":null}`)
	require.NoError(t, err)
	require.NotNil(t, c.PriceMin())
	assert.Equal(t, 50.0, *c.PriceMin())
}

func TestParseExtraction_Malformed(t *testing.T) {
	cases := map[string]string{
		"not json":              `the query is about noodles`,
		"missing semantic":      `{"price_min":5}`,
		"semantic wrong type":   `{"semantic_query":42}`,
		"semantic empty":        `{"semantic_query":"  "}`,
		"price wrong type":      `{"semantic_query":"x","price_min":{"v":5}}`,
		"non-numeric string":    `{"semantic_query":"x","price_max":"cheap"}`,
		"terms wrong type":      `{"semantic_query":"x","negated_terms":"spicy"}`,
		"term element not str":  `{"semantic_query":"x","negated_terms":["spicy",3]}`,
		"inverted price bounds": `{"semantic_query":"x","price_min":50,"price_max":10}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseExtraction(payload)
			assert.Error(t, err)
		})
	}
}

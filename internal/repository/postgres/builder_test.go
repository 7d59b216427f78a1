package postgres

import (
	"strings"
	"testing"

	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tindahan-cloud/prodsearch/internal/domain/filter"
)

func ptr(v float64) *float64 { return &v }

func params(t *testing.T, min, max *float64, terms []string) filter.Params {
	t.Helper()
	p, err := filter.New(min, max, terms)
	require.NoError(t, err)
	return p
}

func TestBuildSimilarityQuery_NoFilters(t *testing.T) {
	vec := pgvector.NewVector([]float32{0.1, 0.2})
	sql, args := buildSimilarityQuery("tools", vec, params(t, nil, nil, nil), "org-1", 10)

	assert.Contains(t, sql, "FROM tools")
	assert.Contains(t, sql, "organization_id = $2")
	assert.Contains(t, sql, "status = 'active'")
	assert.Contains(t, sql, "ORDER BY embedding <=> $1")
	assert.Contains(t, sql, "LIMIT $3")
	// No sentinel price bounds sneak in when bounds are absent.
	assert.NotContains(t, sql, "price")

	require.Len(t, args, 3)
	assert.Equal(t, vec, args[0])
	assert.Equal(t, "org-1", args[1])
	assert.Equal(t, 10, args[2])
}

func TestBuildSimilarityQuery_PriceBounds(t *testing.T) {
	vec := pgvector.NewVector([]float32{0.1})

	sql, args := buildSimilarityQuery("parts", vec, params(t, ptr(10), ptr(50), nil), "org-1", 5)
	assert.Contains(t, sql, "price >= $3")
	assert.Contains(t, sql, "price <= $4")
	assert.Contains(t, sql, "LIMIT $5")
	require.Len(t, args, 5)
	assert.Equal(t, 10.0, args[2])
	assert.Equal(t, 50.0, args[3])

	// Single bound: the other is omitted entirely.
	sql, args = buildSimilarityQuery("parts", vec, params(t, nil, ptr(20), nil), "org-1", 5)
	assert.NotContains(t, sql, "price >=")
	assert.Contains(t, sql, "price <= $3")
	require.Len(t, args, 4)
}

func TestBuildSimilarityQuery_ActiveOnlyAlwaysPresent(t *testing.T) {
	vec := pgvector.NewVector([]float32{0.1})
	for _, p := range []filter.Params{
		params(t, nil, nil, nil),
		params(t, ptr(1), ptr(2), []string{"spicy"}),
	} {
		sql, _ := buildSimilarityQuery("tools", vec, p, "org-1", 10)
		if !strings.Contains(sql, "status = 'active'") {
			t.Errorf("active-only predicate missing from: %s", sql)
		}
	}
}

func TestBuildSimilarityQuery_ExcludedTermsStayOutOfSQL(t *testing.T) {
	// Negation exclusion happens post-retrieval where each decision is scored
	// and logged; the SQL layer must not pre-empt it.
	vec := pgvector.NewVector([]float32{0.1})
	sql, _ := buildSimilarityQuery("tools", vec, params(t, nil, nil, []string{"spicy"}), "org-1", 10)
	assert.NotContains(t, sql, "spicy")
	assert.NotContains(t, sql, "ILIKE")
}

package postgres

import (
	"fmt"
	"strings"

	"github.com/pgvector/pgvector-go"

	"github.com/tindahan-cloud/prodsearch/internal/domain/filter"
)

// entityTables maps the entity-type enum to its backing table. Table names are
// interpolated, so only values from this map ever reach the SQL text.
var entityTables = map[string]string{
	"tools": "tools",
	"parts": "parts",
}

// predicateBuilder accumulates WHERE conditions with numbered placeholders.
type predicateBuilder struct {
	conditions []string
	args       []any
}

func (b *predicateBuilder) add(format string, value any) {
	b.args = append(b.args, value)
	b.conditions = append(b.conditions, fmt.Sprintf(format, len(b.args)))
}

func (b *predicateBuilder) where() string {
	return strings.Join(b.conditions, " AND ")
}

// buildSimilarityQuery constructs the distance-ordered retrieval query.
// Ordering is ascending cosine distance; the similarity column is 1-distance.
// The active-only predicate is unconditional, tenant scoping is mandatory, and
// price bounds appear only when present — absent bounds are omitted entirely,
// never replaced with sentinel values.
func buildSimilarityQuery(
	table string,
	embedding pgvector.Vector,
	params filter.Params,
	orgID string,
	limit int,
) (sql string, args []any) {
	b := &predicateBuilder{}

	b.args = append(b.args, embedding) // $1 reserved for the query vector

	b.add("organization_id = $%d", orgID)
	b.conditions = append(b.conditions, "status = 'active'")

	if v := params.MinPrice(); v != nil {
		b.add("price >= $%d", *v)
	}
	if v := params.MaxPrice(); v != nil {
		b.add("price <= $%d", *v)
	}

	b.args = append(b.args, limit)

	sql = fmt.Sprintf(`SELECT id, name, description, price, stock_level,
	1 - (embedding <=> $1) AS similarity
FROM %s
WHERE %s
ORDER BY embedding <=> $1
LIMIT $%d`, table, b.where(), len(b.args))

	return sql, b.args
}

// Package postgres implements the hybrid retriever: embedding-similarity
// ordering combined with price/tenant/active-only SQL predicates, backed by
// Postgres with the pgvector extension.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/tindahan-cloud/prodsearch/internal/domain"
	"github.com/tindahan-cloud/prodsearch/internal/domain/filter"
	"github.com/tindahan-cloud/prodsearch/internal/domain/product"
)

// Connect opens a pgx pool with sane limits and verifies connectivity.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 25
	cfg.MinConns = 2
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// Repo runs similarity-ordered product retrieval.
type Repo struct {
	pool       *pgxpool.Pool
	dimensions int
}

// New creates a retrieval repository. dimensions is the vector width the
// product tables were created with; mismatching query embeddings fail loudly
// before reaching the store.
func New(pool *pgxpool.Pool, dimensions int) *Repo {
	return &Repo{pool: pool, dimensions: dimensions}
}

// SearchSimilar implements the search usecase Retriever contract. Zero rows is
// a successful outcome. A missing org id fails the whole operation — an
// unscoped query would leak cross-tenant data.
func (r *Repo) SearchSimilar(
	ctx context.Context, entityType domain.EntityType,
	embedding []float32, params filter.Params,
	orgID string, limit int,
) ([]product.Row, error) {
	if orgID == "" {
		return nil, fmt.Errorf("%w: retrieval requires an organization scope", domain.ErrUnauthorized)
	}
	table, ok := entityTables[entityType.String()]
	if !ok {
		return nil, fmt.Errorf("%w: unknown entity type %q", domain.ErrInvalidInput, entityType)
	}
	if r.dimensions > 0 && len(embedding) != r.dimensions {
		return nil, domain.NewDimMismatch(len(embedding), r.dimensions)
	}

	sql, args := buildSimilarityQuery(table, pgvector.NewVector(embedding), params, orgID, limit)

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, classifyQueryError(err, table)
	}
	defer rows.Close()

	var out []product.Row
	for rows.Next() {
		var row product.Row
		if err := rows.Scan(&row.ID, &row.Name, &row.Description, &row.Price, &row.StockLevel, &row.Similarity); err != nil {
			return nil, fmt.Errorf("%w: scan %s row: %w", domain.ErrRetrievalFailure, table, err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyQueryError(err, table)
	}
	return out, nil
}

// HealthCheck verifies store connectivity.
func (r *Repo) HealthCheck(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

// classifyQueryError separates "infra misconfigured" (vector extension or
// operator missing, dimension mismatch) from a generic retrieval failure, so
// operators can tell them apart from transient outages.
func classifyQueryError(err error, table string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "42883": // undefined_function: operator <=> does not exist
			return fmt.Errorf("%w: %s (is the pgvector extension installed?)",
				domain.ErrVectorOperatorMissing, pgErr.Message)
		case "42704": // undefined_object: type "vector" does not exist
			return fmt.Errorf("%w: %s (is the pgvector extension installed?)",
				domain.ErrVectorOperatorMissing, pgErr.Message)
		}
		if strings.Contains(pgErr.Message, "dimensions") {
			return fmt.Errorf("%w: %s", domain.ErrVectorDimMismatch, pgErr.Message)
		}
	}
	return fmt.Errorf("%w: query %s: %w", domain.ErrRetrievalFailure, table, err)
}

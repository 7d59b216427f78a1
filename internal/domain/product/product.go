// Package product holds the retrieved-candidate value object.
package product

import (
	"fmt"
	"strings"

	"github.com/tindahan-cloud/prodsearch/internal/domain"
)

// Canonical stock labels. These are customer-facing strings; the out-of-stock
// label doubles as pre-order messaging.
const (
	LabelInStock    = "In stock"
	LabelOutOfStock = "Out of stock – available for pre-order"
)

// Row is one raw record from the retrieval store, before validation.
type Row struct {
	ID          string
	Name        string
	Description string
	Price       float64
	StockLevel  int
	Similarity  float64
}

// Result is a single validated, ranked search candidate.
type Result struct {
	id          string
	name        string
	description string
	price       float64
	stockLevel  int
	inStock     bool
	statusLabel string
	similarity  float64
}

// New validates and builds a result. The stock invariant is enforced here:
// inStock must equal stockLevel > 0 and statusLabel must be the canonical
// string tied to that boolean.
func New(
	id, name, description string,
	price float64, stockLevel int,
	inStock bool, statusLabel string,
	similarity float64,
) (Result, error) {
	if strings.TrimSpace(id) == "" {
		return Result{}, fmt.Errorf("%w: product id is required", domain.ErrInvalidInput)
	}
	if price < 0 {
		return Result{}, fmt.Errorf("%w: price must be >= 0, got %v", domain.ErrInvalidInput, price)
	}
	if stockLevel < 0 {
		return Result{}, fmt.Errorf("%w: stock_level must be >= 0, got %d", domain.ErrInvalidInput, stockLevel)
	}
	if inStock != (stockLevel > 0) {
		return Result{}, fmt.Errorf("%w: in_stock=%t inconsistent with stock_level=%d",
			domain.ErrInvalidInput, inStock, stockLevel)
	}
	want := LabelOutOfStock
	if inStock {
		want = LabelInStock
	}
	if statusLabel != want {
		return Result{}, fmt.Errorf("%w: status_label %q inconsistent with stock_level=%d",
			domain.ErrInvalidInput, statusLabel, stockLevel)
	}

	return Result{
		id:          id,
		name:        name,
		description: description,
		price:       price,
		stockLevel:  stockLevel,
		inStock:     inStock,
		statusLabel: statusLabel,
		similarity:  similarity,
	}, nil
}

// FromRow builds a result from a raw retrieval row, deriving the stock flag and
// label so the invariant holds by construction.
func FromRow(row Row) (Result, error) {
	inStock := row.StockLevel > 0
	label := LabelOutOfStock
	if inStock {
		label = LabelInStock
	}
	return New(row.ID, row.Name, row.Description, row.Price, row.StockLevel, inStock, label, row.Similarity)
}

// ID returns the product identifier.
func (r *Result) ID() string { return r.id }

// Name returns the product name.
func (r *Result) Name() string { return r.name }

// Description returns the product description.
func (r *Result) Description() string { return r.description }

// Price returns the unit price.
func (r *Result) Price() float64 { return r.price }

// StockLevel returns the units on hand.
func (r *Result) StockLevel() int { return r.stockLevel }

// InStock reports whether any units are on hand.
func (r *Result) InStock() bool { return r.inStock }

// StatusLabel returns the canonical customer-facing stock label.
func (r *Result) StatusLabel() string { return r.statusLabel }

// Similarity returns the relevance score from retrieval.
func (r *Result) Similarity() float64 { return r.similarity }

// SearchText returns the text the negation filter scores against.
func (r *Result) SearchText() string {
	return strings.TrimSpace(r.name + " " + r.description)
}

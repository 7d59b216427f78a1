package query

import (
	"errors"
	"testing"

	"github.com/tindahan-cloud/prodsearch/internal/domain"
)

func ptr(v float64) *float64 { return &v }

func TestNew_Valid(t *testing.T) {
	c, err := New("instant noodles", ptr(10), ptr(50), []string{"spicy"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.SemanticQuery() != "instant noodles" {
		t.Errorf("SemanticQuery() = %q", c.SemanticQuery())
	}
	if *c.PriceMin() != 10 || *c.PriceMax() != 50 {
		t.Errorf("bounds = (%v, %v)", c.PriceMin(), c.PriceMax())
	}
	if got := c.NegatedTerms(); len(got) != 1 || got[0] != "spicy" {
		t.Errorf("NegatedTerms() = %v", got)
	}
	if !c.HasConstraints() {
		t.Error("HasConstraints() = false")
	}
}

func TestNew_EmptySemanticQuery(t *testing.T) {
	for _, q := range []string{"", "   ", "\t\n"} {
		if _, err := New(q, nil, nil, nil); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("New(%q) error = %v, want ErrInvalidInput", q, err)
		}
	}
}

func TestNew_PriceOrdering(t *testing.T) {
	if _, err := New("rice", ptr(50), ptr(10), nil); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("inverted bounds error = %v, want ErrInvalidInput", err)
	}
	// Equal bounds are fine.
	if _, err := New("rice", ptr(25), ptr(25), nil); err != nil {
		t.Fatalf("equal bounds: unexpected error %v", err)
	}
}

func TestNew_NegativePrices(t *testing.T) {
	if _, err := New("rice", ptr(-1), nil, nil); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("negative min error = %v", err)
	}
	if _, err := New("rice", nil, ptr(-0.5), nil); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("negative max error = %v", err)
	}
}

func TestNew_EmptyNegatedTermsNormalizeToNil(t *testing.T) {
	c, err := New("rice", nil, nil, []string{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.NegatedTerms() != nil {
		t.Errorf("NegatedTerms() = %v, want nil", c.NegatedTerms())
	}
	if c.HasConstraints() {
		t.Error("HasConstraints() = true for unconstrained query")
	}
}

func TestComponents_Immutable(t *testing.T) {
	terms := []string{"spicy"}
	c, err := New("noodles", nil, nil, terms)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	terms[0] = "mutated"
	if got := c.NegatedTerms(); got[0] != "spicy" {
		t.Errorf("caller mutation leaked: %v", got)
	}
	got := c.NegatedTerms()
	got[0] = "mutated"
	if c.NegatedTerms()[0] != "spicy" {
		t.Error("accessor returned the internal slice")
	}
}

package filter

import (
	"errors"
	"testing"

	"github.com/tindahan-cloud/prodsearch/internal/domain"
)

func ptr(v float64) *float64 { return &v }

func TestNew_Valid(t *testing.T) {
	p, err := New(ptr(10), ptr(50), []string{"spicy"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *p.MinPrice() != 10 || *p.MaxPrice() != 50 {
		t.Errorf("bounds = (%v, %v)", p.MinPrice(), p.MaxPrice())
	}
	if got := p.ExcludedTerms(); len(got) != 1 || got[0] != "spicy" {
		t.Errorf("ExcludedTerms() = %v", got)
	}
}

func TestNew_InvertedBounds(t *testing.T) {
	if _, err := New(ptr(50), ptr(10), nil); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("error = %v, want ErrInvalidInput", err)
	}
}

func TestParams_Predicates(t *testing.T) {
	tests := []struct {
		name      string
		min, max  *float64
		terms     []string
		hasPrice  bool
		hasAny    bool
	}{
		{"empty", nil, nil, nil, false, false},
		{"min only", ptr(5), nil, nil, true, true},
		{"max only", nil, ptr(20), nil, true, true},
		{"terms only", nil, nil, []string{"spicy"}, false, true},
		{"all", ptr(5), ptr(20), []string{"spicy"}, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.min, tt.max, tt.terms)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.HasPriceFilters() != tt.hasPrice {
				t.Errorf("HasPriceFilters() = %t, want %t", p.HasPriceFilters(), tt.hasPrice)
			}
			if p.HasFilters() != tt.hasAny {
				t.Errorf("HasFilters() = %t, want %t", p.HasFilters(), tt.hasAny)
			}
		})
	}
}

func TestNew_EmptyTermsStayNil(t *testing.T) {
	p, err := New(nil, nil, []string{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ExcludedTerms() != nil {
		t.Errorf("ExcludedTerms() = %v, want nil", p.ExcludedTerms())
	}
}

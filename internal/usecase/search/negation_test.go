package search

import (
	"testing"

	"github.com/tindahan-cloud/prodsearch/internal/domain/product"
	domsearch "github.com/tindahan-cloud/prodsearch/internal/domain/search"
)

func candidate(t *testing.T, id, name, description string) product.Result {
	t.Helper()
	r, err := product.FromRow(product.Row{ID: id, Name: name, Description: description, Price: 10, StockLevel: 1})
	if err != nil {
		t.Fatalf("build candidate %s: %v", id, err)
	}
	return r
}

func TestLexicalScorer(t *testing.T) {
	s := LexicalScorer{}
	tests := []struct {
		term, text string
		want       float64
	}{
		{"spicy", "Extra spicy chili flavor noodles", 1.0},
		{"spicy", "Gentle flavor noodles", 0},
		{"spicy", "Sweet flavored noodles", 0},
		{"SPICY", "extra Spicy noodles", 1.0},
		{"spice", "spiced crackers", 0.6},
		{"hot", "shotgun shells", 0}, // short terms never partial-match
		{"chili oil", "premium chili oil 250ml", 1.0},
		{"chili oil", "premium coconut oil", 0},
		{"", "anything", 0},
	}
	for _, tt := range tests {
		if got := s.Score(tt.term, tt.text); got != tt.want {
			t.Errorf("Score(%q, %q) = %v, want %v", tt.term, tt.text, got, tt.want)
		}
	}
}

func TestApplyNegationFiltering_RemovesMatchingCandidate(t *testing.T) {
	results := []product.Result{
		candidate(t, "a", "Noodles A", "Extra spicy chili flavor noodles"),
		candidate(t, "b", "Noodles B", "Gentle flavor noodles"),
		candidate(t, "c", "Noodles C", "Sweet flavored noodles"),
	}
	debug := domsearch.NewDebugInfo("noodles no spicy")

	got := applyNegationFiltering(results, []string{"spicy"}, LexicalScorer{}, DefaultNegationThreshold, debug)

	if len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}
	if got[0].ID() != "b" || got[1].ID() != "c" {
		t.Errorf("surviving order = [%s, %s], want [b, c]", got[0].ID(), got[1].ID())
	}
	if len(debug.ExcludedProducts()) != 1 || debug.ExcludedProducts()[0].ProductID != "a" {
		t.Errorf("ExcludedProducts() = %+v", debug.ExcludedProducts())
	}
	if len(debug.NegationDecisions()) != 1 {
		t.Errorf("NegationDecisions() = %d entries, want only the exclusion", len(debug.NegationDecisions()))
	}
}

func TestApplyNegationFiltering_EmptyTermsIsIdentity(t *testing.T) {
	results := []product.Result{
		candidate(t, "a", "A", "spicy"),
		candidate(t, "b", "B", "mild"),
	}
	debug := domsearch.NewDebugInfo("q")

	got := applyNegationFiltering(results, nil, LexicalScorer{}, DefaultNegationThreshold, debug)

	if len(got) != len(results) {
		t.Fatalf("got %d results, want %d", len(got), len(results))
	}
	for i := range got {
		if got[i].ID() != results[i].ID() {
			t.Errorf("result %d = %s, want %s", i, got[i].ID(), results[i].ID())
		}
	}
	if len(debug.NegationDecisions()) != 0 {
		t.Errorf("identity pass produced %d debug entries", len(debug.NegationDecisions()))
	}
}

func TestApplyNegationFiltering_UnionAcrossTerms(t *testing.T) {
	results := []product.Result{
		candidate(t, "a", "A", "spicy snack"),
		candidate(t, "b", "B", "dairy drink"),
		candidate(t, "c", "C", "plain crackers"),
	}

	got := applyNegationFiltering(results, []string{"spicy", "dairy"}, LexicalScorer{}, DefaultNegationThreshold, nil)

	if len(got) != 1 || got[0].ID() != "c" {
		t.Fatalf("got %d results, want only c", len(got))
	}
}

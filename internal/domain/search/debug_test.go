package search

import (
	"strings"
	"testing"
	"time"
)

func TestDebugInfo_Accumulation(t *testing.T) {
	d := NewDebugInfo("noodles no spicy")

	d.AddFilterDecision("price", "skipped", "no price bounds extracted", nil)
	d.AddStageTiming("rewrite", 3*time.Millisecond)
	d.AddNegationDecision(NegationDecision{
		Term: "spicy", ProductID: "p1", Description: "Extra spicy chili noodles",
		Score: 1.0, Excluded: true, Reasoning: "term matched product text",
	})
	d.AddNegationDecision(NegationDecision{
		Term: "spicy", ProductID: "p2", Description: "Gentle flavor noodles",
		Score: 0, Excluded: false, Reasoning: "no match",
	})

	if len(d.FilterDecisions()) != 1 {
		t.Errorf("FilterDecisions() = %d entries", len(d.FilterDecisions()))
	}
	if len(d.NegationDecisions()) != 2 {
		t.Errorf("NegationDecisions() = %d entries", len(d.NegationDecisions()))
	}
	if len(d.ExcludedProducts()) != 1 || d.ExcludedProducts()[0].ProductID != "p1" {
		t.Errorf("ExcludedProducts() = %+v", d.ExcludedProducts())
	}
	if len(d.StageTimings()) != 1 || d.StageTimings()[0].Stage != "rewrite" {
		t.Errorf("StageTimings() = %+v", d.StageTimings())
	}
}

func TestDebugInfo_TransparencyMessage(t *testing.T) {
	d := NewDebugInfo("q")
	if msg := d.TransparencyMessage(); msg != "" {
		t.Errorf("TransparencyMessage() = %q for no exclusions", msg)
	}

	d.AddNegationDecision(NegationDecision{Term: "spicy", ProductID: "p1", Excluded: true})
	d.AddNegationDecision(NegationDecision{Term: "dairy", ProductID: "p2", Excluded: true})
	d.AddNegationDecision(NegationDecision{Term: "spicy", ProductID: "p3", Excluded: true})

	msg := d.TransparencyMessage()
	if !strings.HasPrefix(msg, "We excluded 3 products") {
		t.Errorf("TransparencyMessage() = %q", msg)
	}
	// Terms listed once each, first occurrence order.
	if !strings.HasSuffix(msg, "spicy, dairy") {
		t.Errorf("TransparencyMessage() = %q", msg)
	}
}

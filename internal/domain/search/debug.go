package search

import (
	"fmt"
	"strings"
	"time"
)

// FilterDecision records one filter-application decision for transparency.
type FilterDecision struct {
	FilterType string
	Decision   string
	Reasoning  string
	Context    map[string]string
}

// NegationDecision records the scoring of one candidate against one negated term.
type NegationDecision struct {
	Term        string
	ProductID   string
	Description string
	Score       float64
	Excluded    bool
	Reasoning   string
}

// ExcludedProduct identifies a candidate removed by the negation post-filter.
type ExcludedProduct struct {
	ProductID string
	Name      string
	Term      string
}

// StageTiming records how long one pipeline stage took.
type StageTiming struct {
	Stage    string
	Duration time.Duration
}

// DebugInfo accumulates every decision made across one pipeline run. It is an
// arena-style accumulator: single owner, appended to stage by stage, read only
// after the pipeline completes. Never shared across requests.
type DebugInfo struct {
	RawQuery          string
	SemanticQuery     string
	ExtractionMethod  string
	Components        map[string]any
	FilterParams      map[string]any
	filterDecisions   []FilterDecision
	negationDecisions []NegationDecision
	excludedProducts  []ExcludedProduct
	stageTimings      []StageTiming
}

// NewDebugInfo creates an empty accumulator for one request.
func NewDebugInfo(rawQuery string) *DebugInfo {
	return &DebugInfo{RawQuery: rawQuery}
}

// AddFilterDecision appends one filter decision.
func (d *DebugInfo) AddFilterDecision(filterType, decision, reasoning string, context map[string]string) {
	d.filterDecisions = append(d.filterDecisions, FilterDecision{
		FilterType: filterType,
		Decision:   decision,
		Reasoning:  reasoning,
		Context:    context,
	})
}

// AddNegationDecision appends one negation scoring record. Excluded candidates
// are also added to the excluded-product list.
func (d *DebugInfo) AddNegationDecision(dec NegationDecision) {
	d.negationDecisions = append(d.negationDecisions, dec)
	if dec.Excluded {
		d.excludedProducts = append(d.excludedProducts, ExcludedProduct{
			ProductID: dec.ProductID,
			Name:      dec.Description,
			Term:      dec.Term,
		})
	}
}

// AddStageTiming appends one stage duration.
func (d *DebugInfo) AddStageTiming(stage string, duration time.Duration) {
	d.stageTimings = append(d.stageTimings, StageTiming{Stage: stage, Duration: duration})
}

// FilterDecisions returns the accumulated filter decisions.
func (d *DebugInfo) FilterDecisions() []FilterDecision { return d.filterDecisions }

// NegationDecisions returns the accumulated negation decisions.
func (d *DebugInfo) NegationDecisions() []NegationDecision { return d.negationDecisions }

// ExcludedProducts returns the candidates removed by negation filtering.
func (d *DebugInfo) ExcludedProducts() []ExcludedProduct { return d.excludedProducts }

// StageTimings returns the per-stage durations.
func (d *DebugInfo) StageTimings() []StageTiming { return d.stageTimings }

// TransparencyMessage synthesizes the customer-readable sentence summarizing
// negation exclusions. Empty when nothing was excluded.
func (d *DebugInfo) TransparencyMessage() string {
	if len(d.excludedProducts) == 0 {
		return ""
	}
	seen := make(map[string]struct{}, len(d.excludedProducts))
	var terms []string
	for _, ex := range d.excludedProducts {
		if _, ok := seen[ex.Term]; ok {
			continue
		}
		seen[ex.Term] = struct{}{}
		terms = append(terms, ex.Term)
	}
	return fmt.Sprintf("We excluded %d products containing characteristics you wanted to avoid: %s",
		len(d.excludedProducts), strings.Join(terms, ", "))
}

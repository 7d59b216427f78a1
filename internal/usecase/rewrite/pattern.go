package rewrite

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/tindahan-cloud/prodsearch/internal/domain/query"
)

// FallbackToken replaces an empty residual query so the semantic query is never
// blank after constraint stripping.
const FallbackToken = "products"

// Price phrase patterns, checked in precedence order. The first matching class
// wins; a query never yields bounds from two classes.
var (
	reUnder = regexp.MustCompile(
		`(?i)\b(?:under|below|less than|cheaper than|at most)\s+(?:₱|\$|php\s*)?(\d+(?:\.\d+)?)(?:\s*(?:php|pesos?))?`)
	reAbove = regexp.MustCompile(
		`(?i)\b(?:above|over|more than|at least)\s+(?:₱|\$|php\s*)?(\d+(?:\.\d+)?)(?:\s*(?:php|pesos?))?`)
	reBetween = regexp.MustCompile(
		`(?i)\bbetween\s+(?:₱|\$|php\s*)?(\d+(?:\.\d+)?)(?:\s*(?:php|pesos?))?\s+and\s+(?:₱|\$|php\s*)?(\d+(?:\.\d+)?)(?:\s*(?:php|pesos?))?`)
	reRange = regexp.MustCompile(
		`(?i)\b(?:from\s+)?(?:₱|\$|php\s*)?(\d+(?:\.\d+)?)\s*(?:php|pesos?)?\s+to\s+(?:₱|\$|php\s*)?(\d+(?:\.\d+)?)(?:\s*(?:php|pesos?))?`)
)

// Negation phrases: a trigger word followed by one or more terms joined by
// commas, "or", or "and".
var (
	reNegation = regexp.MustCompile(
		`(?i)\b(?:no|not|avoid|without|exclude|excluding|skip)\s+` +
			`([a-z][a-z-]*(?:(?:\s*,\s*|\s+(?:or|and)\s+)[a-z][a-z-]*)*)`)
	reNegationSplit = regexp.MustCompile(`(?i)\s*,\s*|\s+(?:or|and)\s+`)
	// A trigger left with nothing to negate (its clause was consumed by price
	// stripping, e.g. "not above 50 pesos") is dropped from the residual.
	reDanglingNegation = regexp.MustCompile(`(?i)(?:\s*\b(?:no|not|avoid|without|exclude|excluding|skip)\b)+\s*$`)
)

var (
	reCurrencyToken = regexp.MustCompile(`(?i)₱|\$|\bphp\b|\bpesos?\b`)
	reRepeatPunct   = regexp.MustCompile(`([!?.,;:])[!?.,;:]+`)
)

// negationStopWords are words that carry no product attribute. A negation phrase
// consisting only of these yields no negated terms.
var negationStopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "of": {}, "for": {}, "to": {}, "with": {},
	"any": {}, "some": {}, "it": {}, "them": {}, "that": {}, "this": {},
	"items": {}, "products": {}, "things": {}, "stuff": {}, "please": {},
}

// PatternExtractor is the deterministic regex-based extraction strategy. It
// never fails on unparsable input; worst case it returns the normalized
// original text with no constraints.
type PatternExtractor struct{}

// NewPatternExtractor creates the regex-based extractor.
func NewPatternExtractor() *PatternExtractor {
	return &PatternExtractor{}
}

// Extract implements Extractor. Price phrases are stripped before negation
// phrases are matched so a price clause inside a negation phrase is not
// counted as a negated term.
func (e *PatternExtractor) Extract(_ context.Context, rawQuery string) (query.Components, error) {
	text := rawQuery

	text, priceMin, priceMax := extractPrices(text)
	text, negated := extractNegations(text)
	text = reDanglingNegation.ReplaceAllString(text, "")

	semantic := normalizeResidual(text)
	if semantic == "" {
		semantic = FallbackToken
	}

	return query.New(semantic, priceMin, priceMax, negated)
}

// extractPrices finds the first matching price phrase, removes it from the
// text, and returns the bounds. Reversed ranges are normalized, not rejected.
func extractPrices(text string) (residual string, priceMin, priceMax *float64) {
	if m := reUnder.FindStringSubmatchIndex(text); m != nil {
		v := parsePrice(text[m[2]:m[3]])
		return cut(text, m[0], m[1]), nil, &v
	}
	if m := reAbove.FindStringSubmatchIndex(text); m != nil {
		v := parsePrice(text[m[2]:m[3]])
		return cut(text, m[0], m[1]), &v, nil
	}
	for _, re := range []*regexp.Regexp{reBetween, reRange} {
		m := re.FindStringSubmatchIndex(text)
		if m == nil {
			continue
		}
		lo := parsePrice(text[m[2]:m[3]])
		hi := parsePrice(text[m[4]:m[5]])
		if lo > hi {
			lo, hi = hi, lo
		}
		return cut(text, m[0], m[1]), &lo, &hi
	}
	return text, nil, nil
}

// extractNegations finds every negation phrase, removes them from the text,
// and returns the surviving negated terms in order of first occurrence.
func extractNegations(text string) (residual string, terms []string) {
	matches := reNegation.FindAllStringSubmatchIndex(text, -1)
	if matches == nil {
		return text, nil
	}

	seen := make(map[string]struct{})
	for _, m := range matches {
		for _, raw := range reNegationSplit.Split(text[m[2]:m[3]], -1) {
			term := strings.ToLower(strings.TrimSpace(raw))
			if term == "" {
				continue
			}
			if _, stop := negationStopWords[term]; stop {
				continue
			}
			if _, dup := seen[term]; dup {
				continue
			}
			seen[term] = struct{}{}
			terms = append(terms, term)
		}
	}

	// Remove phrases back to front so earlier indices stay valid.
	for i := len(matches) - 1; i >= 0; i-- {
		text = cut(text, matches[i][0], matches[i][1])
	}
	return text, terms
}

// normalizeResidual cleans the leftover text: currency tokens dropped, case
// normalized, repeated punctuation collapsed, trailing punctuation trimmed,
// whitespace collapsed.
func normalizeResidual(s string) string {
	s = strings.ToLower(s)
	s = reCurrencyToken.ReplaceAllString(s, " ")
	s = reRepeatPunct.ReplaceAllString(s, "$1")
	s = strings.Join(strings.Fields(s), " ")
	return strings.Trim(s, " .,!?;:")
}

func parsePrice(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func cut(s string, from, to int) string {
	return s[:from] + " " + s[to:]
}

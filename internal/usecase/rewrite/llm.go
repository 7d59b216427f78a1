package rewrite

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tindahan-cloud/prodsearch/internal/domain/query"
)

const extractionSystemPrompt = `You extract structured shopping constraints from a product search query.
Respond with a single JSON object and nothing else:
{"semantic_query": string, "price_min": number|null, "price_max": number|null, "negated_terms": [string]|null}
semantic_query is the query text with price phrases and negations removed.
negated_terms are attributes the customer wants excluded ("no spicy" -> ["spicy"]).
Prices are plain numbers without currency symbols.`

// DefaultLLMTimeout bounds the extraction call; the LLM is the only stage
// besides retrieval that can block on an external service.
const DefaultLLMTimeout = 5 * time.Second

// LLMExtractor asks a language model to decompose the query and validates the
// loosely-typed JSON answer field by field. The components constructor stays
// the single source of truth for legality.
type LLMExtractor struct {
	model   ChatCompleter
	timeout time.Duration
	logger  *zap.Logger
}

// NewLLMExtractor creates the model-backed extraction strategy.
func NewLLMExtractor(model ChatCompleter, timeout time.Duration, logger *zap.Logger) *LLMExtractor {
	if timeout <= 0 {
		timeout = DefaultLLMTimeout
	}
	return &LLMExtractor{model: model, timeout: timeout, logger: logger}
}

// Extract implements Extractor. Any malformed answer is an error; the caller
// decides whether to fall back to pattern extraction.
func (e *LLMExtractor) Extract(ctx context.Context, rawQuery string) (query.Components, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	answer, err := e.model.Complete(ctx, extractionSystemPrompt, rawQuery)
	if err != nil {
		return query.Components{}, fmt.Errorf("llm extraction call: %w", err)
	}

	components, err := parseExtraction(answer)
	if err != nil {
		e.logger.Warn("Malformed LLM extraction answer",
			zap.String("answer", truncate(answer, 256)),
			zap.Error(err),
		)
		return query.Components{}, err
	}
	return components, nil
}

// parseExtraction decodes the answer into an untyped map and coerces each
// field explicitly.
func parseExtraction(answer string) (query.Components, error) {
	raw := stripCodeFence(answer)

	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return query.Components{}, fmt.Errorf("decode extraction json: %w", err)
	}

	semantic, err := stringField(m, "semantic_query")
	if err != nil {
		return query.Components{}, err
	}
	priceMin, err := numberField(m, "price_min")
	if err != nil {
		return query.Components{}, err
	}
	priceMax, err := numberField(m, "price_max")
	if err != nil {
		return query.Components{}, err
	}
	negated, err := stringListField(m, "negated_terms")
	if err != nil {
		return query.Components{}, err
	}

	return query.New(semantic, priceMin, priceMax, negated)
}

func stringField(m map[string]any, key string) (string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return "", fmt.Errorf("extraction json missing %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("extraction json field %q is %T, want string", key, v)
	}
	return s, nil
}

// numberField accepts a JSON number, a numeric string, or null/absent.
func numberField(m map[string]any, key string) (*float64, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch n := v.(type) {
	case float64:
		return &n, nil
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return nil, fmt.Errorf("extraction json field %q is not numeric: %q", key, n)
		}
		return &parsed, nil
	default:
		return nil, fmt.Errorf("extraction json field %q is %T, want number", key, v)
	}
}

func stringListField(m map[string]any, key string) ([]string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("extraction json field %q is %T, want array", key, v)
	}
	out := make([]string, 0, len(list))
	for i, el := range list {
		s, ok := el.(string)
		if !ok {
			return nil, fmt.Errorf("extraction json field %q[%d] is %T, want string", key, i, el)
		}
		out = append(out, s)
	}
	return out, nil
}

// stripCodeFence removes a surrounding markdown code fence if the model added one.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

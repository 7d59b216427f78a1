// Package rewrite turns a raw free-text query into structured query components.
package rewrite

import (
	"context"

	"github.com/tindahan-cloud/prodsearch/internal/domain/query"
)

// Method identifies which extraction strategy produced the components.
type Method string

// Extraction methods.
const (
	MethodLLM     Method = "llm"
	MethodPattern Method = "pattern"
)

// Extractor is one constraint-extraction strategy.
type Extractor interface {
	Extract(ctx context.Context, rawQuery string) (query.Components, error)
}

// ChatCompleter returns a model's raw text answer for a system+user prompt pair.
// Implemented by the OpenAI transport.
type ChatCompleter interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

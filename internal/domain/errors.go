package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput signals malformed caller input (empty query, bad entity type,
	// inverted price bounds). Rejected locally, never retried.
	ErrInvalidInput = errors.New("invalid input")
	// ErrRewriteFailure signals that query rewriting failed and no fallback was available.
	ErrRewriteFailure = errors.New("query rewrite failed")
	// ErrRetrievalFailure signals a backing-store failure during retrieval.
	ErrRetrievalFailure = errors.New("retrieval failed")
	// ErrVectorOperatorMissing signals that the store lacks the vector similarity
	// operator (extension not installed), as opposed to a transient outage.
	ErrVectorOperatorMissing = errors.New("vector similarity operator unavailable")
	// ErrVectorDimMismatch signals an embedding dimension mismatch against the store.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrUnauthorized signals a missing or unknown tenant context.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)

// DimMismatchError wraps ErrVectorDimMismatch with both dimensions so operators can
// tell a misconfigured model apart from a misconfigured table.
type DimMismatchError struct {
	Got  int
	Want int
}

func (e *DimMismatchError) Error() string {
	return fmt.Sprintf("%s: embedding has %d dimensions, store expects %d",
		ErrVectorDimMismatch.Error(), e.Got, e.Want)
}

func (e *DimMismatchError) Unwrap() error { return ErrVectorDimMismatch }

// NewDimMismatch creates a dimension mismatch error.
func NewDimMismatch(got, want int) error {
	return &DimMismatchError{Got: got, Want: want}
}

package search

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SearchLogger emits one structured record per pipeline step, tagged with the
// request id. It is a side channel for log aggregation: always on, independent
// of whether the caller asked for debug output in the response.
type SearchLogger struct {
	logger    *zap.Logger
	requestID string
	debug     bool
}

// NewSearchLogger creates a per-request logger. An empty request id gets a
// generated one so directly-invoked pipelines still correlate.
func NewSearchLogger(logger *zap.Logger, requestID string, debug bool) *SearchLogger {
	if requestID == "" {
		requestID = uuid.NewString()
	}
	return &SearchLogger{
		logger:    logger.With(zap.String("request_id", requestID)),
		requestID: requestID,
		debug:     debug,
	}
}

// RequestID returns the id this logger tags records with.
func (l *SearchLogger) RequestID() string { return l.requestID }

// DebugEnabled reports whether the caller asked for debug output.
func (l *SearchLogger) DebugEnabled() bool { return l.debug }

// Stage logs one completed pipeline step with its duration.
func (l *SearchLogger) Stage(stage string, start time.Time, fields ...zap.Field) {
	all := append([]zap.Field{
		zap.String("event", "pipeline_stage"),
		zap.String("stage", stage),
		zap.Duration("duration", time.Since(start)),
	}, fields...)
	l.logger.Info("search_pipeline", all...)
}

// Failure logs a failed pipeline step before the error surfaces to the caller.
func (l *SearchLogger) Failure(stage string, err error, fields ...zap.Field) {
	all := append([]zap.Field{
		zap.String("event", "pipeline_failure"),
		zap.String("stage", stage),
		zap.Error(err),
	}, fields...)
	l.logger.Error("search_pipeline", all...)
}

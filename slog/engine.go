package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/nekyl/twob"
)

// Ensure LoggingSearchEngine implements twob.SearchEngine.
var _ twob.SearchEngine = (*LoggingSearchEngine)(nil)

// LoggingSearchEngine wraps a SearchEngine with debug logging.
type LoggingSearchEngine struct {
	next   twob.SearchEngine
	logger *slog.Logger
}

// NewLoggingSearchEngine creates a new LoggingSearchEngine.
func NewLoggingSearchEngine(next twob.SearchEngine, logger *slog.Logger) *LoggingSearchEngine {
	return &LoggingSearchEngine{next: next, logger: logger}
}

// Name delegates to the wrapped engine.
func (e *LoggingSearchEngine) Name() string {
	return e.next.Name()
}

// Search delegates to the wrapped engine and logs the operation.
func (e *LoggingSearchEngine) Search(ctx context.Context, query string) (results []twob.SearchResult, err error) {
	defer func(begin time.Time) {
		e.logger.Info("search",
			"engine", e.next.Name(),
			"query", query,
			"count", len(results),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Search(ctx, query)
}

package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/nekyl/twob"
)

// Ensure LoggingCompleter implements twob.Completer.
var _ twob.Completer = (*LoggingCompleter)(nil)

// LoggingCompleter wraps a Completer with debug logging. Message and reply
// contents are not logged, only their sizes.
type LoggingCompleter struct {
	next   twob.Completer
	logger *slog.Logger
}

// NewLoggingCompleter creates a new LoggingCompleter.
func NewLoggingCompleter(next twob.Completer, logger *slog.Logger) *LoggingCompleter {
	return &LoggingCompleter{next: next, logger: logger}
}

// Complete delegates to the wrapped completer and logs the operation.
func (c *LoggingCompleter) Complete(ctx context.Context, req twob.CompletionRequest) (reply string, err error) {
	defer func(begin time.Time) {
		c.logger.Info("completion",
			"message_bytes", len(req.Message),
			"reply_bytes", len(reply),
			"with_history", req.IncludeHistory,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Complete(ctx, req)
}

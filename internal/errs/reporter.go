package errs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/edgard/jokebot/internal/metrics"
)

// Reporter receives failures that are contained rather than propagated,
// such as a failed auto-post tick.
type Reporter interface {
	Report(ctx context.Context, err error, attrs ...any)
}

// Notifier forwards a short plain-text notice, usually to the admin chat.
type Notifier interface {
	NotifyAdmin(ctx context.Context, text string) error
}

// LogReporter logs every reported error with its code and counts it.
// When a Notifier is set, it also forwards a one-line notice.
type LogReporter struct {
	logger   *slog.Logger
	notifier Notifier
}

// NewLogReporter creates a reporter. notifier may be nil.
func NewLogReporter(logger *slog.Logger, notifier Notifier) *LogReporter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &LogReporter{
		logger:   logger.With("component", "error_reporter"),
		notifier: notifier,
	}
}

// Report logs err with attrs. Nil errors are ignored.
func (r *LogReporter) Report(ctx context.Context, err error, attrs ...any) {
	if err == nil {
		return
	}
	code := Code(err)
	metrics.Errors.WithLabelValues(code).Inc()

	args := append([]any{"error", err, "code", code}, attrs...)
	r.logger.ErrorContext(ctx, "Reported error", args...)

	if r.notifier == nil {
		return
	}
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	text := fmt.Sprintf("[%s] %v", code, err)
	if nErr := r.notifier.NotifyAdmin(notifyCtx, text); nErr != nil {
		r.logger.WarnContext(ctx, "Failed to forward error notice to admin", "error", nErr)
	}
}

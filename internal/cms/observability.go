package cms

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// CallEvent records metadata about a single CMS call.
type CallEvent struct {
	Method    string
	Path      string
	Status    int
	Latency   time.Duration
	RequestID string
	Success   bool
	ErrorCode string
}

// Observer receives events about CMS calls for logging.
type Observer interface {
	OnCallComplete(ctx context.Context, event CallEvent)
}

type logObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates an Observer that logs events to w.
func NewLogObserver(w io.Writer) Observer {
	if w == nil {
		return NoopObserver{}
	}
	return &logObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (o *logObserver) OnCallComplete(ctx context.Context, event CallEvent) {
	attrs := []any{
		"method", event.Method,
		"path", event.Path,
		"status", event.Status,
		"latency_ms", event.Latency.Milliseconds(),
		"request_id", event.RequestID,
	}
	if !event.Success {
		attrs = append(attrs, "error_code", event.ErrorCode)
		o.logger.WarnContext(ctx, "cms_call", attrs...)
		return
	}
	o.logger.InfoContext(ctx, "cms_call", attrs...)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(context.Context, CallEvent) {}

package viz

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// ActionEvent captures lightweight telemetry for one user action.
type ActionEvent struct {
	Name      string
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
	StartedAt time.Time
}

// ActionObserver receives action events.
type ActionObserver interface {
	ObserveAction(ctx context.Context, event ActionEvent)
}

// NoopActionObserver ignores all events.
type NoopActionObserver struct{}

func (NoopActionObserver) ObserveAction(context.Context, ActionEvent) {}

type logActionObserver struct {
	logger *slog.Logger
}

// NewLogActionObserver writes action events to the provided writer.
func NewLogActionObserver(w io.Writer, level slog.Level) ActionObserver {
	if w == nil {
		return NoopActionObserver{}
	}
	return &logActionObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})),
	}
}

func (o *logActionObserver) ObserveAction(ctx context.Context, event ActionEvent) {
	attrs := make([]any, 0, 8+len(event.Fields)*2)
	attrs = append(attrs,
		"action", event.Name,
		"duration_ms", event.Duration.Milliseconds(),
		"success", event.Success,
	)
	for k, v := range event.Fields {
		attrs = append(attrs, k, v)
	}
	if event.Err != nil {
		attrs = append(attrs, "error", event.Err.Error())
		o.logger.ErrorContext(ctx, "viz_action", attrs...)
		return
	}
	o.logger.InfoContext(ctx, "viz_action", attrs...)
}

// observe reports an action that started at start and finished with err.
func (v *Visualizer) observe(ctx context.Context, name string, start time.Time, err error, fields map[string]any) {
	v.observer.ObserveAction(ctx, ActionEvent{
		Name:      name,
		Duration:  time.Since(start),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
		StartedAt: start,
	})
}

// Package logobs reports flow events to a structured slog logger.
package logobs

import (
	"context"
	"log/slog"

	"github.com/ib-77/ropchain/pkg/rop"
	"github.com/ib-77/ropchain/pkg/rop/flow"
)

// Observer implements flow.Observer on top of *slog.Logger.
type Observer struct {
	logger       *slog.Logger
	successLevel slog.Level
	failureLevel slog.Level
}

type Option func(*Observer)

// WithSuccessLevel sets the level of success events (default Debug).
func WithSuccessLevel(level slog.Level) Option {
	return func(o *Observer) {
		o.successLevel = level
	}
}

// WithFailureLevel sets the level of failure events (default Error).
func WithFailureLevel(level slog.Level) Option {
	return func(o *Observer) {
		o.failureLevel = level
	}
}

// New creates an observer writing to logger, or to slog.Default when nil.
func New(logger *slog.Logger, opts ...Option) *Observer {
	if logger == nil {
		logger = slog.Default()
	}
	o := &Observer{
		logger:       logger,
		successLevel: slog.LevelDebug,
		failureLevel: slog.LevelError,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Observer) Observe(ctx context.Context, e flow.Event) {
	level := o.level(e.Outcome)
	if !o.logger.Enabled(ctx, level) {
		return
	}

	attrs := []slog.Attr{
		slog.String("run", e.RunID.String()),
		slog.String("node", e.Node),
		slog.String("kind", string(e.Kind)),
		slog.String("outcome", string(e.Outcome)),
		slog.Duration("duration", e.Duration),
	}
	if e.Parent != "" {
		attrs = append(attrs, slog.String("parent", e.Parent), slog.Int("stage", e.Stage))
	}
	if e.Branch != "" {
		attrs = append(attrs, slog.String("branch", e.Branch))
	}
	if e.Kind == flow.KindLoop {
		attrs = append(attrs, slog.Int("iterations", e.Iterations))
	}
	if e.Err != nil {
		attrs = append(attrs, slog.Any("err", e.Err))
		if causes := rop.GetErrors(e.Err); len(causes) > 1 {
			attrs = append(attrs, slog.Int("causes", len(causes)))
		}
	}

	o.logger.LogAttrs(ctx, level, "node finished", attrs...)
}

func (o *Observer) level(outcome flow.Outcome) slog.Level {
	switch outcome {
	case flow.OutcomeFailure:
		return o.failureLevel
	case flow.OutcomeExhausted:
		return slog.LevelWarn
	case flow.OutcomeCancel:
		return slog.LevelInfo
	default:
		return o.successLevel
	}
}

// Package promobs records flow events as Prometheus metrics.
package promobs

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ib-77/ropchain/pkg/rop/flow"
)

// Observer implements flow.Observer with a counter of node executions, a
// duration histogram and a loop iteration histogram.
type Observer struct {
	executions *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	iterations *prometheus.HistogramVec
}

type config struct {
	namespace string
	buckets   []float64
}

type Option func(*config)

// WithNamespace prefixes metric names (default "ropchain").
func WithNamespace(ns string) Option {
	return func(c *config) {
		c.namespace = ns
	}
}

// WithBuckets overrides the duration histogram buckets, in seconds.
func WithBuckets(buckets []float64) Option {
	return func(c *config) {
		c.buckets = buckets
	}
}

// New creates the collectors and registers them with reg. Collectors that
// are already registered with identical descriptors are reused, so several
// observers may share one registry.
func New(reg prometheus.Registerer, opts ...Option) (*Observer, error) {
	cfg := config{namespace: "ropchain", buckets: prometheus.DefBuckets}
	for _, opt := range opts {
		opt(&cfg)
	}

	o := &Observer{
		executions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "node_executions_total",
			Help:      "Number of finished node executions by outcome.",
		}, []string{"node", "kind", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.namespace,
			Name:      "node_duration_seconds",
			Help:      "Duration of node executions.",
			Buckets:   cfg.buckets,
		}, []string{"node", "kind"}),
		iterations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.namespace,
			Name:      "loop_iterations",
			Help:      "Loop bodies completed per loop execution.",
			Buckets:   prometheus.LinearBuckets(1, 2, 8),
		}, []string{"node"}),
	}

	var err error
	if o.executions, err = register(reg, o.executions); err != nil {
		return nil, err
	}
	if o.duration, err = register(reg, o.duration); err != nil {
		return nil, err
	}
	if o.iterations, err = register(reg, o.iterations); err != nil {
		return nil, err
	}
	return o, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (o *Observer) Observe(_ context.Context, e flow.Event) {
	o.executions.WithLabelValues(e.Node, string(e.Kind), string(e.Outcome)).Inc()
	o.duration.WithLabelValues(e.Node, string(e.Kind)).Observe(e.Duration.Seconds())
	if e.Kind == flow.KindLoop && e.Outcome != flow.OutcomeFailure && e.Outcome != flow.OutcomeCancel {
		o.iterations.WithLabelValues(e.Node).Observe(float64(e.Iterations))
	}
}

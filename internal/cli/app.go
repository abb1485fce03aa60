// Package cli holds the pipelines behind the ropchain commands and the
// runtime wiring they share.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/ib-77/ropchain/internal/config"
	"github.com/ib-77/ropchain/pkg/rop/core"
	"github.com/ib-77/ropchain/pkg/rop/flow"
	"github.com/ib-77/ropchain/pkg/rop/observe/logobs"
	"github.com/ib-77/ropchain/pkg/rop/observe/promobs"
)

// App is the configured runtime of one CLI invocation.
type App struct {
	Config   config.Config
	Logger   *slog.Logger
	Registry *prometheus.Registry

	observer flow.Observer
}

func NewApp(cfg config.Config, logger *slog.Logger) (*App, error) {
	app := &App{Config: cfg, Logger: logger}

	observers := []flow.Observer{logobs.New(logger)}
	if cfg.Metrics {
		app.Registry = prometheus.NewRegistry()
		metrics, err := promobs.New(app.Registry)
		if err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
		observers = append(observers, metrics)
	}
	app.observer = flow.Observers(observers...)
	return app, nil
}

// Context attaches the app's observers and worker cap to ctx.
func (a *App) Context(ctx context.Context) context.Context {
	ctx = flow.WithObserver(ctx, a.observer)
	if a.Config.MaxWorkers > 0 {
		ctx = core.WithWorkerOptions(ctx, a.Config.MaxWorkers)
	}
	return ctx
}

// DumpMetrics writes the collected metrics in the Prometheus text format.
// It does nothing when metrics are off.
func (a *App) DumpMetrics(w io.Writer) error {
	if a.Registry == nil {
		return nil
	}
	families, err := a.Registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

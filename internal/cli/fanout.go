package cli

import (
	"context"
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ib-77/ropchain/pkg/rop/flow"
)

var ErrNotUpper = errors.New("text contains lowercase letters")

type Metric struct {
	Name  string
	Value int
}

// FanoutReport holds the metrics whose probes succeeded, in probe order.
type FanoutReport struct {
	Metrics []Metric
	Probes  int
}

func probe(name string, fn func(string) (int, error)) flow.Node[string, Metric] {
	return flow.Func(name, func(_ context.Context, text string) (Metric, error) {
		n, err := fn(text)
		if err != nil {
			return Metric{}, err
		}
		return Metric{Name: name, Value: n}, nil
	})
}

// Fanout measures text with independent probes in parallel and reports the
// ones that succeeded.
func Fanout(maxWorkers int) flow.Node[string, FanoutReport] {
	probes := []flow.Node[string, Metric]{
		probe("words", func(s string) (int, error) { return len(strings.Fields(s)), nil }),
		probe("chars", func(s string) (int, error) { return utf8.RuneCountInString(s), nil }),
		probe("lines", func(s string) (int, error) {
			if s == "" {
				return 0, nil
			}
			return strings.Count(strings.TrimRight(s, "\n"), "\n") + 1, nil
		}),
		probe("upper", func(s string) (int, error) {
			n := 0
			for _, r := range s {
				if unicode.IsLower(r) {
					return 0, ErrNotUpper
				}
				if unicode.IsUpper(r) {
					n++
				}
			}
			return n, nil
		}),
	}

	var opts []flow.ParallelOption
	if maxWorkers > 0 {
		opts = append(opts, flow.WithMaxWorkers(maxWorkers))
	}
	report := flow.Map("fanout.report", func(metrics []Metric) FanoutReport {
		return FanoutReport{Metrics: metrics, Probes: len(probes)}
	})

	return flow.FanIn[string, Metric, FanoutReport]("fanout",
		flow.Parallel("fanout.probes", probes, opts...), report, flow.SuccessfulOnly())
}

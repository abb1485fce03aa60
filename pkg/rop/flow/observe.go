package flow

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ib-77/ropchain/pkg/rop"
)

// Outcome is the kind of result a node finished with.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
	OutcomeCancel  Outcome = "cancel"
	// OutcomeExhausted marks a loop that stopped at its iteration ceiling.
	OutcomeExhausted Outcome = "exhausted"
)

// Event describes one finished node call.
type Event struct {
	// RunID is shared by every event of one top-level Execute call.
	RunID    uuid.UUID
	ResultID uuid.UUID
	Node     string
	Kind     Kind
	// Parent and Stage locate the node inside its enclosing chain. Stage is
	// the serial stage, parallel slot or loop iteration, -1 when the parent
	// has no positions or there is no parent.
	Parent     string
	Stage      int
	Branch     string
	Iterations int
	Duration   time.Duration
	Outcome    Outcome
	Err        error
}

// Observer receives diagnostic events. Observers run synchronously on the
// executing goroutine and must be safe for concurrent use; parallel children
// report from their own lines.
type Observer interface {
	Observe(ctx context.Context, e Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, e Event)

func (f ObserverFunc) Observe(ctx context.Context, e Event) {
	f(ctx, e)
}

type multiObserver []Observer

func (m multiObserver) Observe(ctx context.Context, e Event) {
	for _, o := range m {
		notify(ctx, o, e)
	}
}

// Observers fans events out to every non-nil observer in order.
func Observers(observers ...Observer) Observer {
	m := make(multiObserver, 0, len(observers))
	for _, o := range observers {
		if !rop.IsNil(o) {
			m = append(m, o)
		}
	}
	return m
}

type observerKey struct{}
type runKey struct{}
type positionKey struct{}

type position struct {
	parent string
	stage  int
}

// WithObserver attaches o to ctx; every node executed under the returned
// context reports to it.
func WithObserver(ctx context.Context, o Observer) context.Context {
	return context.WithValue(ctx, observerKey{}, o)
}

func observerFrom(ctx context.Context) Observer {
	o, _ := ctx.Value(observerKey{}).(Observer)
	return o
}

// RunID returns the id of the run ctx belongs to, if a node has started one.
func RunID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(runKey{}).(uuid.UUID)
	return id, ok
}

// begin stamps the start of a node call and, when someone is listening,
// makes sure the call belongs to a run.
func begin(ctx context.Context) (context.Context, time.Time) {
	if observerFrom(ctx) != nil {
		if _, ok := RunID(ctx); !ok {
			ctx = context.WithValue(ctx, runKey{}, uuid.New())
		}
	}
	return ctx, time.Now()
}

// atStage positions a child call inside parent.
func atStage(ctx context.Context, parent string, stage int) context.Context {
	if observerFrom(ctx) == nil {
		return ctx
	}
	return context.WithValue(ctx, positionKey{}, position{parent: parent, stage: stage})
}

func finish[T any](ctx context.Context, start time.Time, e Event, res rop.Result[T]) rop.Result[T] {
	o := observerFrom(ctx)
	if o == nil {
		return res
	}

	e.RunID, _ = RunID(ctx)
	e.ResultID = res.Id()
	e.Duration = time.Since(start)
	e.Stage = -1
	if p, ok := ctx.Value(positionKey{}).(position); ok {
		e.Parent, e.Stage = p.parent, p.stage
	}
	if e.Outcome == "" {
		e.Outcome = outcomeOf(res)
	}
	e.Err = res.Err()

	notify(ctx, o, e)
	return res
}

func outcomeOf[T any](res rop.Result[T]) Outcome {
	switch {
	case res.IsSuccess():
		return OutcomeSuccess
	case res.IsCancel():
		return OutcomeCancel
	default:
		return OutcomeFailure
	}
}

// notify shields execution from a misbehaving observer.
func notify(ctx context.Context, o Observer, e Event) {
	defer func() { _ = recover() }()
	o.Observe(ctx, e)
}

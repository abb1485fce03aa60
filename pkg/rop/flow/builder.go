package flow

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/ib-77/ropchain/pkg/rop"
)

// The constructors below are the only way to build chains. Each call
// returns an independent node whose structure never changes afterwards, so
// one chain may be executed by many goroutines at once. Wiring mistakes
// (nil nodes, missing functions, empty compositions, a non-positive loop
// ceiling) panic with the chain name, as they can only be fixed in code.

// Func wraps a fallible transformation as a leaf node.
func Func[In, Out any](name string, fn func(ctx context.Context, in In) (Out, error)) *FunctionNode[In, Out] {
	name = nameOr(name, KindFunction)
	if fn == nil {
		panic(fmt.Sprintf("flow: function %q: nil function", name))
	}
	return &FunctionNode[In, Out]{name: name, fn: fn}
}

// Map wraps a transformation that cannot fail as a leaf node.
func Map[In, Out any](name string, fn func(in In) Out) *FunctionNode[In, Out] {
	if fn == nil {
		panic(fmt.Sprintf("flow: function %q: nil function", nameOr(name, KindFunction)))
	}
	return Func(name, func(_ context.Context, in In) (Out, error) {
		return fn(in), nil
	})
}

// Serial chains stages so that Serial(a, b).Execute(x) is
// b.Execute(a.Execute(x)) whenever a succeeds.
func Serial[V any](name string, stages ...Node[V, V]) *SerialChain[V] {
	name = nameOr(name, KindSerial)
	if len(stages) == 0 {
		panic(fmt.Sprintf("flow: serial %q: no stages", name))
	}
	mustNodes(name, stages)
	return &SerialChain[V]{name: name, stages: slices.Clone(stages)}
}

// Pipe composes two nodes of different types.
func Pipe[A, B, C any](name string, first Node[A, B], second Node[B, C]) *PipeChain[A, B, C] {
	name = nameOr(name, KindPipe)
	if rop.IsNil(first) || rop.IsNil(second) {
		panic(fmt.Sprintf("flow: pipe %q: nil stage", name))
	}
	return &PipeChain[A, B, C]{name: name, first: first, second: second}
}

// ParallelOption configures a ParallelChain.
type ParallelOption func(*parallelConfig)

type parallelConfig struct {
	maxWorkers int
}

// WithMaxWorkers caps the worker pool of a parallel chain. Without it the
// cap is taken from core.WithWorkerOptions on the execution context.
func WithMaxWorkers(n int) ParallelOption {
	return func(c *parallelConfig) {
		c.maxWorkers = n
	}
}

// Parallel runs children concurrently on the same input.
func Parallel[In, Out any](name string, children []Node[In, Out], opts ...ParallelOption) *ParallelChain[In, Out] {
	name = nameOr(name, KindParallel)
	if len(children) == 0 {
		panic(fmt.Sprintf("flow: parallel %q: no children", name))
	}
	mustNodes(name, children)

	cfg := parallelConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &ParallelChain[In, Out]{name: name, children: slices.Clone(children), maxWorkers: cfg.maxWorkers}
}

// Conditional routes the input to branches[discriminator(in)].
func Conditional[K comparable, In, Out any](name string, discriminator func(in In) K,
	branches map[K]Node[In, Out]) *ConditionalChain[K, In, Out] {

	name = nameOr(name, KindConditional)
	if discriminator == nil {
		panic(fmt.Sprintf("flow: conditional %q: nil discriminator", name))
	}
	for key, branch := range branches {
		if rop.IsNil(branch) {
			panic(fmt.Sprintf("flow: conditional %q: nil branch for key %v", name, key))
		}
	}
	return &ConditionalChain[K, In, Out]{name: name, discriminator: discriminator, branches: maps.Clone(branches)}
}

// Loop repeats body while shouldContinue holds, at most maxIterations times.
func Loop[V any](name string, body Node[V, V], shouldContinue func(value V, iteration int) bool,
	maxIterations int) *LoopChain[V] {

	name = nameOr(name, KindLoop)
	if rop.IsNil(body) {
		panic(fmt.Sprintf("flow: loop %q: nil body", name))
	}
	if shouldContinue == nil {
		panic(fmt.Sprintf("flow: loop %q: nil continuation predicate", name))
	}
	if maxIterations < 1 {
		panic(fmt.Sprintf("flow: loop %q: max iterations must be positive, got %d", name, maxIterations))
	}
	return &LoopChain[V]{name: name, body: body, shouldContinue: shouldContinue, maxIterations: maxIterations}
}

// Merge combines a list of upstream outcomes into one call of downstream.
func Merge[In, Out any](name string, downstream Node[[]In, Out], opts ...MergeOption) *MergeChain[In, Out] {
	name = nameOr(name, KindMerge)
	if rop.IsNil(downstream) {
		panic(fmt.Sprintf("flow: merge %q: nil downstream", name))
	}

	cfg := mergeConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &MergeChain[In, Out]{name: name, downstream: downstream, successfulOnly: cfg.successfulOnly}
}

// FanIn pipes a multi-valued upstream, typically a ParallelChain, into a
// merge of downstream.
func FanIn[X, In, Out any](name string, upstream Node[X, []rop.Result[In]], downstream Node[[]In, Out],
	opts ...MergeOption) *PipeChain[X, []rop.Result[In], Out] {

	name = nameOr(name, KindMerge)
	return Pipe[X, []rop.Result[In], Out](name, upstream, Merge(name+".merge", downstream, opts...))
}

// Gather runs upstreams in parallel on the same input and merges their
// values into downstream.
func Gather[X, In, Out any](name string, downstream Node[[]In, Out], upstreams []Node[X, In],
	opts ...MergeOption) *PipeChain[X, []rop.Result[In], Out] {

	name = nameOr(name, KindMerge)
	return FanIn[X, In, Out](name, Parallel(name+".parallel", upstreams), downstream, opts...)
}

// Timeout bounds how long callers wait for node.
func Timeout[In, Out any](name string, node Node[In, Out], after time.Duration) *TimeoutNode[In, Out] {
	name = nameOr(name, KindTimeout)
	if rop.IsNil(node) {
		panic(fmt.Sprintf("flow: timeout %q: nil node", name))
	}
	if after <= 0 {
		panic(fmt.Sprintf("flow: timeout %q: duration must be positive, got %s", name, after))
	}
	return &TimeoutNode[In, Out]{name: name, node: node, after: after}
}

func mustNodes[In, Out any](name string, nodes []Node[In, Out]) {
	for i, n := range nodes {
		if rop.IsNil(n) {
			panic(fmt.Sprintf("flow: %q: nil node at position %d", name, i))
		}
	}
}

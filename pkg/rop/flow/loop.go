package flow

import (
	"context"

	"github.com/ib-77/ropchain/pkg/rop"
	"github.com/ib-77/ropchain/pkg/rop/solo"
)

// Iteration is the terminal state of a loop: the last value, how many bodies
// ran, and whether the loop stopped because it hit its ceiling while the
// predicate still asked for more.
type Iteration[V any] struct {
	Value      V
	Iterations int
	Exhausted  bool
}

// LoopChain applies its body while shouldContinue(value, iteration) holds,
// at most maxIterations times. Hitting the ceiling is a normal stop; a body
// failure stops the loop with a *StageError.
//
// The (final value, iterations performed) pair of a loop run comes from
// Iterate. Execute keeps only the value so a loop can stand wherever a
// Node[V, V] is expected.
type LoopChain[V any] struct {
	name           string
	body           Node[V, V]
	shouldContinue func(value V, iteration int) bool
	maxIterations  int
}

func (l *LoopChain[V]) Name() string {
	return l.name
}

// MaxIterations returns the iteration ceiling.
func (l *LoopChain[V]) MaxIterations() int {
	return l.maxIterations
}

// Execute runs the loop and keeps only the final value, so loops compose
// like any other Node[V, V]. Use Iterate for the iteration count.
func (l *LoopChain[V]) Execute(ctx context.Context, in V) rop.Result[V] {
	return solo.Map(ctx, l.Iterate(ctx, in), func(_ context.Context, it Iteration[V]) V {
		return it.Value
	})
}

// Iterate runs the loop and returns the final value with the number of
// completed bodies.
func (l *LoopChain[V]) Iterate(ctx context.Context, in V) rop.Result[Iteration[V]] {
	ctx, start := begin(ctx)

	res := l.iterate(ctx, in)

	e := Event{Node: l.name, Kind: KindLoop}
	if res.IsSuccess() {
		e.Iterations = res.Result().Iterations
		if res.Result().Exhausted {
			e.Outcome = OutcomeExhausted
		}
	} else if se, ok := res.Err().(*StageError); ok {
		e.Iterations = se.Iterations
	}
	return finish(ctx, start, e, res)
}

func (l *LoopChain[V]) iterate(ctx context.Context, value V) rop.Result[Iteration[V]] {
	for iteration := 0; ; iteration++ {
		more, err := guard(func() bool { return l.shouldContinue(value, iteration) })
		if err != nil {
			return rop.Fail[Iteration[V]](l.stageError(iteration, &LeafError{Node: l.name, Cause: err}))
		}
		if !more {
			return rop.Success(Iteration[V]{Value: value, Iterations: iteration})
		}
		if iteration >= l.maxIterations {
			return rop.Success(Iteration[V]{Value: value, Iterations: iteration, Exhausted: true})
		}
		if err := ctx.Err(); err != nil {
			return rop.Cancel[Iteration[V]](l.stageError(iteration, err))
		}

		out := l.body.Execute(atStage(ctx, l.name, iteration), value)
		if !out.IsSuccess() {
			return solo.MapErr(rop.FailFrom[V, Iteration[V]](out), func(err error) error {
				return l.stageError(iteration, err)
			})
		}
		value = out.Result()
	}
}

func (l *LoopChain[V]) stageError(iteration int, err error) *StageError {
	return &StageError{
		Chain:      l.name,
		Kind:       KindLoop,
		Stage:      iteration,
		Node:       l.body.Name(),
		Iterations: iteration,
		Cause:      err,
	}
}

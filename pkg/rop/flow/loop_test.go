package flow

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newtonStep(target float64) Node[float64, float64] {
	return Map("newton-step", func(guess float64) float64 {
		return (guess + target/guess) / 2
	})
}

func TestLoop_NewtonConverges(t *testing.T) {
	t.Parallel()

	const target = 9.0
	loop := Loop("sqrt", newtonStep(target), func(guess float64, _ int) bool {
		return math.Abs(guess*guess-target) >= 0.001
	}, 10)

	res := loop.Iterate(context.Background(), 5.0)
	require.True(t, res.IsSuccess(), "unexpected error: %v", res.Err())

	it := res.Result()
	assert.LessOrEqual(t, it.Iterations, 10)
	assert.Greater(t, it.Iterations, 0)
	assert.False(t, it.Exhausted)
	assert.InDelta(t, 3.0, it.Value, 0.001)
}

func TestLoop_StopsAtCeilingWithoutError(t *testing.T) {
	t.Parallel()

	calls := 0
	body := Map("count", func(n int) int { calls++; return n + 1 })
	loop := Loop("forever", body, func(int, int) bool { return true }, 4)

	res := loop.Iterate(context.Background(), 0)
	require.True(t, res.IsSuccess())

	it := res.Result()
	assert.Equal(t, 4, it.Iterations)
	assert.Equal(t, 4, it.Value)
	assert.True(t, it.Exhausted)
	assert.Equal(t, 4, calls)
}

func TestLoop_PredicateFalseUpFront(t *testing.T) {
	t.Parallel()

	loop := Loop("noop", Map("boom", func(n int) int { panic("must not run") }),
		func(int, int) bool { return false }, 3)

	res := loop.Iterate(context.Background(), 11)
	require.True(t, res.IsSuccess())
	assert.Equal(t, Iteration[int]{Value: 11}, res.Result())
}

func TestLoop_PredicateSeesIterationIndex(t *testing.T) {
	t.Parallel()

	var seen []int
	loop := Loop("indexes", Map("id", func(n int) int { return n }), func(_ int, i int) bool {
		seen = append(seen, i)
		return i < 2
	}, 10)

	res := loop.Iterate(context.Background(), 0)
	require.True(t, res.IsSuccess())
	assert.Equal(t, 2, res.Result().Iterations)
	assert.Equal(t, []int{0, 1, 2}, seen)
}

func TestLoop_BodyFailureCarriesIterations(t *testing.T) {
	t.Parallel()

	cause := errors.New("diverged")
	body := Func("step", func(_ context.Context, n int) (int, error) {
		if n == 3 {
			return 0, cause
		}
		return n + 1, nil
	})
	loop := Loop("retry", body, func(int, int) bool { return true }, 10)

	res := loop.Iterate(context.Background(), 0)
	require.True(t, res.IsFailure())

	var stage *StageError
	require.ErrorAs(t, res.Err(), &stage)
	assert.Equal(t, KindLoop, stage.Kind)
	assert.Equal(t, "retry", stage.Chain)
	assert.Equal(t, "step", stage.Node)
	assert.Equal(t, 3, stage.Iterations)
	assert.Equal(t, 3, stage.Stage)
	assert.ErrorIs(t, res.Err(), cause)

	exec := loop.Execute(context.Background(), 0)
	assert.True(t, exec.IsFailure())
	assert.ErrorIs(t, exec.Err(), cause)
}

func TestLoop_ExecuteComposesAsNode(t *testing.T) {
	t.Parallel()

	doubleUntil := Loop("double", Map("x2", func(n int) int { return n * 2 }),
		func(n int, _ int) bool { return n < 100 }, 20)
	chain := Serial[int]("then-negate", doubleUntil, Map("neg", func(n int) int { return -n }))

	res := chain.Execute(context.Background(), 3)
	require.True(t, res.IsSuccess())
	assert.Equal(t, -192, res.Result())
}

func TestLoop_NestedLoops(t *testing.T) {
	t.Parallel()

	// inner: add 1 until a multiple of 5, outer: repeat inner then +1 until >= 20
	inner := Loop("inner", Map("+1", func(n int) int { return n + 1 }),
		func(n int, _ int) bool { return n%5 != 0 }, 5)
	step := Serial[int]("outer-body", Map("bump", func(n int) int { return n + 1 }), inner)
	outer := Loop("outer", step, func(n int, _ int) bool { return n < 20 }, 10)

	res := outer.Iterate(context.Background(), 0)
	require.True(t, res.IsSuccess())
	assert.Equal(t, 20, res.Result().Value)
	assert.Equal(t, 4, res.Result().Iterations)
}

func TestLoop_CancelledStopsBeforeBody(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	body := Map("cancel-after-2", func(n int) int {
		if n == 1 {
			cancel()
		}
		return n + 1
	})
	loop := Loop("cancellable", body, func(int, int) bool { return true }, 10)

	res := loop.Iterate(ctx, 0)
	assert.True(t, res.IsCancel())

	var stage *StageError
	require.ErrorAs(t, res.Err(), &stage)
	assert.Equal(t, 2, stage.Iterations)
}

func TestLoop_BuildValidation(t *testing.T) {
	t.Parallel()

	body := Map("id", func(n int) int { return n })
	always := func(int, int) bool { return true }

	assert.Panics(t, func() { Loop("zero", body, always, 0) })
	assert.Panics(t, func() { Loop[int]("nil-body", nil, always, 1) })
	assert.Panics(t, func() { Loop("nil-predicate", body, nil, 1) })
	assert.Equal(t, 1, Loop("ok", body, always, 1).MaxIterations())
}

func TestLoop_ExecuteMatchesIterateValue(t *testing.T) {
	t.Parallel()

	loop := Loop("triple", Map("x3", func(n int) int { return n * 3 }),
		func(n int, _ int) bool { return n < 100 }, 10)

	it, err := loop.Iterate(context.Background(), 1).Get()
	require.NoError(t, err)
	v, err := loop.Execute(context.Background(), 1).Get()
	require.NoError(t, err)

	assert.Equal(t, 243, it.Value)
	assert.Equal(t, 5, it.Iterations)
	assert.Equal(t, it.Value, v)
}

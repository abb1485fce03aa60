package cli

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/ib-77/ropchain/pkg/rop/flow"
)

var ErrNegativeTarget = errors.New("no real square root of a negative number")

type NewtonReport struct {
	Value      float64
	Iterations int
	Exhausted  bool
}

// NewtonSqrt builds a loop that refines a guess of sqrt(target) until
// |x*x - target| <= tolerance or maxIterations steps ran.
func NewtonSqrt(target, tolerance float64, maxIterations int) *flow.LoopChain[float64] {
	step := flow.Func("newton.step", func(_ context.Context, x float64) (float64, error) {
		if x == 0 {
			return 0, errors.New("guess reached zero")
		}
		return (x + target/x) / 2, nil
	})
	return flow.Loop("newton", step, func(x float64, _ int) bool {
		return math.Abs(x*x-target) > tolerance
	}, maxIterations)
}

func RunNewton(ctx context.Context, target, guess, tolerance float64, maxIterations int) (NewtonReport, error) {
	if target < 0 {
		return NewtonReport{}, fmt.Errorf("%w: %g", ErrNegativeTarget, target)
	}
	it, err := NewtonSqrt(target, tolerance, maxIterations).Iterate(ctx, guess).Get()
	if err != nil {
		return NewtonReport{}, err
	}
	return NewtonReport{Value: it.Value, Iterations: it.Iterations, Exhausted: it.Exhausted}, nil
}

package flow

import (
	"context"

	"github.com/ib-77/ropchain/pkg/rop"
	"github.com/ib-77/ropchain/pkg/rop/solo"
)

// FunctionNode adapts a caller-supplied transformation into a Node. Errors
// and panics of the transformation become a *LeafError naming the node.
type FunctionNode[In, Out any] struct {
	name string
	fn   func(ctx context.Context, in In) (Out, error)
}

func (f *FunctionNode[In, Out]) Name() string {
	return f.name
}

func (f *FunctionNode[In, Out]) Execute(ctx context.Context, in In) rop.Result[Out] {
	ctx, start := begin(ctx)

	var res rop.Result[Out]
	if err := ctx.Err(); err != nil {
		res = rop.Cancel[Out](&LeafError{Node: f.name, Cause: err})
	} else {
		res = solo.MapErr(
			solo.Recover(func() rop.Result[Out] {
				return solo.Try(ctx, rop.Success(in), f.fn)
			}),
			func(err error) error { return &LeafError{Node: f.name, Cause: err} })

		if res.IsFailure() && ctx.Err() != nil && rop.IsCancellationError(res.Err()) {
			res = rop.Cancel[Out](res.Err())
		}
	}

	return finish(ctx, start, Event{Node: f.name, Kind: KindFunction}, res)
}

// guard calls f, turning a panic into an error.
func guard[T any](f func() T) (v T, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &solo.PanicError{Value: p}
		}
	}()
	return f(), nil
}

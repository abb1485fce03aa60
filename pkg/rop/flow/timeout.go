package flow

import (
	"context"
	"time"

	"github.com/ib-77/ropchain/pkg/rop"
	"github.com/ib-77/ropchain/pkg/rop/solo"
)

// TimeoutNode bounds the time its caller waits for the wrapped node. The
// wrapped node sees a context with the deadline; if it ignores it, its
// goroutine keeps running until it returns and its result is dropped.
type TimeoutNode[In, Out any] struct {
	name  string
	node  Node[In, Out]
	after time.Duration
}

func (t *TimeoutNode[In, Out]) Name() string {
	return t.name
}

func (t *TimeoutNode[In, Out]) Execute(ctx context.Context, in In) rop.Result[Out] {
	ctx, start := begin(ctx)
	res := t.run(ctx, in)
	return finish(ctx, start, Event{Node: t.name, Kind: KindTimeout}, res)
}

func (t *TimeoutNode[In, Out]) run(ctx context.Context, in In) rop.Result[Out] {
	if err := ctx.Err(); err != nil {
		return rop.Cancel[Out](err)
	}

	bounded, cancel := context.WithTimeout(ctx, t.after)
	defer cancel()

	done := make(chan rop.Result[Out], 1)
	go func() {
		done <- solo.MapErr(
			solo.Recover(func() rop.Result[Out] { return t.node.Execute(atStage(bounded, t.name, -1), in) }),
			func(err error) error {
				if _, ok := err.(*solo.PanicError); ok {
					return &LeafError{Node: t.node.Name(), Cause: err}
				}
				return err
			})
	}()

	select {
	case res := <-done:
		if !res.IsSuccess() && ctx.Err() == nil && bounded.Err() != nil {
			return rop.Fail[Out](&TimeoutError{Node: t.node.Name(), After: t.after})
		}
		return res
	case <-bounded.Done():
		if err := ctx.Err(); err != nil {
			return rop.Cancel[Out](err)
		}
		return rop.Fail[Out](&TimeoutError{Node: t.node.Name(), After: t.after})
	}
}

package flow

import (
	"context"

	"github.com/ib-77/ropchain/pkg/rop"
	"github.com/ib-77/ropchain/pkg/rop/core"
	"github.com/ib-77/ropchain/pkg/rop/solo"
)

// ParallelChain hands the same input to every child concurrently and
// collects one outcome per child, in declaration order. A failing child
// never affects its siblings: the chain itself succeeds and callers inspect
// the slots.
type ParallelChain[In, Out any] struct {
	name       string
	children   []Node[In, Out]
	maxWorkers int
}

func (p *ParallelChain[In, Out]) Name() string {
	return p.name
}

// Len returns the number of children, which is also the length of every
// successful result.
func (p *ParallelChain[In, Out]) Len() int {
	return len(p.children)
}

// workers is min(children, cap). The cap comes from WithMaxWorkers, then
// from core.WithWorkerOptions on ctx.
func (p *ParallelChain[In, Out]) workers(ctx context.Context) int {
	limit := p.maxWorkers
	if limit <= 0 {
		limit = core.GetWorkerMaxCount(ctx, len(p.children))
	}
	return min(limit, len(p.children))
}

func (p *ParallelChain[In, Out]) Execute(ctx context.Context, in In) rop.Result[[]rop.Result[Out]] {
	ctx, start := begin(ctx)

	var res rop.Result[[]rop.Result[Out]]
	if err := ctx.Err(); err != nil {
		res = rop.Cancel[[]rop.Result[Out]](err)
		return finish(ctx, start, Event{Node: p.name, Kind: KindParallel}, res)
	}

	slots := make([]rop.Result[Out], len(p.children))
	core.Lines(len(p.children), p.workers(ctx), func(i int) {
		child := p.children[i]
		slots[i] = solo.MapErr(
			solo.Recover(func() rop.Result[Out] {
				if err := ctx.Err(); err != nil {
					return rop.Cancel[Out](err)
				}
				return child.Execute(atStage(ctx, p.name, i), in)
			}),
			func(err error) error {
				if _, ok := err.(*solo.PanicError); ok {
					return &LeafError{Node: child.Name(), Cause: err}
				}
				return err
			})
	})

	res = rop.Success(slots)
	return finish(ctx, start, Event{Node: p.name, Kind: KindParallel}, res)
}

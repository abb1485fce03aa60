package flow

import (
	"context"
	"fmt"
	"maps"

	"github.com/ib-77/ropchain/pkg/rop"
)

// ConditionalChain routes its input to exactly one branch, chosen by a
// discriminator that is called once per Execute. The branch outcome is
// returned unchanged.
type ConditionalChain[K comparable, In, Out any] struct {
	name          string
	discriminator func(in In) K
	branches      map[K]Node[In, Out]
	otherwise     Node[In, Out]
}

func (c *ConditionalChain[K, In, Out]) Name() string {
	return c.name
}

// Otherwise returns a copy of the chain that sends unmatched keys to
// fallback instead of failing with ErrUnmatchedBranch.
func (c *ConditionalChain[K, In, Out]) Otherwise(fallback Node[In, Out]) *ConditionalChain[K, In, Out] {
	if rop.IsNil(fallback) {
		panic(fmt.Sprintf("flow: conditional %q: nil fallback branch", c.name))
	}
	return &ConditionalChain[K, In, Out]{
		name:          c.name,
		discriminator: c.discriminator,
		branches:      maps.Clone(c.branches),
		otherwise:     fallback,
	}
}

func (c *ConditionalChain[K, In, Out]) Execute(ctx context.Context, in In) rop.Result[Out] {
	ctx, start := begin(ctx)
	e := Event{Node: c.name, Kind: KindConditional}

	res := c.route(ctx, in, &e)
	return finish(ctx, start, e, res)
}

func (c *ConditionalChain[K, In, Out]) route(ctx context.Context, in In, e *Event) rop.Result[Out] {
	if err := ctx.Err(); err != nil {
		return rop.Cancel[Out](err)
	}

	key, err := guard(func() K { return c.discriminator(in) })
	if err != nil {
		return rop.Fail[Out](&LeafError{Node: c.name, Cause: err})
	}
	e.Branch = fmt.Sprint(key)

	// Unhashable keys (K = any) panic on lookup; they match no branch.
	branch, _ := guard(func() Node[In, Out] { return c.branches[key] })
	if branch == nil {
		if c.otherwise == nil {
			return rop.Fail[Out](&UnmatchedBranchError{Chain: c.name, Key: key})
		}
		branch = c.otherwise
	}

	return branch.Execute(atStage(ctx, c.name, -1), in)
}

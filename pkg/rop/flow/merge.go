package flow

import (
	"context"

	"github.com/ib-77/ropchain/pkg/rop"
)

// MergeChain unwraps an ordered list of upstream outcomes and hands the
// values to a single downstream node. By default every slot must have
// succeeded; otherwise the downstream node is not called.
type MergeChain[In, Out any] struct {
	name           string
	downstream     Node[[]In, Out]
	successfulOnly bool
}

func (m *MergeChain[In, Out]) Name() string {
	return m.name
}

func (m *MergeChain[In, Out]) Execute(ctx context.Context, in []rop.Result[In]) rop.Result[Out] {
	ctx, start := begin(ctx)

	res := m.merge(ctx, in)
	return finish(ctx, start, Event{Node: m.name, Kind: KindMerge}, res)
}

func (m *MergeChain[In, Out]) merge(ctx context.Context, in []rop.Result[In]) rop.Result[Out] {
	values, failed := rop.Values(in)
	if len(failed) > 0 && !m.successfulOnly {
		errs := make([]error, 0, len(failed))
		for _, i := range failed {
			errs = append(errs, in[i].Err())
		}
		return rop.Fail[Out](&IncompleteMergeError{Chain: m.name, Failed: failed, Errs: errs})
	}

	if err := ctx.Err(); err != nil {
		return rop.Cancel[Out](err)
	}
	return m.downstream.Execute(atStage(ctx, m.name, -1), values)
}

// MergeOption configures a MergeChain.
type MergeOption func(*mergeConfig)

type mergeConfig struct {
	successfulOnly bool
}

// SuccessfulOnly makes the merge drop failed slots and pass the successful
// values, in order, instead of failing.
func SuccessfulOnly() MergeOption {
	return func(c *mergeConfig) {
		c.successfulOnly = true
	}
}

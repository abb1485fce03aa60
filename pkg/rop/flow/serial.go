package flow

import (
	"context"

	"github.com/ib-77/ropchain/pkg/rop"
	"github.com/ib-77/ropchain/pkg/rop/solo"
)

// SerialChain feeds the output of each stage into the next one and stops at
// the first stage that does not succeed.
type SerialChain[V any] struct {
	name   string
	stages []Node[V, V]
}

func (s *SerialChain[V]) Name() string {
	return s.name
}

// Len returns the number of stages.
func (s *SerialChain[V]) Len() int {
	return len(s.stages)
}

func (s *SerialChain[V]) Execute(ctx context.Context, in V) rop.Result[V] {
	ctx, start := begin(ctx)

	res := rop.Success(in)
	for i, stage := range s.stages {
		if err := ctx.Err(); err != nil {
			res = rop.Cancel[V](s.stageError(i, stage, err))
			break
		}

		res = stage.Execute(atStage(ctx, s.name, i), res.Result())
		if !res.IsSuccess() {
			res = solo.MapErr(res, func(err error) error { return s.stageError(i, stage, err) })
			break
		}
	}

	return finish(ctx, start, Event{Node: s.name, Kind: KindSerial}, res)
}

func (s *SerialChain[V]) stageError(i int, stage Node[V, V], err error) error {
	return &StageError{Chain: s.name, Kind: KindSerial, Stage: i, Node: stage.Name(), Cause: err}
}

// PipeChain composes two nodes whose types differ: the output of first is
// the input of second.
type PipeChain[A, B, C any] struct {
	name   string
	first  Node[A, B]
	second Node[B, C]
}

func (p *PipeChain[A, B, C]) Name() string {
	return p.name
}

func (p *PipeChain[A, B, C]) Execute(ctx context.Context, in A) rop.Result[C] {
	ctx, start := begin(ctx)

	wrap := func(stage int, node string) func(error) error {
		return func(err error) error {
			return &StageError{Chain: p.name, Kind: KindPipe, Stage: stage, Node: node, Cause: err}
		}
	}

	var res rop.Result[C]
	if err := ctx.Err(); err != nil {
		res = rop.Cancel[C](wrap(0, p.first.Name())(err))
	} else {
		mid := solo.MapErr(p.first.Execute(atStage(ctx, p.name, 0), in), wrap(0, p.first.Name()))
		res = solo.Switch(ctx, mid, func(ctx context.Context, b B) rop.Result[C] {
			if err := ctx.Err(); err != nil {
				return rop.Cancel[C](wrap(1, p.second.Name())(err))
			}
			return solo.MapErr(p.second.Execute(atStage(ctx, p.name, 1), b), wrap(1, p.second.Name()))
		})
	}

	return finish(ctx, start, Event{Node: p.name, Kind: KindPipe}, res)
}

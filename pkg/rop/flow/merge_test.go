package flow

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ib-77/ropchain/pkg/rop"
)

func sum(name string, calls *int) Node[[]int, int] {
	return Map(name, func(values []int) int {
		*calls++
		total := 0
		for _, v := range values {
			total += v
		}
		return total
	})
}

func TestMerge_StrictRejectsFailedSlot(t *testing.T) {
	t.Parallel()

	calls := 0
	cause := errors.New("slot 1 broke")
	merge := Merge("sum", sum("add", &calls))

	res := merge.Execute(context.Background(), []rop.Result[int]{
		rop.Success(1), rop.Fail[int](cause), rop.Success(3),
	})

	require.True(t, res.IsFailure())
	assert.Zero(t, calls, "downstream must not run on incomplete data")
	assert.ErrorIs(t, res.Err(), ErrIncompleteMerge)
	assert.ErrorIs(t, res.Err(), cause)

	var incomplete *IncompleteMergeError
	require.ErrorAs(t, res.Err(), &incomplete)
	assert.Equal(t, []int{1}, incomplete.Failed)
	assert.Equal(t, "sum", incomplete.Chain)
}

func TestMerge_SuccessfulOnly(t *testing.T) {
	t.Parallel()

	calls := 0
	merge := Merge("sum", sum("add", &calls), SuccessfulOnly())

	res := merge.Execute(context.Background(), []rop.Result[int]{
		rop.Success(1), rop.Fail[int](errors.New("x")), rop.Success(3),
	})

	require.True(t, res.IsSuccess())
	assert.Equal(t, 4, res.Result())
	assert.Equal(t, 1, calls)
}

func TestMerge_PassesValuesInOrder(t *testing.T) {
	t.Parallel()

	join := Merge("join", Map("concat", func(parts []string) string { return strings.Join(parts, ",") }))

	res := join.Execute(context.Background(), []rop.Result[string]{
		rop.Success("a"), rop.Success("b"), rop.Success("c"),
	})
	require.True(t, res.IsSuccess())
	assert.Equal(t, "a,b,c", res.Result())
}

func TestFanIn_ParallelIntoMerge(t *testing.T) {
	t.Parallel()

	calls := 0
	fan := Parallel("stats", []Node[int, int]{
		Map("x1", func(n int) int { return n }),
		Map("x10", func(n int) int { return n * 10 }),
		Map("x100", func(n int) int { return n * 100 }),
	})
	chain := FanIn[int, int, int]("total", fan, sum("add", &calls))

	res := chain.Execute(context.Background(), 2)
	require.True(t, res.IsSuccess())
	assert.Equal(t, 222, res.Result())
}

func TestFanIn_StrictFailurePropagates(t *testing.T) {
	t.Parallel()

	calls := 0
	fan := Parallel("stats", []Node[int, int]{
		Map("ok", func(n int) int { return n }),
		Func("bad", func(context.Context, int) (int, error) { return 0, errors.New("bad child") }),
	})
	chain := FanIn[int, int, int]("total", fan, sum("add", &calls))

	res := chain.Execute(context.Background(), 2)
	require.True(t, res.IsFailure())
	assert.Zero(t, calls)
	assert.ErrorIs(t, res.Err(), ErrIncompleteMerge)

	var stage *StageError
	require.ErrorAs(t, res.Err(), &stage)
	assert.Equal(t, 1, stage.Stage)
	assert.Equal(t, "total.merge", stage.Node)
}

func TestGather_UpstreamNodes(t *testing.T) {
	t.Parallel()

	chain := Gather("words", Map("join", func(parts []string) string { return strings.Join(parts, " ") }),
		[]Node[string, string]{
			Map("upper", strings.ToUpper),
			Map("lower", strings.ToLower),
		})

	res := chain.Execute(context.Background(), "MiXeD")
	require.True(t, res.IsSuccess())
	assert.Equal(t, "MIXED mixed", res.Result())
}

package flow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeout_FastNodePassesThrough(t *testing.T) {
	t.Parallel()

	node := Timeout("bounded", Map("fast", func(n int) int { return n + 1 }), time.Second)

	res := node.Execute(context.Background(), 1)
	require.True(t, res.IsSuccess())
	assert.Equal(t, 2, res.Result())
}

func TestTimeout_HungNodeFails(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	defer close(release)

	hung := Map("hung", func(n int) int { <-release; return n })
	node := Timeout("bounded", hung, 20*time.Millisecond)

	res := node.Execute(context.Background(), 1)
	require.True(t, res.IsFailure())
	assert.ErrorIs(t, res.Err(), ErrTimeout)

	var te *TimeoutError
	require.ErrorAs(t, res.Err(), &te)
	assert.Equal(t, "hung", te.Node)
}

func TestTimeout_DeadlineAwareNodeFails(t *testing.T) {
	t.Parallel()

	waits := Func("waits", func(ctx context.Context, n int) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})

	res := Timeout("bounded", waits, 10*time.Millisecond).Execute(context.Background(), 1)
	require.True(t, res.IsFailure())
	assert.ErrorIs(t, res.Err(), ErrTimeout)
}

func TestTimeout_InsideParallelIsolatesHungChild(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	defer close(release)

	chain := Parallel("fan", []Node[int, int]{
		Map("ok", func(n int) int { return n }),
		Timeout("bounded", Map("hung", func(n int) int { <-release; return n }), 20*time.Millisecond),
	})

	res := chain.Execute(context.Background(), 5)
	require.True(t, res.IsSuccess())
	assert.Equal(t, 5, res.Result()[0].Result())
	assert.ErrorIs(t, res.Result()[1].Err(), ErrTimeout)
}

func TestTimeout_PositionsWrappedNode(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	ctx := WithObserver(context.Background(), rec)

	chain := Serial[int]("main",
		Map("first", func(n int) int { return n }),
		Timeout("bounded", Map("inner", func(n int) int { return n + 1 }), time.Second))
	require.True(t, chain.Execute(ctx, 1).IsSuccess())

	events := rec.byNode()
	assert.Equal(t, "bounded", events["inner"].Parent)
	assert.Equal(t, -1, events["inner"].Stage)
	assert.Equal(t, "main", events["bounded"].Parent)
	assert.Equal(t, 1, events["bounded"].Stage)
}

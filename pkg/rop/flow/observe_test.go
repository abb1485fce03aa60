package flow

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Observe(_ context.Context, e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) byNode() map[string]Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]Event, len(r.events))
	for _, e := range r.events {
		out[e.Node] = e
	}
	return out
}

func TestObserver_ReportsPositionsAndRun(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	ctx := WithObserver(context.Background(), rec)

	chain := Serial[int]("main",
		Map("first", func(n int) int { return n + 1 }),
		Loop("grow", Map("x2", func(n int) int { return n * 2 }), func(n int, _ int) bool { return n < 8 }, 5),
	)

	res := chain.Execute(ctx, 1)
	require.True(t, res.IsSuccess())
	assert.Equal(t, 8, res.Result())

	events := rec.byNode()
	require.Contains(t, events, "main")
	require.Contains(t, events, "first")
	require.Contains(t, events, "grow")
	require.Contains(t, events, "x2")

	runID := events["main"].RunID
	assert.NotEqual(t, uuid.Nil, runID)
	for _, e := range rec.events {
		assert.Equal(t, runID, e.RunID, "event %s", e.Node)
	}

	assert.Equal(t, -1, events["main"].Stage)
	assert.Equal(t, "", events["main"].Parent)
	assert.Equal(t, "main", events["first"].Parent)
	assert.Equal(t, 0, events["first"].Stage)
	assert.Equal(t, 1, events["grow"].Stage)
	assert.Equal(t, 2, events["grow"].Iterations)
	assert.Equal(t, "grow", events["x2"].Parent)
	assert.Equal(t, KindLoop, events["grow"].Kind)
	assert.Equal(t, OutcomeSuccess, events["main"].Outcome)
	assert.Equal(t, res.Id(), events["main"].ResultID)
}

func TestObserver_ExhaustedLoopAndFailure(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	ctx := WithObserver(context.Background(), rec)

	Loop("spin", Map("id", func(n int) int { return n }), func(int, int) bool { return true }, 2).
		Iterate(ctx, 0)
	Func("broken", func(context.Context, int) (int, error) { return 0, errors.New("x") }).
		Execute(ctx, 0)
	Conditional("route", func(n int) string { return "k" }, map[string]Node[int, int]{
		"k": Map("k", func(n int) int { return n }),
	}).Execute(ctx, 0)

	events := rec.byNode()
	assert.Equal(t, OutcomeExhausted, events["spin"].Outcome)
	assert.Equal(t, OutcomeFailure, events["broken"].Outcome)
	assert.Error(t, events["broken"].Err)
	assert.Equal(t, "k", events["route"].Branch)
}

func TestObserver_PanickingSinkDoesNotChangeResults(t *testing.T) {
	t.Parallel()

	chain := Parallel("fan", []Node[int, int]{
		Map("a", func(n int) int { return n + 1 }),
		Map("b", func(n int) int { return n + 2 }),
	})

	plain := chain.Execute(context.Background(), 1)

	exploding := ObserverFunc(func(context.Context, Event) { panic("sink down") })
	rec := &recorder{}
	ctx := WithObserver(context.Background(), Observers(exploding, nil, rec))
	observed := chain.Execute(ctx, 1)

	require.True(t, observed.IsSuccess())
	require.Len(t, observed.Result(), 2)
	for i := range plain.Result() {
		assert.Equal(t, plain.Result()[i].Result(), observed.Result()[i].Result())
	}
	assert.Len(t, rec.events, 3, "the healthy observer still sees every event")
}

func TestRunID_AbsentWithoutObserver(t *testing.T) {
	t.Parallel()

	var seen bool
	node := Func("probe", func(ctx context.Context, n int) (int, error) {
		_, seen = RunID(ctx)
		return n, nil
	})
	node.Execute(context.Background(), 1)
	assert.False(t, seen)
}

func TestObservers_SkipsTypedNil(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	var missing *recorder
	ctx := WithObserver(context.Background(), Observers(nil, missing, rec))

	res := Map("one", func(n int) int { return n }).Execute(ctx, 1)
	require.True(t, res.IsSuccess())
	assert.Len(t, rec.byNode(), 1)
}

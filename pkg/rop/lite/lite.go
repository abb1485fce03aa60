package lite

import (
	"context"
	"sync"

	"github.com/ib-77/ropchain/pkg/rop"
	"github.com/ib-77/ropchain/pkg/rop/flow"
)

// Item is one streamed outcome with the position of its input.
type Item[T any] struct {
	Index  int
	Result rop.Result[T]
}

type indexed[T any] struct {
	index int
	value T
}

// Feed sends inputs on a channel that is closed after the last one or when
// ctx is done.
func Feed[T any](ctx context.Context, inputs []T) <-chan T {
	out := make(chan T)
	go func() {
		defer close(out)
		for _, in := range inputs {
			select {
			case out <- in:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Run executes node for every value received from inputCh, lines at a time.
// Items arrive in completion order; Index is the receive order. Once ctx is
// done no more inputs are taken and the output channel closes.
func Run[In, Out any](ctx context.Context, inputCh <-chan In, node flow.Node[In, Out],
	lines int) <-chan Item[Out] {

	if lines < 1 {
		lines = 1
	}

	numbered := make(chan indexed[In])
	go func() {
		defer close(numbered)
		i := 0
		for in := range inputCh {
			select {
			case numbered <- indexed[In]{index: i, value: in}:
				i++
			case <-ctx.Done():
				return
			}
		}
	}()

	out := make(chan Item[Out])
	wg := &sync.WaitGroup{}
	for range lines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for in := range numbered {
				item := Item[Out]{Index: in.index, Result: node.Execute(ctx, in.value)}
				select {
				case out <- item:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}

// Collect drains ch into a slice ordered by Index. Slots whose items never
// arrived hold cancelled results carrying ctx's error.
func Collect[T any](ctx context.Context, ch <-chan Item[T], n int) []rop.Result[T] {
	results := make([]rop.Result[T], n)
	seen := make([]bool, n)
	for item := range ch {
		if item.Index < n {
			results[item.Index] = item.Result
			seen[item.Index] = true
		}
	}
	for i := range results {
		if !seen[i] {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			results[i] = rop.Cancel[T](err)
		}
	}
	return results
}

// Finally folds every streamed outcome into a single value per item.
func Finally[In, Out any](ctx context.Context, inputCh <-chan Item[In],
	onSuccess func(ctx context.Context, r In) Out,
	onError func(ctx context.Context, err error) Out,
	onCancel func(ctx context.Context, err error) Out) <-chan Out {

	out := make(chan Out)
	go func() {
		defer close(out)
		for item := range inputCh {
			var v Out
			switch res := item.Result; {
			case res.IsSuccess():
				v = onSuccess(ctx, res.Result())
			case res.IsCancel():
				v = onCancel(ctx, res.Err())
			default:
				v = onError(ctx, res.Err())
			}
			select {
			case out <- v:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

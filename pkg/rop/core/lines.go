package core

import "sync"

// Lines runs run(i) for every i in [0, tasks) on at most lines goroutines and
// returns once all calls have returned. Indexes are handed out in order but
// may complete in any order; callers write into index-addressed slots.
//
// Lines never abandons a task: a call that does not return keeps its line
// busy and Lines blocks with it.
func Lines(tasks, lines int, run func(i int)) {
	if tasks <= 0 {
		return
	}
	if lines < 1 || lines > tasks {
		lines = tasks
	}

	indexes := make(chan int)
	wg := &sync.WaitGroup{}

	for range lines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				run(i)
			}
		}()
	}

	for i := range tasks {
		indexes <- i
	}
	close(indexes)

	wg.Wait()
}

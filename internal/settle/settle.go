// Package settle runs independent tasks concurrently and waits for all of
// them, collecting each task's value or error. A failing task never cancels
// its siblings.
package settle

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Task is one unit of concurrent work.
type Task[T any] func(ctx context.Context) (T, error)

// Outcome is the settled result of one task.
type Outcome[T any] struct {
	Value T
	Err   error
}

// OK reports whether the task succeeded.
func (o Outcome[T]) OK() bool { return o.Err == nil }

// All runs tasks with at most limit running at once (limit <= 0 means no
// limit) and returns their outcomes in task order. A panicking task settles
// with an error.
func All[T any](ctx context.Context, limit int, tasks []Task[T]) []Outcome[T] {
	outcomes := make([]Outcome[T], len(tasks))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, task := range tasks {
		g.Go(func() error {
			outcomes[i] = run(ctx, task)
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

func run[T any](ctx context.Context, task Task[T]) (out Outcome[T]) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome[T]{Err: fmt.Errorf("task panicked: %v", r)}
		}
	}()
	v, err := task(ctx)
	return Outcome[T]{Value: v, Err: err}
}

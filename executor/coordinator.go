package executor

import "context"

// task is one suspended field computation handed to the coordinator. fatal
// marks tasks whose failure dooms the whole response (an error on a non-null
// field), enabling advisory cancellation of siblings.
type task struct {
	run   func(ctx context.Context) (any, error)
	fatal bool
}

type outcome struct {
	value any
	err   error
}

// runAll executes the tasks and returns their outcomes in input order,
// independent of completion order. limit > 0 bounds the number of tasks in
// flight; limit == 1 yields a fully deterministic sequential schedule. When
// cancelOnFatal is set, the first failing fatal task cancels the context
// seen by the remaining tasks; cancellation is advisory and cannot undo side
// effects a resolver already performed.
func runAll(ctx context.Context, limit int, cancelOnFatal bool, tasks []task) []outcome {
	if len(tasks) == 0 {
		return nil
	}

	outcomes := make([]outcome, len(tasks))

	cancel := context.CancelFunc(func() {})
	if cancelOnFatal {
		ctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	if limit == 1 {
		for i, t := range tasks {
			v, err := t.run(ctx)
			outcomes[i] = outcome{value: v, err: err}
			if err != nil && t.fatal {
				// remaining tasks still run; they observe the cancelled ctx.
				cancel()
			}
		}
		return outcomes
	}

	var limiter chan struct{}
	if limit > 0 {
		limiter = make(chan struct{}, limit)
	}

	done := make(chan struct{}, len(tasks))
	for i := range tasks {
		go func(i int) {
			defer func() { done <- struct{}{} }()
			if limiter != nil {
				limiter <- struct{}{}
				defer func() { <-limiter }()
			}
			v, err := tasks[i].run(ctx)
			outcomes[i] = outcome{value: v, err: err}
			if err != nil && tasks[i].fatal {
				cancel()
			}
		}(i)
	}
	for range tasks {
		<-done
	}
	return outcomes
}

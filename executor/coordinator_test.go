package executor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestRunAll_OutcomesKeepInputOrder(t *testing.T) {
	tasks := []task{
		{run: func(ctx context.Context) (any, error) {
			time.Sleep(20 * time.Millisecond)
			return "slow", nil
		}},
		{run: func(ctx context.Context) (any, error) {
			return "fast", nil
		}},
	}

	outcomes := runAll(context.Background(), 0, false, tasks)

	got := []any{outcomes[0].value, outcomes[1].value}
	if diff := cmp.Diff([]any{"slow", "fast"}, got); diff != "" {
		t.Fatalf("outcome order mismatch (-want +got):\n%s", diff)
	}
}

func TestRunAll_LimitOneRunsSequentially(t *testing.T) {
	var mu sync.Mutex
	var order []int
	mk := func(i int) task {
		return task{run: func(ctx context.Context) (any, error) {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return i, nil
		}}
	}

	runAll(context.Background(), 1, false, []task{mk(0), mk(1), mk(2)})

	require.Equal(t, []int{0, 1, 2}, order)
}

func TestRunAll_LimitBoundsConcurrency(t *testing.T) {
	var mu sync.Mutex
	inflight, peak := 0, 0
	mk := func() task {
		return task{run: func(ctx context.Context) (any, error) {
			mu.Lock()
			inflight++
			if inflight > peak {
				peak = inflight
			}
			mu.Unlock()
			time.Sleep(10 * time.Millisecond)
			mu.Lock()
			inflight--
			mu.Unlock()
			return nil, nil
		}}
	}

	runAll(context.Background(), 2, false, []task{mk(), mk(), mk(), mk(), mk()})

	require.LessOrEqual(t, peak, 2)
	require.GreaterOrEqual(t, peak, 1)
}

func TestRunAll_FatalFailureCancelsContext(t *testing.T) {
	tasks := []task{
		{
			run:   func(ctx context.Context) (any, error) { return nil, errors.New("fatal") },
			fatal: true,
		},
		{run: func(ctx context.Context) (any, error) {
			select {
			case <-ctx.Done():
				return "cancelled", nil
			case <-time.After(2 * time.Second):
				return "never cancelled", nil
			}
		}},
	}

	outcomes := runAll(context.Background(), 0, true, tasks)

	require.EqualError(t, outcomes[0].err, "fatal")
	require.Equal(t, "cancelled", outcomes[1].value)
}

func TestRunAll_NonFatalFailureDoesNotCancel(t *testing.T) {
	tasks := []task{
		{run: func(ctx context.Context) (any, error) { return nil, errors.New("isolated") }},
		{run: func(ctx context.Context) (any, error) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(20 * time.Millisecond):
				return "completed", nil
			}
		}},
	}

	outcomes := runAll(context.Background(), 0, true, tasks)

	require.Error(t, outcomes[0].err)
	require.NoError(t, outcomes[1].err)
	require.Equal(t, "completed", outcomes[1].value)
}

func TestCollector_RecordsOncePerPath(t *testing.T) {
	c := &collector{}
	path := []any{"a", 1, "b"}

	require.False(t, c.hasAtPath(path))
	c.add(&GraphQLError{Message: "first", Path: path})
	require.True(t, c.hasAtPath(path))
	require.False(t, c.hasAtPath([]any{"a", 1}))

	c.add(&GraphQLError{Message: "second", Path: []any{"other"}})
	require.Len(t, c.all(), 2)
}

func TestCollector_ConcurrentAppends(t *testing.T) {
	c := &collector{}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.add(&GraphQLError{Message: "e", Path: []any{i}})
		}(i)
	}
	wg.Wait()
	require.Len(t, c.all(), 50)
}

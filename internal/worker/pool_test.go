package worker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
)

func TestExecutePreservesOrder(t *testing.T) {
	inputs := make([]int, 50)
	for i := range inputs {
		inputs[i] = i
	}

	pool := NewPool[int, int](4, func(ctx context.Context, n int) (int, error) {
		return n * 2, nil
	})

	results := pool.Execute(context.Background(), inputs)
	if len(results) != len(inputs) {
		t.Fatalf("got %d results, want %d", len(results), len(inputs))
	}
	for i, task := range results {
		if task.Err != nil {
			t.Fatalf("task %d failed: %v", i, task.Err)
		}
		if task.Result != i*2 {
			t.Errorf("result[%d] = %d, want %d", i, task.Result, i*2)
		}
	}
}

func TestExecuteCapturesErrors(t *testing.T) {
	wantErr := errors.New("boom")
	pool := NewPool[int, int](2, func(ctx context.Context, n int) (int, error) {
		if n == 3 {
			return 0, wantErr
		}
		return n, nil
	})

	results := pool.Execute(context.Background(), []int{1, 2, 3, 4})
	for i, task := range results {
		if task.Input == 3 {
			if !errors.Is(task.Err, wantErr) {
				t.Errorf("task %d: err = %v, want %v", i, task.Err, wantErr)
			}
			continue
		}
		if task.Err != nil {
			t.Errorf("task %d: unexpected error %v", i, task.Err)
		}
	}
}

func TestExecuteStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var processed atomic.Int32
	pool := NewPool[int, int](1, func(ctx context.Context, n int) (int, error) {
		if processed.Add(1) == 1 {
			cancel()
		}
		return n, nil
	})

	inputs := make([]int, 100)
	pool.Execute(ctx, inputs)

	if err := ctx.Err(); err == nil {
		t.Fatal("context should be cancelled")
	}
	if n := processed.Load(); n == 100 {
		t.Error("pool processed every input despite cancellation")
	}
}

func TestNewPoolClampsWorkers(t *testing.T) {
	pool := NewPool[int, string](0, func(ctx context.Context, n int) (string, error) {
		return fmt.Sprint(n), nil
	})
	results := pool.Execute(context.Background(), []int{7})
	if len(results) != 1 || results[0].Result != "7" {
		t.Fatalf("unexpected results: %+v", results)
	}
}

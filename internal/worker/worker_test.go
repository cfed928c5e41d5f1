package worker

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestStartHandlesJobsInOrder(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	jobs := make(chan int, 8)
	sem := make(chan struct{}, 1)

	var mu sync.Mutex
	var got []int
	done := make(chan struct{})

	Start(StartOptions[int]{
		Ctx:  ctx,
		Sem:  sem,
		Jobs: jobs,
		Handle: func(_ context.Context, j int) {
			mu.Lock()
			got = append(got, j)
			if len(got) == 3 {
				close(done)
			}
			mu.Unlock()
		},
	})

	for _, j := range []int{1, 2, 3} {
		if err := Enqueue(ctx, ctx, jobs, j); err != nil {
			t.Fatalf("Enqueue(%d) error = %v", j, err)
		}
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for jobs")
	}

	mu.Lock()
	defer mu.Unlock()
	for i, want := range []int{1, 2, 3} {
		if got[i] != want {
			t.Fatalf("job order = %v, want [1 2 3]", got)
		}
	}
}

func TestEnqueueFailsAfterCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	jobs := make(chan int) // unbuffered, nothing draining
	if err := Enqueue(ctx, ctx, jobs, 1); err == nil {
		t.Fatalf("Enqueue() after cancel expected error")
	}
}

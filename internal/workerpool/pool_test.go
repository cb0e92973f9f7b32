package workerpool

import (
	"sync/atomic"
	"testing"
)

func TestAllSubmittedTasksRun(t *testing.T) {
	p := New(4)
	p.Start()

	var count int64
	const n = 100
	for i := 0; i < n; i++ {
		p.Submit(func() { atomic.AddInt64(&count, 1) })
	}
	p.Wait()

	if count != n {
		t.Fatalf("count = %d, want %d — a task was dropped or ran twice", count, n)
	}
}

func TestWaitBlocksUntilWorkersDrain(t *testing.T) {
	p := New(2)
	p.Start()

	done := make(chan struct{})
	p.Submit(func() { close(done) })
	p.Wait()

	select {
	case <-done:
	default:
		t.Fatal("Wait returned before the submitted task ran")
	}
}

package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestPoolProcessesTasks(t *testing.T) {
	p := NewPool(Config{Workers: 4})
	p.Start()

	var executed atomic.Int64
	const n = 20

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range p.Results() {
		}
	}()

	for i := 0; i < n; i++ {
		task := TaskFunc{
			Name: "task",
			Fn: func(ctx context.Context) error {
				executed.Add(1)
				return nil
			},
		}
		if err := p.Submit(task); err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
	}
	p.StopWait()
	<-done

	if got := executed.Load(); got != n {
		t.Errorf("executed %d tasks, want %d", got, n)
	}

	stats := p.Stats()
	if stats.Processed != n {
		t.Errorf("Stats().Processed = %d, want %d", stats.Processed, n)
	}
	if stats.Errors != 0 {
		t.Errorf("Stats().Errors = %d, want 0", stats.Errors)
	}
}

func TestPoolReportsErrors(t *testing.T) {
	p := NewPool(Config{Workers: 2})
	p.Start()

	wantErr := errors.New("task failed")

	var failures atomic.Int64
	done := make(chan struct{})
	go func() {
		defer close(done)
		for res := range p.Results() {
			if res.Error != nil {
				failures.Add(1)
				if !errors.Is(res.Error, wantErr) {
					t.Errorf("Result.Error = %v, want %v", res.Error, wantErr)
				}
				if res.TaskID != "failing" {
					t.Errorf("Result.TaskID = %q, want %q", res.TaskID, "failing")
				}
			}
		}
	}()

	_ = p.Submit(TaskFunc{Name: "failing", Fn: func(ctx context.Context) error { return wantErr }})
	_ = p.Submit(TaskFunc{Name: "passing", Fn: func(ctx context.Context) error { return nil }})

	p.StopWait()
	<-done

	if got := failures.Load(); got != 1 {
		t.Errorf("observed %d failures, want 1", got)
	}
	if got := p.Stats().Errors; got != 1 {
		t.Errorf("Stats().Errors = %d, want 1", got)
	}
}

func TestSubmitBeforeStart(t *testing.T) {
	p := NewPool(Config{Workers: 1})

	err := p.Submit(TaskFunc{Name: "too early", Fn: func(ctx context.Context) error { return nil }})
	if err == nil {
		t.Error("Submit() before Start() should fail")
	}
}

func TestPoolStop(t *testing.T) {
	p := NewPool(Config{Workers: 2, QueueSize: 10})
	p.Start()

	go func() {
		for range p.Results() {
		}
	}()

	_ = p.Submit(TaskFunc{Name: "slow", Fn: func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Second):
			return nil
		}
	}})

	stopped := make(chan struct{})
	go func() {
		p.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop() did not cancel the in-flight task")
	}
}

func TestPoolDefaults(t *testing.T) {
	p := NewPool(Config{})
	if p.workers <= 0 {
		t.Errorf("workers = %d, want > 0", p.workers)
	}
	if cap(p.tasks) != p.workers*2 {
		t.Errorf("queue size = %d, want %d", cap(p.tasks), p.workers*2)
	}
}

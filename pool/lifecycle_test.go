package pool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNew_InvalidThreads(t *testing.T) {
	for _, threads := range []int{0, -1, -100} {
		p, err := New(threads)
		if !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("New(%d): expected ErrInvalidConfiguration, got %v", threads, err)
		}
		if p != nil {
			t.Errorf("New(%d): expected nil pool", threads)
		}
	}
}

func TestSubmit_NilTask(t *testing.T) {
	p := newTestPool(t, 1)
	if err := p.Submit(nil); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestSubmit_RunsTask(t *testing.T) {
	p := newTestPool(t, 2)

	var wg sync.WaitGroup
	var ran atomic.Int32
	for range 10 {
		wg.Add(1)
		if err := p.Submit(func() {
			defer wg.Done()
			ran.Add(1)
		}); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}
	wg.Wait()

	if ran.Load() != 10 {
		t.Errorf("expected 10 tasks to run, got %d", ran.Load())
	}
}

func TestSubmit_AfterClose(t *testing.T) {
	p := newTestPool(t, 2)
	if err := p.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	var ran atomic.Bool
	err := p.Submit(func() { ran.Store(true) })
	if !errors.Is(err, ErrPoolClosed) {
		t.Errorf("expected ErrPoolClosed, got %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	if ran.Load() {
		t.Error("task submitted after Close must never run")
	}
}

func TestMap_AfterClose(t *testing.T) {
	p := newTestPool(t, 2)
	_ = p.Close()

	_, err := Map(context.Background(), p, func(n int) (int, error) { return n, nil }, []int{1, 2})
	if !errors.Is(err, ErrPoolClosed) {
		t.Errorf("expected ErrPoolClosed, got %v", err)
	}
}

func TestClose_Twice(t *testing.T) {
	p := newTestPool(t, 2)

	if err := p.Close(); err != nil {
		t.Fatalf("first close failed: %v", err)
	}
	if !p.Closed() {
		t.Error("expected Closed() to report true")
	}
	if err := p.Close(); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("expected ErrPoolClosed on second close, got %v", err)
	}
}

func TestClose_Concurrent(t *testing.T) {
	p := newTestPool(t, 4)

	const callers = 8
	var wg sync.WaitGroup
	var succeeded atomic.Int32
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := p.Close(); err == nil {
				succeeded.Add(1)
			} else if !errors.Is(err, ErrPoolClosed) {
				t.Errorf("unexpected close error: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded.Load() != 1 {
		t.Errorf("expected exactly one successful Close, got %d", succeeded.Load())
	}
}

func TestClose_WaitsForRunningTask(t *testing.T) {
	p := newTestPool(t, 1)

	started := make(chan struct{})
	var finished atomic.Bool
	_ = p.Submit(func() {
		close(started)
		time.Sleep(30 * time.Millisecond)
		finished.Store(true)
	})

	<-started
	if err := p.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if !finished.Load() {
		t.Error("Close returned before the running task finished")
	}
}

func TestClose_DropsQueuedTasks(t *testing.T) {
	p := newTestPool(t, 1)

	block := make(chan struct{})
	started := make(chan struct{})
	_ = p.Submit(func() {
		close(started)
		<-block
	})
	<-started

	var ran atomic.Int32
	for range 5 {
		_ = p.Submit(func() { ran.Add(1) })
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		close(block)
	}()
	if err := p.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	if ran.Load() != 0 {
		t.Errorf("expected queued tasks to be dropped, %d ran", ran.Load())
	}
	if dropped := p.Stats().Dropped; dropped != 5 {
		t.Errorf("expected 5 dropped tasks, got %d", dropped)
	}
}

func TestClose_ReleasesInFlightMap(t *testing.T) {
	p := newTestPool(t, 2)

	block := make(chan struct{})
	started := make(chan struct{}, 2)
	done := make(chan error, 1)

	go func() {
		_, err := Map(context.Background(), p, func(n int) (int, error) {
			started <- struct{}{}
			<-block
			return n, nil
		}, make([]int, 50))
		done <- err
	}()

	<-started
	<-started

	closed := make(chan struct{})
	go func() {
		_ = p.Close()
		close(closed)
	}()

	time.Sleep(10 * time.Millisecond)
	close(block)

	select {
	case err := <-done:
		if !errors.Is(err, ErrPoolClosed) {
			t.Errorf("expected ErrPoolClosed, got %v", err)
		}
		var groupErr *GroupError
		if !errors.As(err, &groupErr) {
			t.Fatalf("expected *GroupError, got %T", err)
		}
		if n := len(groupErr.Errors()); n != 50 {
			t.Errorf("expected every slot to be reported, got %d", n)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Map did not return after Close")
	}

	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not return")
	}
}

func TestClose_WithIdleWorkers(t *testing.T) {
	p := newTestPool(t, 8)

	done := make(chan error, 1)
	go func() { done <- p.Close() }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("unexpected close error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Close hung with idle workers")
	}
}

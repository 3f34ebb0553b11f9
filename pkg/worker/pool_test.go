package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/c360/jobmap/metric"
)

// Test data structure for worker pool tests
type testWork struct {
	id    int
	delay time.Duration
	fail  bool
}

func mustPool(t *testing.T, workers, queueSize int, processor func(context.Context, testWork) error,
	opts ...Option[testWork]) *Pool[testWork] {
	t.Helper()
	pool, err := NewPool(workers, queueSize, processor, opts...)
	if err != nil {
		t.Fatalf("Failed to create pool: %v", err)
	}
	return pool
}

func TestNewPool(t *testing.T) {
	processor := func(_ context.Context, _ testWork) error { return nil }

	pool := mustPool(t, 5, 100, processor)
	if pool.workers != 5 {
		t.Errorf("Expected 5 workers, got %d", pool.workers)
	}
	if pool.queueSize != 100 {
		t.Errorf("Expected queue size 100, got %d", pool.queueSize)
	}

	pool = mustPool(t, 0, 100, processor)
	if pool.workers != defaultWorkers {
		t.Errorf("Expected default %d workers, got %d", defaultWorkers, pool.workers)
	}

	pool = mustPool(t, 5, -1, processor)
	if pool.queueSize != defaultQueueSize {
		t.Errorf("Expected default queue size %d, got %d", defaultQueueSize, pool.queueSize)
	}
}

func TestPool_StartStop(t *testing.T) {
	var processedCount int64
	processor := func(_ context.Context, _ testWork) error {
		atomic.AddInt64(&processedCount, 1)
		return nil
	}

	pool := mustPool(t, 2, 10, processor)

	ctx := context.Background()
	if err := pool.Start(ctx); err != nil {
		t.Fatalf("Failed to start pool: %v", err)
	}

	for i := 0; i < 5; i++ {
		if err := pool.Submit(testWork{id: i}); err != nil {
			t.Errorf("Failed to submit work %d: %v", i, err)
		}
	}

	// Stop drains everything already queued
	if err := pool.Stop(5 * time.Second); err != nil {
		t.Fatalf("Failed to stop pool: %v", err)
	}

	if processed := atomic.LoadInt64(&processedCount); processed != 5 {
		t.Errorf("Expected 5 processed items, got %d", processed)
	}

	if err := pool.Submit(testWork{id: 999}); err == nil {
		t.Error("Expected error when submitting to stopped pool")
	}

	// Second stop is a no-op
	if err := pool.Stop(time.Second); err != nil {
		t.Errorf("Expected nil from second Stop, got %v", err)
	}
}

func TestPool_StopBeforeStart(t *testing.T) {
	pool := mustPool(t, 1, 1, func(_ context.Context, _ testWork) error { return nil })

	if err := pool.Stop(time.Second); err != nil {
		t.Fatalf("Stop before Start should be a no-op, got %v", err)
	}
	if err := pool.Start(context.Background()); err != nil {
		t.Fatalf("Failed to start pool: %v", err)
	}
	defer pool.Stop(5 * time.Second)

	if err := pool.SubmitWait(context.Background(), testWork{id: 1}); err != nil {
		t.Errorf("Expected submission to succeed, got %v", err)
	}
}

func TestPool_QueueFull(t *testing.T) {
	release := make(chan struct{})
	processor := func(_ context.Context, _ testWork) error {
		<-release
		return nil
	}

	pool := mustPool(t, 1, 2, processor)
	if err := pool.Start(context.Background()); err != nil {
		t.Fatalf("Failed to start pool: %v", err)
	}
	defer pool.Stop(5 * time.Second)
	defer close(release)

	submitted, dropped := 0, 0
	for i := 0; i < 5; i++ {
		if err := pool.Submit(testWork{id: i}); err != nil {
			dropped++
		} else {
			submitted++
		}
	}

	if dropped == 0 {
		t.Error("Expected some work to be dropped due to full queue")
	}
	if submitted == 0 {
		t.Error("Expected some work to be submitted successfully")
	}
	if stats := pool.Stats(); stats.Dropped != int64(dropped) {
		t.Errorf("Expected %d dropped in stats, got %d", dropped, stats.Dropped)
	}
}

func TestPool_SubmitWaitBlocksUntilRoom(t *testing.T) {
	release := make(chan struct{})
	var processedCount int64
	processor := func(_ context.Context, _ testWork) error {
		<-release
		atomic.AddInt64(&processedCount, 1)
		return nil
	}

	pool := mustPool(t, 1, 1, processor)
	if err := pool.Start(context.Background()); err != nil {
		t.Fatalf("Failed to start pool: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		ctx := context.Background()
		for i := 0; i < 4; i++ {
			if err := pool.SubmitWait(ctx, testWork{id: i}); err != nil {
				done <- err
				return
			}
		}
		done <- nil
	}()

	select {
	case err := <-done:
		t.Fatalf("SubmitWait should block while the worker is busy, returned %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(release)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("SubmitWait failed: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("SubmitWait did not unblock")
	}

	if err := pool.Stop(5 * time.Second); err != nil {
		t.Fatalf("Failed to stop pool: %v", err)
	}
	if processed := atomic.LoadInt64(&processedCount); processed != 4 {
		t.Errorf("Expected 4 processed items, got %d", processed)
	}
	if stats := pool.Stats(); stats.Dropped != 0 {
		t.Errorf("SubmitWait should never drop, got %d", stats.Dropped)
	}
}

func TestPool_SubmitWaitContext(t *testing.T) {
	release := make(chan struct{})
	processor := func(_ context.Context, _ testWork) error {
		<-release
		return nil
	}

	pool := mustPool(t, 1, 1, processor)
	if err := pool.Start(context.Background()); err != nil {
		t.Fatalf("Failed to start pool: %v", err)
	}
	defer pool.Stop(5 * time.Second)
	defer close(release)

	// One item in flight, one queued
	_ = pool.SubmitWait(context.Background(), testWork{id: 1})
	time.Sleep(10 * time.Millisecond)
	_ = pool.SubmitWait(context.Background(), testWork{id: 2})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := pool.SubmitWait(ctx, testWork{id: 3})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected context.DeadlineExceeded, got %v", err)
	}
}

func TestPool_ProcessingErrors(t *testing.T) {
	var successCount, errorCount int64

	processor := func(_ context.Context, work testWork) error {
		if work.fail {
			atomic.AddInt64(&errorCount, 1)
			return errors.New("simulated error")
		}
		atomic.AddInt64(&successCount, 1)
		return nil
	}

	pool := mustPool(t, 2, 10, processor)
	if err := pool.Start(context.Background()); err != nil {
		t.Fatalf("Failed to start pool: %v", err)
	}

	for i := 0; i < 10; i++ {
		if err := pool.Submit(testWork{id: i, fail: i%2 == 0}); err != nil {
			t.Errorf("Failed to submit work %d: %v", i, err)
		}
	}

	if err := pool.Stop(5 * time.Second); err != nil {
		t.Fatalf("Failed to stop pool: %v", err)
	}

	if success := atomic.LoadInt64(&successCount); success != 5 {
		t.Errorf("Expected 5 successful processes, got %d", success)
	}
	if errCount := atomic.LoadInt64(&errorCount); errCount != 5 {
		t.Errorf("Expected 5 failed processes, got %d", errCount)
	}

	stats := pool.Stats()
	if stats.Processed != 10 {
		t.Errorf("Expected 10 processed items in stats, got %d", stats.Processed)
	}
	if stats.Failed != 5 {
		t.Errorf("Expected 5 failed items in stats, got %d", stats.Failed)
	}
}

func TestPool_ProcessorPanic(t *testing.T) {
	var processedCount int64
	processor := func(_ context.Context, work testWork) error {
		if work.fail {
			panic("boom")
		}
		atomic.AddInt64(&processedCount, 1)
		return nil
	}

	pool := mustPool(t, 1, 10, processor)
	if err := pool.Start(context.Background()); err != nil {
		t.Fatalf("Failed to start pool: %v", err)
	}

	_ = pool.Submit(testWork{id: 1, fail: true})
	_ = pool.Submit(testWork{id: 2})

	if err := pool.Stop(5 * time.Second); err != nil {
		t.Fatalf("Failed to stop pool: %v", err)
	}

	if processed := atomic.LoadInt64(&processedCount); processed != 1 {
		t.Errorf("Worker should survive a panic, processed %d", processed)
	}
	if stats := pool.Stats(); stats.Failed != 1 {
		t.Errorf("Expected the panic to count as a failure, got %d", stats.Failed)
	}
}

func TestPool_ContextCancellation(t *testing.T) {
	var processedCount int64

	processor := func(ctx context.Context, work testWork) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(work.delay):
			atomic.AddInt64(&processedCount, 1)
			return nil
		}
	}

	pool := mustPool(t, 2, 10, processor)

	ctx, cancel := context.WithCancel(context.Background())
	if err := pool.Start(ctx); err != nil {
		t.Fatalf("Failed to start pool: %v", err)
	}

	for i := 0; i < 5; i++ {
		if err := pool.Submit(testWork{id: i, delay: 50 * time.Millisecond}); err != nil {
			t.Errorf("Failed to submit work %d: %v", i, err)
		}
	}

	time.Sleep(10 * time.Millisecond)
	cancel()

	if err := pool.Stop(5 * time.Second); err != nil {
		t.Fatalf("Failed to stop pool: %v", err)
	}

	if processed := atomic.LoadInt64(&processedCount); processed >= 5 {
		t.Errorf("Expected cancellation to cut processing short, processed %d", processed)
	}
}

func TestPool_ConcurrentSubmissions(t *testing.T) {
	var processedCount int64

	processor := func(_ context.Context, _ testWork) error {
		atomic.AddInt64(&processedCount, 1)
		return nil
	}

	pool := mustPool(t, 5, 10, processor)
	if err := pool.Start(context.Background()); err != nil {
		t.Fatalf("Failed to start pool: %v", err)
	}

	var wg sync.WaitGroup
	submitters := 10
	workPerSubmitter := 10

	for i := 0; i < submitters; i++ {
		wg.Add(1)
		go func(submitterID int) {
			defer wg.Done()
			for j := 0; j < workPerSubmitter; j++ {
				work := testWork{id: submitterID*workPerSubmitter + j}
				if err := pool.SubmitWait(context.Background(), work); err != nil {
					t.Errorf("Submitter %d failed to submit work %d: %v", submitterID, j, err)
				}
			}
		}(i)
	}

	wg.Wait()

	if err := pool.Stop(5 * time.Second); err != nil {
		t.Fatalf("Failed to stop pool: %v", err)
	}

	expected := int64(submitters * workPerSubmitter)
	if processed := atomic.LoadInt64(&processedCount); processed != expected {
		t.Errorf("Expected %d processed items, got %d", expected, processed)
	}
}

func TestPool_Stats(t *testing.T) {
	processor := func(_ context.Context, _ testWork) error { return nil }

	pool := mustPool(t, 3, 50, processor)

	stats := pool.Stats()
	if stats.Workers != 3 {
		t.Errorf("Expected 3 workers in stats, got %d", stats.Workers)
	}
	if stats.QueueSize != 50 {
		t.Errorf("Expected queue size 50 in stats, got %d", stats.QueueSize)
	}
	if stats.Submitted != 0 {
		t.Errorf("Expected 0 submitted initially, got %d", stats.Submitted)
	}

	if err := pool.Start(context.Background()); err != nil {
		t.Fatalf("Failed to start pool: %v", err)
	}
	for i := 0; i < 10; i++ {
		_ = pool.Submit(testWork{id: i})
	}
	if err := pool.Stop(5 * time.Second); err != nil {
		t.Fatalf("Failed to stop pool: %v", err)
	}

	stats = pool.Stats()
	if stats.Submitted != 10 {
		t.Errorf("Expected 10 submitted in stats, got %d", stats.Submitted)
	}
	if stats.Processed != 10 {
		t.Errorf("Expected 10 processed in stats, got %d", stats.Processed)
	}
	if stats.QueueDepth != 0 {
		t.Errorf("Expected empty queue after stop, got %d", stats.QueueDepth)
	}
}

func TestPool_Metrics(t *testing.T) {
	registry := metric.NewMetricsRegistry()

	processor := func(_ context.Context, work testWork) error {
		if work.fail {
			return errors.New("simulated error")
		}
		return nil
	}

	pool := mustPool(t, 2, 10, processor, WithMetricsRegistry[testWork](registry, "jobmap_worker"))
	if pool.metrics == nil {
		t.Fatal("Expected metrics to be initialized")
	}

	if err := pool.Start(context.Background()); err != nil {
		t.Fatalf("Failed to start pool: %v", err)
	}
	for i := 0; i < 4; i++ {
		_ = pool.Submit(testWork{id: i, fail: i == 0})
	}
	if err := pool.Stop(5 * time.Second); err != nil {
		t.Fatalf("Failed to stop pool: %v", err)
	}

	if got := promtest.ToFloat64(pool.metrics.submitted); got != 4 {
		t.Errorf("Expected 4 submitted, got %v", got)
	}
	if got := promtest.ToFloat64(pool.metrics.processed); got != 4 {
		t.Errorf("Expected 4 processed, got %v", got)
	}
	if got := promtest.ToFloat64(pool.metrics.failed); got != 1 {
		t.Errorf("Expected 1 failed, got %v", got)
	}

	// A second pool with the same prefix clashes
	if _, err := NewPool(1, 1, processor, WithMetricsRegistry[testWork](registry, "jobmap_worker")); err == nil {
		t.Error("Expected duplicate metric registration to fail")
	}
}

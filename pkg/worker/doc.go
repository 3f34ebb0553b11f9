// Package worker provides a generic worker pool for concurrent task processing.
//
// The jobmap command uses it to convert many input files at once. Each file is
// a work item; the processor converts it and writes the result.
//
// # Usage
//
//	pool, err := worker.NewPool(cfg.Workers, cfg.QueueSize,
//		func(ctx context.Context, path string) error {
//			return convertFile(ctx, path)
//		},
//		worker.WithMetricsRegistry[string](registry, "jobmap_worker"),
//	)
//	if err != nil {
//		return err
//	}
//	if err := pool.Start(ctx); err != nil {
//		return err
//	}
//
//	for _, path := range paths {
//		if err := pool.SubmitWait(ctx, path); err != nil {
//			break
//		}
//	}
//
//	// Drains the queue, then returns.
//	if err := pool.Stop(30 * time.Second); err != nil {
//		return err
//	}
//
// # Submission
//
// Submit never blocks and returns ErrQueueFull when the queue is at capacity.
// SubmitWait blocks until there is room, the caller's context is done, the
// pool's context is done, or Stop is called.
//
// # Shutdown
//
// Stop closes the queue, so workers finish every item already queued before
// exiting. Cancelling the context passed to Start makes workers exit without
// draining. A processor panic is recovered and counted as a failure.
//
// # Metrics
//
// With WithMetricsRegistry, the pool registers <prefix>_queue_depth,
// <prefix>_utilization, <prefix>_submitted_total, <prefix>_processed_total,
// <prefix>_failed_total, <prefix>_dropped_total and
// <prefix>_processing_duration_seconds{status}. A name clash makes NewPool
// fail.
package worker

// Package warmup implements the concurrent request-dispatch engine that
// drives a cache warm-up run.
//
// The engine consumes a lazily-produced sequence of warm-up requests and
// keeps a fixed number of them in flight at a time. Whenever an in-flight
// request completes, its outcome is reported immediately and the freed slot
// is refilled from the sequence, so at steady state exactly Concurrency
// requests are outstanding while source items remain.
//
// Example usage:
//
//	cfg := warmup.DefaultConfig("https://shop.example.com")
//	cfg.Concurrency = 20
//
//	pool, err := warmup.NewPool(cfg, dispatcher, reporter)
//	if err != nil {
//		return err
//	}
//	summary, err := pool.Run(ctx, seq)
//
// The pool guarantees:
//   - every submitted request yields exactly one outcome, success or failure
//   - at most Concurrency requests are in flight at any instant
//   - no idle slots while unconsumed source items remain
//   - a failed request never aborts the run or affects sibling requests
//
// Completion order is arrival order, not submission order; the Index field on
// each outcome lets callers reconstruct submission order when they need it.
package warmup

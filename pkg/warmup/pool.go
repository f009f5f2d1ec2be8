package warmup

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for pool operations.
var (
	warmupInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "warmup_in_flight_requests",
		Help: "Number of warm-up requests currently in flight",
	})

	warmupOutcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warmup_outcomes_total",
		Help: "Total warm-up outcomes by result",
	}, []string{"result"})
)

// Source is the lazily-produced, single-pass sequence of warm-up requests
// consumed by the pool. Next returns the next request and false once the
// sequence is exhausted. After exhaustion Err reports whether the sequence
// ended normally or because the underlying inventory failed.
type Source interface {
	Next(ctx context.Context) (Request, bool)
	Err() error
}

// Dispatcher performs one GET round trip for a path. It returns the final
// status code after redirects and the fully resolved target URI. A non-nil
// error marks the request as failed; the pool never retries.
type Dispatcher interface {
	Dispatch(ctx context.Context, path string) (DispatchResult, error)
}

// DispatchResult carries the observable result of a dispatch, independent of
// whether it counts as a success.
type DispatchResult struct {
	StatusCode int
	TargetURI  string
}

// Summary describes a completed run.
type Summary struct {
	Submitted int
	Succeeded int
	Failed    int
	Duration  time.Duration
}

// Pool is the concurrency engine. It keeps at most Concurrency requests in
// flight, refilling each freed slot from the source until the source is
// exhausted and every in-flight request has completed.
//
// All slot bookkeeping is serialized: a single feeder goroutine pulls from
// the source and each of the Concurrency workers holds exactly one request
// at a time, so the in-flight count can never exceed the cap.
type Pool struct {
	cfg        Config
	dispatcher Dispatcher
	reporter   Reporter
	logger     zerolog.Logger
}

// NewPool creates a pool. The configuration is validated up front; an
// invalid concurrency or timeout aborts before any request is dispatched.
func NewPool(cfg Config, dispatcher Dispatcher, reporter Reporter) (*Pool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("dispatcher is required")
	}
	if reporter == nil {
		return nil, fmt.Errorf("reporter is required")
	}

	return &Pool{
		cfg:        cfg,
		dispatcher: dispatcher,
		reporter:   reporter,
		logger:     log.With().Str("component", "warmup-pool").Logger(),
	}, nil
}

// Run consumes the source until it is exhausted and all in-flight requests
// have completed, reporting one outcome per submitted request in completion
// order. A cancelled context stops pulling new requests; any already
// dispatched still complete (or time out) and produce outcomes.
//
// Per-request failures never abort the run. Run returns an error only when
// the source itself failed mid-iteration; the summary then covers the
// requests dispatched before the failure.
func (p *Pool) Run(ctx context.Context, src Source) (Summary, error) {
	start := time.Now()

	p.logger.Info().
		Str("base_origin", p.cfg.BaseOrigin).
		Int("concurrency", p.cfg.Concurrency).
		Int("max_requests", p.cfg.MaxRequests).
		Msg("Starting warm-up run")

	// Unbuffered: a request is pulled from the source only when a worker
	// is ready to dispatch it, so the source stays lazy.
	queue := make(chan Request)
	results := make(chan Outcome)

	go func() {
		defer close(queue)
		for {
			req, ok := src.Next(ctx)
			if !ok {
				return
			}
			select {
			case queue <- req:
			case <-ctx.Done():
				p.logger.Warn().
					Int("next_index", req.Index).
					Msg("Run cancelled, no further requests submitted")
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < p.cfg.Concurrency; i++ {
		wg.Add(1)
		go p.worker(ctx, i, queue, results, &wg)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var sum Summary
	for out := range results {
		sum.Submitted++
		if out.Failed {
			sum.Failed++
			warmupOutcomesTotal.WithLabelValues("failure").Inc()
		} else {
			sum.Succeeded++
			warmupOutcomesTotal.WithLabelValues("success").Inc()
		}
		p.reporter.Report(out)

		if sum.Submitted%100 == 0 {
			p.logger.Info().
				Int("completed", sum.Submitted).
				Int("failed", sum.Failed).
				Msg("Warm-up progress")
		}
	}
	sum.Duration = time.Since(start)

	if err := src.Err(); err != nil {
		p.logger.Warn().
			Err(err).
			Int("submitted", sum.Submitted).
			Msg("Source failed mid-run, returning partial results")
		return sum, fmt.Errorf("source error (partial run: %d requests): %w", sum.Submitted, err)
	}

	p.logger.Info().
		Int("submitted", sum.Submitted).
		Int("succeeded", sum.Succeeded).
		Int("failed", sum.Failed).
		Dur("duration", sum.Duration).
		Msg("Warm-up run complete")

	return sum, nil
}

// worker dispatches requests from the queue one at a time until the queue is
// closed. Holding at most one request per worker is what enforces the
// concurrency cap.
func (p *Pool) worker(ctx context.Context, workerID int, queue <-chan Request, results chan<- Outcome, wg *sync.WaitGroup) {
	defer wg.Done()

	for req := range queue {
		warmupInFlight.Inc()
		res, err := p.dispatcher.Dispatch(ctx, req.Path)
		warmupInFlight.Dec()

		out := Outcome{
			Index:      req.Index,
			Path:       req.Path,
			StatusCode: res.StatusCode,
		}
		if err != nil {
			out.Failed = true
			out.Reason = failureReason(err)
			out.TargetURI = res.TargetURI

			p.logger.Debug().
				Int("worker_id", workerID).
				Int("index", req.Index).
				Str("reason", out.Reason).
				Msg("Request failed")
		}

		results <- out
	}
}

// failureReason extracts the short, stable reason from a dispatch error.
// Errors may expose one via FailureReason(); anything else falls back to the
// error text.
func failureReason(err error) string {
	var r interface{ FailureReason() string }
	if errors.As(err, &r) {
		return r.FailureReason()
	}
	return err.Error()
}

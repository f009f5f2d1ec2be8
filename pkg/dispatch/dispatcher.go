// Package dispatch turns warm-up paths into outbound GET requests against a
// fixed base origin.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Sternrassler/cache-warmer/pkg/warmup"
)

// Prometheus metrics for dispatch operations.
var (
	warmupRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warmup_requests_total",
		Help: "Total warm-up requests by terminal HTTP status",
	}, []string{"status"})

	warmupRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "warmup_request_duration_seconds",
		Help:    "Warm-up request duration in seconds",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	})

	warmupErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warmup_errors_total",
		Help: "Total warm-up request errors by class",
	}, []string{"class"})
)

// Responses are drained (for connection reuse) but never inspected; this cap
// keeps a pathological origin from holding a worker on an endless body.
const maxDrainBytes = 1 << 20

// connection pooling limits sized for a single-origin burst
const (
	defaultMaxIdleConns        = 100
	defaultMaxIdleConnsPerHost = 100
	defaultIdleConnTimeout     = 60 * time.Second
)

// Dispatcher resolves paths against a base origin and performs GET requests
// with the configured User-Agent. Redirects are followed; the status code
// after the final hop is what gets reported. Each request is bounded by the
// per-request timeout. The Dispatcher never retries.
type Dispatcher struct {
	httpClient *http.Client
	baseOrigin *url.URL
	userAgent  string
	timeout    time.Duration
	logger     zerolog.Logger
}

// New creates a Dispatcher from a validated warm-up configuration.
func New(cfg warmup.Config) (*Dispatcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	base, err := url.Parse(cfg.BaseOrigin)
	if err != nil {
		return nil, &warmup.InvalidConfigError{Field: "base_origin", Reason: err.Error()}
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = warmup.DefaultUserAgent()
	}

	return &Dispatcher{
		httpClient: &http.Client{
			// no client-level timeout, each dispatch is bounded via context
			Transport: &http.Transport{
				MaxIdleConns:        defaultMaxIdleConns,
				MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
				IdleConnTimeout:     defaultIdleConnTimeout,
			},
		},
		baseOrigin: base,
		userAgent:  userAgent,
		timeout:    cfg.Timeout,
		logger:     log.With().Str("component", "dispatcher").Logger(),
	}, nil
}

// Dispatch implements warmup.Dispatcher. A terminal status below 400 is a
// success; 4xx/5xx and transport errors return a RequestError whose reason
// surfaces in the outcome.
func (d *Dispatcher) Dispatch(ctx context.Context, path string) (warmup.DispatchResult, error) {
	target := d.resolve(path)
	result := warmup.DispatchResult{TargetURI: target}

	reqCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, target, nil)
	if err != nil {
		warmupErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		return result, &RequestError{
			Reason:    err.Error(),
			TargetURI: target,
			Class:     ErrorClassNetwork,
			Err:       err,
		}
	}
	req.Header.Set("User-Agent", d.userAgent)

	start := time.Now()
	resp, err := d.httpClient.Do(req)
	warmupRequestDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		reqErr := d.classifyTransportError(target, err)
		warmupErrorsTotal.WithLabelValues(string(reqErr.Class)).Inc()

		d.logger.Debug().
			Str("target", target).
			Str("class", string(reqErr.Class)).
			Msg("Request failed")
		return result, reqErr
	}
	defer resp.Body.Close()

	// Drain so the connection returns to the pool; the body itself is of
	// no interest to the warmer.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))

	result.StatusCode = resp.StatusCode
	warmupRequestsTotal.WithLabelValues(fmt.Sprintf("%d", resp.StatusCode)).Inc()

	if resp.StatusCode >= 400 {
		class := ErrorClassClient
		if resp.StatusCode >= 500 {
			class = ErrorClassServer
		}
		warmupErrorsTotal.WithLabelValues(string(class)).Inc()

		d.logger.Debug().
			Str("target", target).
			Int("status", resp.StatusCode).
			Msg("Terminal error status")
		return result, &RequestError{
			Reason:    fmt.Sprintf("status %d", resp.StatusCode),
			TargetURI: target,
			Class:     class,
		}
	}

	return result, nil
}

// resolve joins path with the base origin. Absolute URLs pass through
// untouched so inventories may hand back fully qualified locations.
func (d *Dispatcher) resolve(path string) string {
	ref, err := url.Parse(path)
	if err != nil {
		// Let the request constructor produce the error for the outcome.
		return d.baseOrigin.String() + path
	}
	return d.baseOrigin.ResolveReference(ref).String()
}

// classifyTransportError maps a transport failure to a RequestError,
// reporting timeouts with the stable reason "timeout".
func (d *Dispatcher) classifyTransportError(target string, err error) *RequestError {
	var urlErr *url.Error
	timedOut := errors.Is(err, context.DeadlineExceeded)
	if !timedOut && errors.As(err, &urlErr) && urlErr.Timeout() {
		timedOut = true
	}

	if timedOut {
		return &RequestError{
			Reason:    "timeout",
			TargetURI: target,
			Class:     ErrorClassTimeout,
			Err:       err,
		}
	}

	reason := err.Error()
	if urlErr != nil {
		reason = urlErr.Err.Error()
	}
	return &RequestError{
		Reason:    reason,
		TargetURI: target,
		Class:     ErrorClassNetwork,
		Err:       err,
	}
}

package source

import (
	"context"
	"fmt"

	"github.com/Sternrassler/cache-warmer/pkg/inventory"
	"github.com/Sternrassler/cache-warmer/pkg/warmup"
)

// Sequence is the lazy, single-pass warm-up request sequence consumed by the
// pool. It pulls paths from the inventory one at a time, assigns monotonic
// submission indexes starting at 0, and stops after the configured request
// cap, leaving the rest of the inventory unread. A Sequence is not
// restartable and not safe for concurrent use; the pool advances it from a
// single goroutine.
type Sequence struct {
	iter inventory.PathIterator
	max  int // 0 = unbounded
	next int
	done bool
	err  error
}

// New builds the request sequence for a run. The page-type filter is
// normalized against the catalog first, so a filter matching nothing fails
// here, before any request is dispatched.
func New(ctx context.Context, inv inventory.Inventory, catalog Catalog, cfg warmup.Config) (*Sequence, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pageTypes, err := catalog.Normalize(cfg.PageTypes)
	if err != nil {
		return nil, err
	}

	iter, err := inv.PagePaths(ctx, pageTypes)
	if err != nil {
		return nil, fmt.Errorf("open inventory: %w", err)
	}

	return &Sequence{iter: iter, max: cfg.MaxRequests}, nil
}

// Next implements warmup.Source.
func (s *Sequence) Next(ctx context.Context) (warmup.Request, bool) {
	if s.done {
		return warmup.Request{}, false
	}
	if s.max > 0 && s.next >= s.max {
		s.done = true
		return warmup.Request{}, false
	}
	if !s.iter.Next(ctx) {
		s.done = true
		s.err = s.iter.Err()
		return warmup.Request{}, false
	}

	req := warmup.Request{Index: s.next, Path: s.iter.Val()}
	s.next++
	return req, true
}

// Err implements warmup.Source. It reports an inventory failure once the
// sequence has ended; a nil error means normal exhaustion (or cap reached).
func (s *Sequence) Err() error { return s.err }

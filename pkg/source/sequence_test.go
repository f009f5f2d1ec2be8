package source

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Sternrassler/cache-warmer/pkg/inventory"
	"github.com/Sternrassler/cache-warmer/pkg/warmup"
)

// countingInventory hands out generated paths and records how many were
// actually pulled, so laziness and cap behavior can be asserted.
type countingInventory struct {
	total  int
	pulled int
	err    error // returned after all paths are consumed
}

func (c *countingInventory) PagePaths(_ context.Context, _ []string) (inventory.PathIterator, error) {
	return &countingIterator{inv: c}, nil
}

type countingIterator struct {
	inv *countingInventory
	val string
}

func (it *countingIterator) Next(_ context.Context) bool {
	if it.inv.pulled >= it.inv.total {
		return false
	}
	it.val = fmt.Sprintf("/product-%d", it.inv.pulled)
	it.inv.pulled++
	return true
}

func (it *countingIterator) Val() string { return it.val }

func (it *countingIterator) Err() error {
	if it.inv.pulled >= it.inv.total {
		return it.inv.err
	}
	return nil
}

func seqConfig(maxRequests int) warmup.Config {
	return warmup.Config{
		BaseOrigin:  "http://origin.test",
		Concurrency: 4,
		MaxRequests: maxRequests,
		Timeout:     time.Second,
		PageTypes:   []string{"all"},
	}
}

func drain(t *testing.T, seq *Sequence) []warmup.Request {
	t.Helper()

	var out []warmup.Request
	for {
		req, ok := seq.Next(context.Background())
		if !ok {
			return out
		}
		out = append(out, req)
	}
}

func TestSequence_AssignsMonotonicIndexes(t *testing.T) {
	inv := &countingInventory{total: 5}

	seq, err := New(context.Background(), inv, DefaultCatalog, seqConfig(0))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	reqs := drain(t, seq)
	if len(reqs) != 5 {
		t.Fatalf("expected 5 requests, got %d", len(reqs))
	}
	for i, req := range reqs {
		if req.Index != i {
			t.Errorf("request %d has index %d", i, req.Index)
		}
		if req.Path == "" {
			t.Errorf("request %d has empty path", i)
		}
	}
	if err := seq.Err(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSequence_CapLeavesInventoryUnread(t *testing.T) {
	inv := &countingInventory{total: 50}

	seq, err := New(context.Background(), inv, DefaultCatalog, seqConfig(7))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	reqs := drain(t, seq)
	if len(reqs) != 7 {
		t.Fatalf("expected 7 requests, got %d", len(reqs))
	}
	if inv.pulled != 7 {
		t.Errorf("expected exactly 7 inventory pulls, got %d", inv.pulled)
	}
}

func TestSequence_SinglePass(t *testing.T) {
	inv := &countingInventory{total: 2}

	seq, err := New(context.Background(), inv, DefaultCatalog, seqConfig(0))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	drain(t, seq)
	if _, ok := seq.Next(context.Background()); ok {
		t.Error("exhausted sequence must stay exhausted")
	}
}

func TestSequence_InventoryErrorSurfaces(t *testing.T) {
	scanErr := errors.New("sscan failed")
	inv := &countingInventory{total: 3, err: scanErr}

	seq, err := New(context.Background(), inv, DefaultCatalog, seqConfig(0))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	drain(t, seq)
	if !errors.Is(seq.Err(), scanErr) {
		t.Errorf("expected iterator error, got %v", seq.Err())
	}
}

func TestNew_RejectsEmptyFilterBeforeIteration(t *testing.T) {
	inv := &countingInventory{total: 10}
	cfg := seqConfig(0)
	cfg.PageTypes = []string{"wishlist"}

	_, err := New(context.Background(), inv, DefaultCatalog, cfg)

	var empty *EmptyFilterError
	if !errors.As(err, &empty) {
		t.Fatalf("expected EmptyFilterError, got %v", err)
	}
	if inv.pulled != 0 {
		t.Errorf("filter error must precede any inventory pull, got %d", inv.pulled)
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	inv := &countingInventory{total: 10}
	cfg := seqConfig(0)
	cfg.Concurrency = 0

	_, err := New(context.Background(), inv, DefaultCatalog, cfg)

	var invalid *warmup.InvalidConfigError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidConfigError, got %v", err)
	}
}

func TestSequence_StaticInventoryFilteredTypes(t *testing.T) {
	inv := inventory.NewStatic(map[string][]string{
		"product":  {"/p/sku-1", "/p/sku-2"},
		"category": {"/c/shoes"},
		"cms-page": {"/about"},
	})

	cfg := seqConfig(0)
	cfg.PageTypes = []string{"product", "category"}

	seq, err := New(context.Background(), inv, DefaultCatalog, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	reqs := drain(t, seq)
	if len(reqs) != 3 {
		t.Fatalf("expected 3 requests, got %d", len(reqs))
	}
	for _, req := range reqs {
		if req.Path == "/about" {
			t.Error("cms-page path should be filtered out")
		}
	}
}

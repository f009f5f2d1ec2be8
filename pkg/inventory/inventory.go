// Package inventory provides access to a site's known page inventory.
//
// An Inventory enumerates the paths of all known pages for a set of page
// types. Enumeration is lazy: implementations hand back a PathIterator that
// is advanced one path at a time, so arbitrarily large inventories are never
// materialized in memory. Three backends are provided: a static in-memory
// inventory, a Redis-backed catalog store, and a sitemap crawler.
package inventory

import "context"

// PathIterator walks an inventory one path at a time. The shape mirrors the
// go-redis scan iterator: Next advances and reports whether a value is
// available, Val returns it, and Err reports any failure after Next returned
// false. Iterators are single-pass and not safe for concurrent use.
type PathIterator interface {
	Next(ctx context.Context) bool
	Val() string
	Err() error
}

// Inventory enumerates known page paths for the given page types.
type Inventory interface {
	// PagePaths returns a lazy iterator over the paths of all known pages
	// whose type is in pageTypes. The caller owns the iteration order
	// requirements; implementations make no ordering guarantees.
	PagePaths(ctx context.Context, pageTypes []string) (PathIterator, error)
}

// Static is an in-memory Inventory backed by a map of page type to paths.
// It is used for config-listed path lists and in tests.
type Static struct {
	pages map[string][]string
}

// NewStatic creates a static inventory.
func NewStatic(pages map[string][]string) *Static {
	return &Static{pages: pages}
}

// PagePaths implements Inventory.
func (s *Static) PagePaths(_ context.Context, pageTypes []string) (PathIterator, error) {
	var paths []string
	for _, t := range pageTypes {
		paths = append(paths, s.pages[t]...)
	}
	return &sliceIterator{paths: paths}, nil
}

type sliceIterator struct {
	paths []string
	pos   int
	val   string
}

func (it *sliceIterator) Next(_ context.Context) bool {
	if it.pos >= len(it.paths) {
		return false
	}
	it.val = it.paths[it.pos]
	it.pos++
	return true
}

func (it *sliceIterator) Val() string { return it.val }

func (it *sliceIterator) Err() error { return nil }

// Package source produces the lazy sequence of warm-up requests for a run.
//
// The source applies the page-type filter against the catalog of recognized
// types and then walks the inventory one path at a time, assigning submission
// indexes and honoring the request cap.
package source

import (
	"fmt"
	"strings"
)

// FilterAll is the page-type filter sentinel selecting every recognized type.
const FilterAll = "all"

// Catalog is the fixed set of recognized page types.
type Catalog []string

// DefaultCatalog lists the page types a storefront inventory distinguishes.
var DefaultCatalog = Catalog{"product", "category", "cms-page"}

// EmptyFilterError reports a page-type filter that matched no recognized
// type. It distinguishes a misconfigured filter from an inventory that
// genuinely holds no matching pages, and is surfaced before any request is
// dispatched.
type EmptyFilterError struct {
	Requested []string
}

// Error implements the error interface.
func (e *EmptyFilterError) Error() string {
	if len(e.Requested) == 0 {
		return "page-type filter is empty"
	}
	return fmt.Sprintf("page-type filter matched no recognized type (requested: %s)",
		strings.Join(e.Requested, ", "))
}

// Contains reports whether the catalog recognizes the given page type.
func (c Catalog) Contains(pageType string) bool {
	for _, t := range c {
		if t == pageType {
			return true
		}
	}
	return false
}

// Normalize resolves a requested page-type filter against the catalog.
// The sentinel "all" selects the full catalog. Otherwise unrecognized types
// are silently dropped and duplicates collapsed, preserving request order.
// A filter that resolves to nothing returns an EmptyFilterError.
func (c Catalog) Normalize(requested []string) ([]string, error) {
	for _, t := range requested {
		if t == FilterAll {
			all := make([]string, len(c))
			copy(all, c)
			return all, nil
		}
	}

	var resolved []string
	seen := make(map[string]bool, len(requested))
	for _, t := range requested {
		if !c.Contains(t) || seen[t] {
			continue
		}
		seen[t] = true
		resolved = append(resolved, t)
	}

	if len(resolved) == 0 {
		return nil, &EmptyFilterError{Requested: requested}
	}
	return resolved, nil
}

package inventory

import (
	"context"
	"testing"
)

// drainIterator collects every remaining path from an iterator.
func drainIterator(t *testing.T, it PathIterator) []string {
	t.Helper()

	var out []string
	ctx := context.Background()
	for it.Next(ctx) {
		out = append(out, it.Val())
	}
	if err := it.Err(); err != nil {
		t.Fatalf("iterator error: %v", err)
	}
	return out
}

func TestStatic_PagePaths(t *testing.T) {
	inv := NewStatic(map[string][]string{
		"product":  {"/p/sku-1", "/p/sku-2"},
		"category": {"/c/shoes"},
		"cms-page": {"/about", "/contact"},
	})

	tests := []struct {
		name      string
		pageTypes []string
		want      int
	}{
		{name: "single type", pageTypes: []string{"product"}, want: 2},
		{name: "two types", pageTypes: []string{"product", "cms-page"}, want: 4},
		{name: "unknown type yields nothing", pageTypes: []string{"wishlist"}, want: 0},
		{name: "no types", pageTypes: nil, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it, err := inv.PagePaths(context.Background(), tt.pageTypes)
			if err != nil {
				t.Fatalf("PagePaths: %v", err)
			}
			if got := len(drainIterator(t, it)); got != tt.want {
				t.Errorf("expected %d paths, got %d", tt.want, got)
			}
		})
	}
}

func TestStatic_IteratorIsSinglePass(t *testing.T) {
	inv := NewStatic(map[string][]string{"product": {"/p/sku-1"}})

	it, err := inv.PagePaths(context.Background(), []string{"product"})
	if err != nil {
		t.Fatalf("PagePaths: %v", err)
	}

	drainIterator(t, it)
	if it.Next(context.Background()) {
		t.Error("exhausted iterator must stay exhausted")
	}
}

package source

import (
	"errors"
	"reflect"
	"testing"
)

func TestCatalog_Normalize(t *testing.T) {
	tests := []struct {
		name        string
		requested   []string
		want        []string
		expectEmpty bool
	}{
		{
			name:      "all sentinel yields full catalog",
			requested: []string{"all"},
			want:      []string{"product", "category", "cms-page"},
		},
		{
			name:      "all sentinel wins even when mixed with tags",
			requested: []string{"product", "all"},
			want:      []string{"product", "category", "cms-page"},
		},
		{
			name:      "recognized subset preserved in request order",
			requested: []string{"category", "product"},
			want:      []string{"category", "product"},
		},
		{
			name:      "unrecognized tags silently dropped",
			requested: []string{"product", "wishlist", "category"},
			want:      []string{"product", "category"},
		},
		{
			name:      "duplicates collapsed",
			requested: []string{"product", "product"},
			want:      []string{"product"},
		},
		{
			name:        "empty filter",
			requested:   nil,
			expectEmpty: true,
		},
		{
			name:        "all tags unrecognized",
			requested:   []string{"wishlist", "checkout"},
			expectEmpty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DefaultCatalog.Normalize(tt.requested)

			if tt.expectEmpty {
				var empty *EmptyFilterError
				if !errors.As(err, &empty) {
					t.Fatalf("expected EmptyFilterError, got %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCatalog_NormalizeDoesNotAliasCatalog(t *testing.T) {
	got, err := DefaultCatalog.Normalize([]string{"all"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got[0] = "mutated"
	if DefaultCatalog[0] != "product" {
		t.Error("Normalize must return a copy of the catalog")
	}
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// executeValidateCmd runs the validate command with the given config path
// and returns captured stdout and any error.
func executeValidateCmd(t *testing.T, configPath string) (string, error) {
	t.Helper()

	// capture stdout
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	rootCmd.SetArgs([]string{"validate", "-c", configPath})
	err := rootCmd.Execute()

	// restore stdout
	_ = w.Close()
	os.Stdout = old
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)

	return buf.String(), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "warmer.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestRunValidate_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
base_origin: https://shop.example.com
concurrency: 20
max_requests: 500
page_types: [product, category]
inventory:
  backend: redis
`)

	output, err := executeValidateCmd(t, path)
	if err != nil {
		t.Fatalf("validate command error = %v", err)
	}

	expectedPhrases := []string{
		"Config is valid!",
		"https://shop.example.com",
		"Concurrency:  20",
		"Max requests: 500",
		"product, category",
		"redis",
	}
	for _, phrase := range expectedPhrases {
		if !strings.Contains(output, phrase) {
			t.Errorf("expected output to contain %q, got:\n%s", phrase, output)
		}
	}
}

func TestRunValidate_UnboundedMaxRequests(t *testing.T) {
	path := writeConfig(t, "base_origin: https://shop.example.com\n")

	output, err := executeValidateCmd(t, path)
	if err != nil {
		t.Fatalf("validate command error = %v", err)
	}
	if !strings.Contains(output, "Max requests: unbounded") {
		t.Errorf("expected unbounded max requests, got:\n%s", output)
	}
}

func TestRunValidate_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "negative concurrency",
			content: "base_origin: https://shop.example.com\nconcurrency: -1\n",
		},
		{
			name:    "empty page type filter",
			content: "base_origin: https://shop.example.com\npage_types: [wishlist]\n",
		},
		{
			name:    "missing origin",
			content: "concurrency: 10\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			if _, err := executeValidateCmd(t, path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestRunValidate_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")
	if _, err := executeValidateCmd(t, missing); err == nil {
		t.Error("expected error for missing config file")
	}
}

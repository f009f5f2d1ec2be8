package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Sternrassler/cache-warmer/pkg/config"
	"github.com/Sternrassler/cache-warmer/pkg/source"
)

// validateCmd validates a config file without sending any requests.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a cache-warmer configuration file without sending any requests.

This command parses the YAML, applies defaults, and validates all fields,
including the page-type filter against the recognized page types.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  cache-warmer validate -c warmer.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// A filter that matches nothing is a misconfiguration; catch it here
	// rather than at run time.
	pageTypes, err := source.DefaultCatalog.Normalize(cfg.PageTypes)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	maxRequests := "unbounded"
	if cfg.MaxRequests > 0 {
		maxRequests = fmt.Sprintf("%d", cfg.MaxRequests)
	}

	fmt.Printf("Config is valid!\n")
	fmt.Printf("  Base origin:  %s\n", cfg.BaseOrigin)
	fmt.Printf("  Concurrency:  %d\n", cfg.Concurrency)
	fmt.Printf("  Timeout:      %s\n", cfg.Timeout.Duration())
	fmt.Printf("  Max requests: %s\n", maxRequests)
	fmt.Printf("  Page types:   %s\n", strings.Join(pageTypes, ", "))
	fmt.Printf("  Inventory:    %s\n", cfg.Inventory.Backend)

	return nil
}

// Package main is the entry point for the cache-warmer CLI.
//
// The warmer issues a bounded-concurrency burst of GET requests against a
// site's known pages so a downstream HTTP cache is populated before real
// traffic arrives.
//
// Usage:
//
//	cache-warmer warm -c config.yaml      # Run a warm-up burst
//	cache-warmer validate -c config.yaml  # Validate configuration
//	cache-warmer version                  # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sternrassler/cache-warmer/pkg/warmup"
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "cache-warmer",
	Short: "Pre-warm an HTTP cache from a site's page inventory",
	Long: `cache-warmer pre-warms an HTTP-level cache (e.g. a reverse proxy)
by requesting a site's known pages with a fixed cap on concurrent requests.

Page paths come from a URL inventory backend: a Redis catalog store,
the origin's sitemap, or a static list in the config file.

Quick start:
  1. Create a config file (warmer.yaml)
  2. Run: cache-warmer warm -c warmer.yaml

Example config:
  base_origin: https://shop.example.com
  concurrency: 20
  page_types: [product, category]
  inventory:
    backend: redis
    redis_addr: localhost:6379`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("cache-warmer %s\n", warmup.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

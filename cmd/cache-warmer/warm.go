package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/Sternrassler/cache-warmer/pkg/config"
	"github.com/Sternrassler/cache-warmer/pkg/dispatch"
	"github.com/Sternrassler/cache-warmer/pkg/inventory"
	"github.com/Sternrassler/cache-warmer/pkg/logging"
	"github.com/Sternrassler/cache-warmer/pkg/source"
	"github.com/Sternrassler/cache-warmer/pkg/warmup"
)

// warmCmd runs a single warm-up burst.
var warmCmd = &cobra.Command{
	Use:   "warm",
	Short: "Run a warm-up burst against the configured origin",
	Long: `Run a single warm-up burst: enumerate the page inventory, issue GET
requests with the configured concurrency cap, and log one outcome per page.

The run completes once the inventory is exhausted (or the request cap is
reached) and all in-flight requests have finished. Individual request
failures do not abort the run; with --strict the process exits non-zero
when any request failed.

Interrupting the run (Ctrl+C) stops submitting new requests; requests
already in flight finish or time out and are still reported.

Example:
  cache-warmer warm -c warmer.yaml
  cache-warmer warm -c warmer.yaml --page-types product,category --max-requests 500`,
	RunE: runWarm,
}

func init() {
	rootCmd.AddCommand(warmCmd)

	warmCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	warmCmd.Flags().Int("concurrency", 0, "override: max in-flight requests")
	warmCmd.Flags().Int("max-requests", -1, "override: request cap, 0 = unbounded")
	warmCmd.Flags().StringSlice("page-types", nil, "override: page types to warm")
	warmCmd.Flags().String("user-agent", "", "override: User-Agent header")
	warmCmd.Flags().Bool("strict", false, "exit non-zero if any request failed")
	_ = warmCmd.MarkFlagRequired("config")
}

func runWarm(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyOverrides(cmd, cfg)

	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.Logging.Level),
		Pretty: cfg.Logging.Pretty,
		Output: os.Stderr,
	})

	warmCfg := cfg.Warmup()
	if err := warmCfg.Validate(); err != nil {
		return err
	}

	inv, cleanup, err := buildInventory(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	seq, err := source.New(ctx, inv, source.DefaultCatalog, warmCfg)
	if err != nil {
		return err
	}

	dispatcher, err := dispatch.New(warmCfg)
	if err != nil {
		return err
	}

	outcomeLog := logger.With().Str("component", "reporter").Logger()
	reporter := warmup.ReporterFunc(func(o warmup.Outcome) {
		if o.Failed {
			outcomeLog.Warn().
				Int("index", o.Index).
				Str("path", o.Path).
				Str("reason", o.Reason).
				Str("target", o.TargetURI).
				Msg("Warm-up request failed")
			return
		}
		outcomeLog.Info().
			Int("index", o.Index).
			Str("path", o.Path).
			Int("status", o.StatusCode).
			Msg("Page warmed")
	})

	pool, err := warmup.NewPool(warmCfg, dispatcher, reporter)
	if err != nil {
		return err
	}

	summary, err := pool.Run(ctx, seq)
	if err != nil {
		return err
	}

	strict, _ := cmd.Flags().GetBool("strict")
	if strict && summary.Failed > 0 {
		return fmt.Errorf("%d of %d requests failed", summary.Failed, summary.Submitted)
	}
	return nil
}

// applyOverrides folds command-line overrides into the file configuration.
func applyOverrides(cmd *cobra.Command, cfg *config.Config) {
	if v, _ := cmd.Flags().GetInt("concurrency"); v != 0 {
		cfg.Concurrency = v
	}
	if v, _ := cmd.Flags().GetInt("max-requests"); v >= 0 && cmd.Flags().Changed("max-requests") {
		cfg.MaxRequests = v
	}
	if v, _ := cmd.Flags().GetStringSlice("page-types"); len(v) > 0 {
		cfg.PageTypes = v
	}
	if v, _ := cmd.Flags().GetString("user-agent"); v != "" {
		cfg.UserAgent = v
	}
}

// buildInventory constructs the configured inventory backend. The returned
// cleanup releases any backend connection.
func buildInventory(cfg *config.Config) (inventory.Inventory, func(), error) {
	noop := func() {}

	switch cfg.Inventory.Backend {
	case config.BackendStatic:
		return inventory.NewStatic(cfg.Inventory.Paths), noop, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr: cfg.Inventory.RedisAddr,
			DB:   cfg.Inventory.RedisDB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			client.Close()
			return nil, noop, fmt.Errorf("connect to redis catalog at %s: %w", cfg.Inventory.RedisAddr, err)
		}
		return inventory.NewRedis(client), func() { client.Close() }, nil

	case config.BackendSitemap:
		return inventory.NewSitemap(cfg.BaseOrigin, cfg.Inventory.SitemapURL, cfg.SitemapRules(), nil), noop, nil

	default:
		// Config validation rejects unknown backends before we get here.
		return nil, noop, fmt.Errorf("unknown inventory backend %q", cfg.Inventory.Backend)
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/docforge/internal/enhance"
	"github.com/pdiddy/docforge/internal/manifest"
	"github.com/pdiddy/docforge/internal/orchestrate"
	"github.com/pdiddy/docforge/internal/source"
	"github.com/pdiddy/docforge/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert <source-root> <output-root>",
	Short: "Convert a source tree into validated Markdown",
	Long: `Convert walks source-root, converts every supported document (word
processing, spreadsheet, presentation, HTML, Markdown, plain text) into
canonical Markdown, validates each result, and writes documents, assets,
and per-item reports under output-root. Outcomes are recorded in a
manifest; re-runs skip items whose content has not changed.`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().Int("workers", 0, "concurrent conversion workers (default: number of CPUs)")
	convertCmd.Flags().Int("retry-limit", -1, "additional attempts for transient failures (default 2)")
	convertCmd.Flags().Duration("item-timeout", 0, "per-item processing deadline (default: none)")
	convertCmd.Flags().Bool("dry-run", false, "report planned work without writing output")
	convertCmd.Flags().String("enhance-url", "", "optional content-enhancement service endpoint")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	srcRoot, outRoot := args[0], args[1]

	cfg := convertConfig(cmd)

	store, err := manifest.Open(filepath.Join(outRoot, "manifest"))
	if err != nil {
		return fmt.Errorf("opening manifest: %w", err)
	}
	defer store.Close()

	provider := source.NewFS(srcRoot)
	provider.Exclude = []string{outRoot}

	orch := orchestrate.New(provider, store, outRoot, cfg, os.Stdout)
	if cfg.Enhance.URL != "" {
		orch.Enhancer = enhance.NewHTTP(cfg.Enhance)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	result, err := orch.Run(ctx)
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d item(s) failed conversion", result.Failed)
	}
	return nil
}

// convertConfig resolves the pipeline configuration: flags override
// config-file and environment values.
func convertConfig(cmd *cobra.Command) types.PipelineConfig {
	var cfg types.PipelineConfig

	cfg.Conversion.Workers = viper.GetInt("conversion.workers")
	if n, _ := cmd.Flags().GetInt("workers"); n > 0 {
		cfg.Conversion.Workers = n
	}

	cfg.Conversion.RetryLimit = 2
	if viper.IsSet("conversion.retry_limit") {
		cfg.Conversion.RetryLimit = viper.GetInt("conversion.retry_limit")
	}
	if n, _ := cmd.Flags().GetInt("retry-limit"); n >= 0 {
		cfg.Conversion.RetryLimit = n
	}

	cfg.Conversion.ItemTimeout = viper.GetDuration("conversion.item_timeout")
	if d, _ := cmd.Flags().GetDuration("item-timeout"); d > 0 {
		cfg.Conversion.ItemTimeout = d
	}

	cfg.Conversion.DryRun, _ = cmd.Flags().GetBool("dry-run")

	cfg.Normalize.HeadingCeiling = viper.GetInt("normalize.heading_ceiling")
	if err := viper.UnmarshalKey("normalize.classifications", &cfg.Normalize.Classifications); err != nil {
		fmt.Fprintf(os.Stderr, "ignoring normalize.classifications: %v\n", err)
	}

	cfg.Enhance.URL = viper.GetString("enhance.url")
	if u, _ := cmd.Flags().GetString("enhance-url"); u != "" {
		cfg.Enhance.URL = u
	}
	cfg.Enhance.APIKey = secretDefault("enhance-api-key", viper.GetString("enhance.api_key"))
	cfg.Enhance.Timeout = viper.GetDuration("enhance.timeout")
	if cfg.Enhance.Timeout == 0 {
		cfg.Enhance.Timeout = 60 * time.Second
	}

	return cfg
}

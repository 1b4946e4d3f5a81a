// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/docforge/internal/manifest"
	"github.com/pdiddy/docforge/pkg/types"
)

var statusCmd = &cobra.Command{
	Use:   "status <output-root>",
	Short: "Show the conversion manifest of a previous run",
	Long: `Status reads the manifest under output-root and prints one line per
source item with its status, attempt count, and last error, followed by
per-status totals.`,
	Args: cobra.ExactArgs(1),
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().Bool("json", false, "emit manifest entries as JSON")

	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	outRoot := args[0]

	store, err := manifest.Open(filepath.Join(outRoot, "manifest"))
	if err != nil {
		return fmt.Errorf("opening manifest: %w", err)
	}
	defer store.Close()

	entries, err := store.All(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading manifest: %w", err)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(os.Stdout, "manifest is empty")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-40s %-10s %-8s %s\n", "SOURCE", "STATUS", "ATTEMPTS", "ERROR")
	for _, e := range entries {
		detail := ""
		if e.ErrorKind != "" {
			detail = fmt.Sprintf("%s: %s", e.ErrorKind, e.ErrorMsg)
		}
		fmt.Fprintf(os.Stdout, "%-40s %-10s %-8d %s\n", e.SourceID, e.Status, e.Attempts, detail)
	}

	counts, err := store.Counts(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading manifest counts: %w", err)
	}
	fmt.Fprintf(os.Stdout, "\n%d converted, %d failed, %d skipped (total: %d)\n",
		counts[types.StatusConverted], counts[types.StatusFailed], counts[types.StatusSkipped], len(entries))
	return nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/docforge/internal/normalize"
	"github.com/pdiddy/docforge/internal/validate"
	"github.com/pdiddy/docforge/pkg/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file.md>",
	Short: "Run the validation rules against a single Markdown document",
	Long: `Validate parses a canonical Markdown document (frontmatter included),
runs the full rule set against it, and prints every finding. Asset
references are resolved against an assets/ directory next to the file or
next to its parent directory, matching the published output layout.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	file := args[0]

	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("reading %s: %w", file, err)
	}

	meta, _, err := normalize.Parse(data)
	if err != nil {
		fmt.Fprintf(os.Stdout, "error    [syntax] %v\n", err)
		return fmt.Errorf("%s failed validation", file)
	}

	doc := &types.NormalizedDocument{Markup: string(data), Meta: meta}

	dir := filepath.Dir(file)
	resolver := dirResolver{dirs: []string{dir, filepath.Dir(dir)}}

	report := validate.New().Validate(doc, resolver)
	for _, f := range report.Findings {
		if f.Block >= 0 {
			fmt.Fprintf(os.Stdout, "%-8s [%s] %s (block %d)\n", f.Severity, f.Rule, f.Message, f.Block)
		} else {
			fmt.Fprintf(os.Stdout, "%-8s [%s] %s\n", f.Severity, f.Rule, f.Message)
		}
	}
	fmt.Fprintf(os.Stdout, "status: %s\n", report.Status())

	if report.Status() == types.ReportError {
		return fmt.Errorf("%s failed validation", file)
	}
	return nil
}

// dirResolver resolves asset IDs against assets/ directories on disk.
// Asset files are named <id><ext>, so a glob on the ID prefix suffices.
type dirResolver struct {
	dirs []string
}

func (r dirResolver) Has(id string) bool {
	if id == "" {
		return false
	}
	for _, dir := range r.dirs {
		matches, err := filepath.Glob(filepath.Join(dir, "assets", id+"*"))
		if err == nil && len(matches) > 0 {
			return true
		}
	}
	return false
}

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/valdisz/PyToJs/pkg/report"
	"github.com/valdisz/PyToJs/pkg/transpile"
)

const stdinName = "<stdin>"

// outputPath returns the .js path written next to a Python source.
func outputPath(src string) string {
	return strings.TrimSuffix(src, filepath.Ext(src)) + ".js"
}

func newTranslateCmd(a *app) *cobra.Command {
	var (
		output   string
		showDiff bool
	)
	cmd := &cobra.Command{
		Use:   "translate [file.py|-]",
		Short: "Translate one Python file",
		Long: "Translate one Python file to JavaScript. The result goes to stdout\n" +
			"unless -o is given. Diagnostics go to stderr.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := stdinName
			if len(args) == 1 && args[0] != "-" {
				name = args[0]
			}
			src, err := readSource(cmd, name)
			if err != nil {
				return err
			}

			res, err := a.pipeline.Translate(cmd.Context(), name, src)
			if err != nil {
				return err
			}
			a.stderr.Diagnostics(name, res.Diagnostics)
			if !res.OK {
				return res.Err()
			}

			if showDiff {
				return printDiff(cmd, res, diffTarget(name, output))
			}
			if output == "" {
				_, err := io.WriteString(cmd.OutOrStdout(), res.Output)
				return err
			}
			return writeOutput(output, res.Output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write JavaScript to this file")
	cmd.Flags().BoolVar(&showDiff, "diff", false, "show a diff against the existing .js file instead of writing it")
	return cmd
}

func readSource(cmd *cobra.Command, name string) ([]byte, error) {
	if name == stdinName {
		return io.ReadAll(cmd.InOrStdin())
	}
	src, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return src, nil
}

func diffTarget(name, output string) string {
	if output != "" {
		return output
	}
	if name == stdinName {
		return "out.js"
	}
	return outputPath(name)
}

// printDiff compares res with the file at target. A missing target diffs
// against empty text.
func printDiff(cmd *cobra.Command, res *transpile.Result, target string) error {
	existing, err := os.ReadFile(target)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read %s: %w", target, err)
	}

	unified, stat, err := report.Unified(target, target, string(existing), res.Output)
	if err != nil {
		return fmt.Errorf("diff %s: %w", target, err)
	}
	out := cmd.OutOrStdout()
	if len(unified) == 0 {
		fmt.Fprintf(out, "%s is up to date\n", target)
		return nil
	}
	printerFor(out).Diff(unified)
	fmt.Fprintf(out, "%d added, %d changed, %d deleted\n", stat.Added, stat.Changed, stat.Deleted)
	return nil
}

func writeOutput(path, js string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(js), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// printerFor colors output only when w is a terminal.
func printerFor(w io.Writer) *report.Printer {
	if f, ok := w.(*os.File); ok {
		return report.NewPrinter(f)
	}
	return report.NewPlainPrinter(w)
}

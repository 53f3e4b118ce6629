package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/valdisz/PyToJs/pkg/transpile"
)

func newBatchCmd(a *app) *cobra.Command {
	var (
		workers int
		outDir  string
	)
	cmd := &cobra.Command{
		Use:   "batch <path>...",
		Short: "Translate many files in parallel",
		Long: "Translate every .py file named or found under the given directories.\n" +
			"Each result is written next to its source as .js, or under --out-dir.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := collectSources(args)
			if err != nil {
				return err
			}
			if workers <= 0 {
				workers = a.cfg.Batch.Workers
			}

			results, err := a.pipeline.TranslateBatch(cmd.Context(), sources, workers)
			if err != nil {
				return err
			}

			failed := 0
			for _, fr := range results {
				if !a.writeResult(fr, outDir) {
					failed++
				}
			}
			printerFor(cmd.OutOrStdout()).Summary(len(results)-failed, failed)
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d files", transpile.ErrTranslationFailed, failed, len(results))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "j", 0, "files translated in parallel (default from config)")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "write .js files under this directory")
	return cmd
}

// writeResult reports one batch entry and writes its output. It returns
// false when the file did not translate.
func (a *app) writeResult(fr transpile.FileResult, outDir string) bool {
	if fr.Err != nil {
		a.stderr.Error(fr.Path, fr.Err)
		return false
	}
	a.stderr.Diagnostics(fr.Path, fr.Result.Diagnostics)
	if !fr.Result.OK {
		return false
	}

	target := outputPath(fr.Path)
	if outDir != "" {
		target = filepath.Join(outDir, filepath.Base(target))
	}
	if err := writeOutput(target, fr.Result.Output); err != nil {
		a.stderr.Error(fr.Path, err)
		return false
	}
	return true
}

// collectSources expands directories to the .py files below them. Files
// named explicitly are kept whatever their extension. The result is sorted
// and free of duplicates.
func collectSources(args []string) ([]string, error) {
	seen := make(map[string]struct{})
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			seen[arg] = struct{}{}
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != arg && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) == ".py" {
				seen[path] = struct{}{}
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", arg, err)
		}
	}

	out := make([]string, 0, len(seen))
	for path := range seen {
		out = append(out, path)
	}
	sort.Strings(out)
	return out, nil
}

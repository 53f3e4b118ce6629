package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/valdisz/PyToJs/pkg/logger"
)

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [dir]",
		Short: "Re-translate .py files whenever they change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.watch(ctx, cmd, root)
		},
	}
}

func (a *app) watch(ctx context.Context, cmd *cobra.Command, root string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
	if err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "watching %s\n", root)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			a.handleWatchEvent(ctx, cmd, watcher, event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error", "error", err)
		}
	}
}

func (a *app) handleWatchEvent(ctx context.Context, cmd *cobra.Command, watcher *fsnotify.Watcher, event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := watcher.Add(event.Name); err != nil {
				logger.Warn("Failed to watch directory", "dir", event.Name, "error", err)
			}
			return
		}
	}
	if filepath.Ext(event.Name) != ".py" || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
		return
	}
	logger.LogWatchEvent(event.Name, event.Op.String())

	res, err := a.pipeline.TranslateFile(ctx, event.Name)
	if err != nil {
		a.stderr.Error(event.Name, err)
		return
	}
	a.stderr.Diagnostics(event.Name, res.Diagnostics)
	if !res.OK {
		return
	}
	target := outputPath(event.Name)
	if err := writeOutput(target, res.Output); err != nil {
		a.stderr.Error(event.Name, err)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", event.Name, target)
}

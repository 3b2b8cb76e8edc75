package main

import (
	"context"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"git.weirdcat.su/weirdcat/valuegen/internal/logger"
)

const debounce = 300 * time.Millisecond

func newWatchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [dir]",
		Short: "Regenerate whenever Go sources under dir change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := opts.dir
			if len(args) == 1 {
				root = args[0]
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return watch(ctx, opts, root)
		},
	}
}

func watch(ctx context.Context, opts *options, root string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirs(w, root); err != nil {
		return err
	}
	logger.Info("Watching %s", root)

	pending := make(map[string]bool)
	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = addDirs(w, ev.Name)
					continue
				}
			}
			output := outputName(opts, filepath.Dir(ev.Name))
			if !shouldRegenerate(ev, output) {
				continue
			}
			logger.Debug("Change: %s", ev)
			pending[filepath.Dir(ev.Name)] = true
			timer.Reset(debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warning("Watcher: %v", err)

		case <-timer.C:
			patterns := watchPatterns(pending)
			clear(pending)

			dirOpts := *opts
			dirOpts.dir = root
			if _, err := run(ctx, &dirOpts, patterns, true); err != nil {
				logger.Error("%v", err)
			}
		}
	}
}

// watchPatterns turns changed directories into absolute, sorted package
// patterns. A relative pattern such as example/models would otherwise be
// read as an import path.
func watchPatterns(pending map[string]bool) []string {
	patterns := make([]string, 0, len(pending))
	for dir := range pending {
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
		patterns = append(patterns, dir)
	}
	slices.Sort(patterns)
	return patterns
}

// shouldRegenerate reports whether ev touches a hand-written Go source
func shouldRegenerate(ev fsnotify.Event, output string) bool {
	name := filepath.Base(ev.Name)
	if !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") || name == output {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}

func outputName(opts *options, dir string) string {
	cfg, err := loadConfig(opts, dir)
	if err != nil {
		return ""
	}
	return cfg.Output
}

// addDirs watches root and every directory below it, skipping hidden,
// underscore-prefixed, testdata and vendor directories
func addDirs(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "testdata" || name == "vendor") {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}

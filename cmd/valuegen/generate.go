package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/packages"

	"git.weirdcat.su/weirdcat/valuegen/internal/config"
	"git.weirdcat.su/weirdcat/valuegen/internal/generator"
	"git.weirdcat.su/weirdcat/valuegen/internal/logger"
	"git.weirdcat.su/weirdcat/valuegen/internal/parser"
	"git.weirdcat.su/weirdcat/valuegen/internal/validator"
)

func newGenerateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "generate [packages...]",
		Short: "Generate code for the value types of the given packages",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := run(cmd.Context(), opts, args, true)
			return err
		},
	}
}

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check [packages...]",
		Short: "Report diagnostics without writing files",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := run(cmd.Context(), opts, args, false)
			return err
		},
	}
}

// summary aggregates the outcome of a run
type summary struct {
	mu        sync.Mutex
	packages  int
	generated int
	failed    int
	skipped   int
	written   []string
}

func (s *summary) add(res *generator.Result, written string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.packages++
	s.generated += len(res.Generated)
	s.failed += len(res.Failed)
	s.skipped += len(res.Skipped)
	if written != "" {
		s.written = append(s.written, written)
	}
}

// run loads the packages matching patterns and generates each of them,
// writing output files when write is set
func run(ctx context.Context, opts *options, patterns []string, write bool) (*summary, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()

	logger.Step(1, 3, "Loading packages")
	pkgs, err := parser.LoadPackages(opts.dir, patterns...)
	if err != nil {
		return nil, err
	}
	logger.Progress(start, "Loaded %d packages", len(pkgs))

	workers := opts.workers
	if workers <= 0 {
		cfg, err := loadConfig(opts, opts.dir)
		if err != nil {
			return nil, err
		}
		workers = cfg.Workers
	}

	logger.Step(2, 3, "Generating")
	sum := &summary{}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, pkg := range pkgs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return processPackage(opts, pkg, write, sum)
		})
	}
	if err := g.Wait(); err != nil {
		return sum, err
	}

	logger.Step(3, 3, "Done")
	logger.Stats("Generation Statistics", map[string]any{
		"Packages":        sum.packages,
		"Types generated": sum.generated,
		"Types failed":    sum.failed,
		"Types skipped":   sum.skipped,
		"Files written":   len(sum.written),
	})
	logger.Progress(start, "Finished")

	if sum.failed > 0 {
		return sum, fmt.Errorf("%d value types failed to generate", sum.failed)
	}
	logger.Success("Generated %d value types", sum.generated)
	return sum, nil
}

func processPackage(opts *options, pkg *packages.Package, write bool, sum *summary) error {
	ref := parser.Ref(pkg)
	cfg, err := loadConfig(opts, ref.Dir)
	if err != nil {
		return err
	}

	output := filepath.Join(ref.Dir, cfg.Output)

	requests, diags := parser.ParsePackage(pkg, cfg)
	validator.Report(&diags)
	if len(requests) == 0 {
		logger.Verbose("No value types in %s", ref.Path)
		if write {
			return removeStale(output)
		}
		return nil
	}

	result := validator.NewValidator(requests).Validate()
	diags.Merge(result.Diagnostics)

	res := generator.Generate(ref, requests, cfg, diags)
	validator.Report(&res.Diagnostics)

	var written string
	switch {
	case !write:
	case res.Empty():
		if err := removeStale(output); err != nil {
			return err
		}
	default:
		if err := res.File.Save(output); err != nil {
			return fmt.Errorf("writing %s: %w", output, err)
		}
		written = output
		logger.Info("Wrote %s (%d types)", written, len(res.Generated))
	}

	sum.add(res, written)
	return nil
}

// removeStale deletes a previous output file when nothing generates any
// more. Files that do not start with the generated header are left alone.
func removeStale(path string) error {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	first, err := bufio.NewReader(f).ReadString('\n')
	f.Close()
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	if strings.TrimSpace(first) != generator.Header {
		logger.Warning("Keeping %s: not generated by valuegen", path)
		return nil
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("removing %s: %w", path, err)
	}
	logger.Info("Removed stale %s", path)
	return nil
}

// loadConfig reads --config when given, otherwise the config file of dir
func loadConfig(opts *options, dir string) (*config.Config, error) {
	if opts.configPath != "" {
		return config.Load(opts.configPath)
	}
	return config.Find(dir)
}

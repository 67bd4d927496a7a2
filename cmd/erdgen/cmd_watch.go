package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/syssam/erdgen"
	"github.com/syssam/erdgen/compiler/gen"
	"github.com/syssam/erdgen/compiler/load"
)

// watchCmd re-normalizes a schema file whenever it changes.
func watchCmd(a *app) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "watch <schema file>",
		Short: "Re-normalize a schema file on every change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.settings(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("out") {
				s.outDir = outDir
			}
			b, err := newBuilder(args[0], s, cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return watch(ctx, args[0], b.build, s.logger)
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (default from config, ./generated)")

	return cmd
}

// builder regenerates one schema file through a caching engine.
type builder struct {
	path   string
	engine *erdgen.Engine
	writer *gen.Writer
	out    *printer
	errOut *printer
	logger *slog.Logger
	// last is the cache key of the document written last.
	last string
}

func newBuilder(path string, s *settings, cmd *cobra.Command) (*builder, error) {
	eng, err := erdgen.New(s.opts...)
	if err != nil {
		return nil, err
	}
	return &builder{
		path:   path,
		engine: eng.WithCache(erdgen.NewMemoryCache(), 0),
		writer: gen.NewWriter(s.outDir, s.format).WithInflector(s.inflector).WithWorkers(s.workers),
		out:    newPrinter(cmd.OutOrStdout()),
		errOut: newPrinter(cmd.ErrOrStderr()),
		logger: s.logger,
	}, nil
}

// build writes the normalized schema unless the document did not change
// since the last write. Schema errors are printed, not returned.
func (b *builder) build(ctx context.Context) error {
	doc, err := load.Load(b.path)
	if err != nil {
		return err
	}
	key, err := b.engine.Key(doc)
	if err != nil {
		return err
	}
	if key.String() == b.last {
		b.logger.Debug("schema unchanged", "file", b.path)
		return nil
	}
	sch, r, err := b.engine.Generate(ctx, doc)
	if err != nil {
		if r != nil && r.HasErrors() {
			printResult(b.errOut, b.path, r)
			return nil
		}
		return err
	}
	paths, err := b.writer.Write(ctx, baseName(b.path), sch)
	if err != nil {
		return err
	}
	b.last = key.String()
	b.out.file(b.path)
	for _, p := range paths {
		b.out.success("wrote %s", p)
	}
	stats := b.engine.Stats()
	b.logger.Debug("schema rebuilt", "file", b.path, "cache_hits", stats.Hits, "cache_misses", stats.Misses)
	return nil
}

// watch calls build once, then again whenever path is written, until ctx is
// done. Build failures are logged and do not stop the loop.
func watch(ctx context.Context, path string, build func(context.Context) error, logger *slog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("file watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file on save, so watch its directory.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("file watcher: %w", err)
	}
	rebuild := func() {
		if err := build(ctx); err != nil {
			logger.Error("build failed", "file", path, "error", err)
		}
	}

	rebuild()
	logger.Info("watching", "file", path)
	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			switch {
			case event.Op&(fsnotify.Write|fsnotify.Create) != 0:
				rebuild()
			case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				logger.Warn("schema file removed", "file", path)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		}
	}
}

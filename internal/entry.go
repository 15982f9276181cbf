// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/starford/imgname/internal/apperr"
	"github.com/starford/imgname/internal/codec"
	"github.com/starford/imgname/internal/datesource"
	"github.com/starford/imgname/internal/relocate"
	"github.com/starford/imgname/internal/report"
	"github.com/starford/imgname/internal/storage"
	"github.com/starford/imgname/internal/watch"
)

func newApplication(opts []Option) (*application, error) {
	app := &application{
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if app.store == nil {
		app.store = storage.NewFS()
	}
	return app, nil
}

func (a *application) newLogger() *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: a.config.App.LogLevel}
	var handler slog.Handler = slog.NewTextHandler(a.stderr, handlerOpts)
	if a.config.App.LogFormat == LogFormatJSON {
		handler = slog.NewJSONHandler(a.stderr, handlerOpts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// pipeline resolves, relocates and reports one file at a time.
type pipeline struct {
	resolver *datesource.Resolver
	engine   *relocate.Engine
	printer  *report.Printer
	dryRun   bool
	logger   *slog.Logger
}

func (a *application) newPipeline(logger *slog.Logger) *pipeline {
	resolverOpts := append([]datesource.ResolverOption{datesource.WithLogger(logger)}, a.resolverOpt...)
	return &pipeline{
		resolver: datesource.NewResolver(a.config.Source.ToSource(), resolverOpts...),
		engine:   relocate.NewEngine(a.store, logger),
		printer:  report.NewPrinter(a.stdout, a.config.Relocate.DryRun),
		dryRun:   a.config.Relocate.DryRun,
		logger:   logger,
	}
}

// process handles path. Per-file failures are reported and returned; the
// caller decides whether they stop the batch.
func (p *pipeline) process(mode relocate.Mode, path string) (*relocate.Plan, error) {
	ts, err := p.resolver.Resolve(path)
	if err != nil {
		p.fail(path, err)
		return nil, err
	}

	var plan *relocate.Plan
	if p.dryRun {
		plan, err = p.engine.Plan(mode, path, ts)
	} else {
		plan, err = p.engine.Relocate(mode, path, ts)
	}
	if err != nil {
		p.fail(path, err)
		return plan, err
	}

	p.printer.Relocated(plan)
	return plan, nil
}

func (p *pipeline) fail(path string, err error) {
	p.printer.Failed(path, err)
	p.logger.Warn("file failed", slog.String("path", path), slog.String("error", err.Error()))
}

func (p *pipeline) summary(mode relocate.Mode) report.Stats {
	stats := p.printer.Stats()
	p.logger.Info("Batch finished",
		slog.String("mode", mode.String()),
		slog.Bool("dry_run", p.dryRun),
		slog.Int("total", stats.Total),
		slog.Int("moved", stats.Moved),
		slog.Int("already_placed", stats.AlreadyPlaced),
		slog.Int("failed", stats.Failed))
	return stats
}

// Run relocates every path given with WithArgs, in order, using the mode given
// with WithMode. A failing file does not stop the batch unless it failed
// because a move would have replaced a different file. Run returns
// apperr.ErrAllFailed when no file succeeded.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	if !app.mode.Renames() && !app.mode.Moves() {
		return fmt.Errorf("a relocation mode is required")
	}

	logger := app.newLogger()
	logger.Debug("Configuration loaded",
		slog.String("mode", app.mode.String()),
		slog.String("strategy", string(app.config.Source.Strategy)),
		slog.Int("offset_hours", app.config.Source.OffsetHours),
		slog.Bool("dry_run", app.config.Relocate.DryRun),
		slog.Int("files", len(app.args)))

	p := app.newPipeline(logger)
	for _, path := range app.args {
		if err := ctx.Err(); err != nil {
			p.summary(app.mode)
			return err
		}
		if _, err := p.process(app.mode, path); errors.Is(err, apperr.ErrInvariantViolation) {
			logger.Error("Aborting batch", slog.String("path", path), slog.String("error", err.Error()))
			p.summary(app.mode)
			return err
		}
	}

	if p.summary(app.mode).AllFailed() {
		return apperr.ErrAllFailed
	}
	return nil
}

// GetDate prints the timestamp encoded in each name given with WithArgs.
// Undecodable names are reported, not returned as errors.
func GetDate(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	printer := report.NewPrinter(app.stdout, false)
	for _, name := range app.args {
		ts, ok := codec.Decode(codec.TokenFromName(name))
		if !ok {
			printer.BadFormat(name)
			continue
		}
		printer.Date(name, ts)
	}
	return nil
}

// GetName prints the token for each literal "YYYY:MM:DD HH:MM:SS" timestamp
// given with WithArgs. Unparseable or unencodable literals are reported, not
// returned as errors.
func GetName(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	printer := report.NewPrinter(app.stdout, false)
	for _, literal := range app.args {
		ts, err := codec.ParseLiteral(literal)
		if err != nil {
			printer.BadFormat(literal)
			continue
		}
		token, err := codec.Encode(ts)
		if err != nil {
			printer.BadFormat(literal)
			continue
		}
		printer.Name(literal, token)
	}
	return nil
}

// Watch relocates files arriving in the directory given with WithArgs until
// ctx is cancelled or the process receives SIGINT or SIGTERM.
func Watch(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	if len(app.args) != 1 {
		return fmt.Errorf("watch: exactly one directory is required")
	}
	dir := app.args[0]
	if info, err := os.Stat(dir); err != nil {
		return fmt.Errorf("watch: %w", err)
	} else if !info.IsDir() {
		return fmt.Errorf("watch: %s is not a directory", dir)
	}

	match, err := watch.NewMatcher(app.config.Watch.Include)
	if err != nil {
		return err
	}
	mode, err := relocate.ParseMode(app.config.Watch.Mode)
	if err != nil {
		return err
	}

	logger := app.newLogger()
	p := app.newPipeline(logger)

	wctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	handle := func(path string) ([]string, error) {
		plan, err := p.process(mode, path)
		var produced []string
		if plan != nil {
			for _, m := range plan.Moves {
				produced = append(produced, m.To)
			}
		}
		if errors.Is(err, apperr.ErrInvariantViolation) {
			cancel(err)
		}
		return produced, err
	}

	g, gCtx := errgroup.WithContext(wctx)

	g.Go(func() error {
		defer cancel(nil)
		return watch.Watch(gCtx, dir, match, app.config.Watch.Settle, logger, handle)
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
			cancel(nil)
		case <-gCtx.Done():
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Watcher error", slog.String("error", err.Error()))
		return err
	}

	p.summary(mode)
	if cause := context.Cause(wctx); errors.Is(cause, apperr.ErrInvariantViolation) {
		return cause
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"sync"

	svg2png "github.com/alnah/go-svg2png"
	"github.com/alnah/go-svg2png/internal/config"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput            = errors.New("no input directory specified")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// runConvert orchestrates the batch rasterization.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment) error {
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common.config, env)
	if err != nil {
		return err
	}

	rcfg, err := buildRasterConfig(positionalArgs, flags, cfg)
	if err != nil {
		return err
	}

	tasks, err := svg2png.PlanTasks(rcfg)
	if err != nil {
		return fmt.Errorf("planning conversions: %w", err)
	}

	if len(tasks) == 0 {
		if !flags.common.quiet {
			fmt.Fprintf(env.Stdout, "No %s files found in %s\n", svg2png.VectorExt, rcfg.InputRoot)
		}
		return nil
	}

	batch, closeRasterizer := buildBatch(flags, cfg, rcfg, env)
	defer closeRasterizer()

	report, err := batch.RunTasks(ctx, tasks, rcfg)
	if err != nil {
		return err
	}

	printReport(report, flags.common.quiet, env)
	if len(report.Failed) > 0 {
		return fmt.Errorf("%d conversion(s) failed", len(report.Failed))
	}
	return nil
}

// loadConfig loads the named config (or defaults) and applies env overrides.
func loadConfig(nameOrPath string, env *Environment) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if nameOrPath != "" {
		loaded, err := config.Load(nameOrPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(env.Getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildRasterConfig merges positional args, CLI flags and config into the
// library config. CLI values win over config values.
func buildRasterConfig(args []string, flags *convertFlags, cfg *config.Config) (svg2png.RasterConfig, error) {
	inputRoot := cfg.Input.Root
	if len(args) > 0 {
		inputRoot = args[0]
	}
	if inputRoot == "" {
		return svg2png.RasterConfig{}, ErrNoInput
	}

	outputRoot := cfg.Output.Root
	if flags.output != "" {
		outputRoot = flags.output
	}

	dpi := cfg.Raster.DPI
	if flags.dpi != 0 {
		dpi = flags.dpi
	}

	command := cfg.Raster.Command
	if flags.command != "" {
		command = flags.command
	}

	return svg2png.RasterConfig{
		InputRoot:  inputRoot,
		OutputRoot: outputRoot,
		DPI:        dpi,
		Command:    command,
	}, nil
}

// resolveEngine picks the rasterizer engine: flag > config > command.
func resolveEngine(flagEngine string, cfg *config.Config) string {
	if flagEngine != "" {
		return flagEngine
	}
	if cfg.Raster.Engine != "" {
		return cfg.Raster.Engine
	}
	return config.EngineCommand
}

// buildBatch assembles the Batch with the chosen engine, worker count and a
// progress printer. The returned closer releases engine resources.
func buildBatch(flags *convertFlags, cfg *config.Config, rcfg svg2png.RasterConfig, env *Environment) (*svg2png.Batch, func()) {
	opts := []svg2png.Option{
		svg2png.WithWorkers(resolveWorkers(flags.workers)),
	}

	closer := func() {}
	if resolveEngine(flags.engine, cfg) == config.EngineChrome {
		chrome := svg2png.NewChromeRasterizer()
		opts = append(opts, svg2png.WithRasterizer(chrome))
		closer = func() { _ = chrome.Close() }
	}

	if !flags.common.quiet {
		opts = append(opts, svg2png.WithProgress(newProgressPrinter(flags.common.verbose, env)))
	}

	return svg2png.New(opts...), closer
}

// newProgressPrinter returns a callback printing one line per task.
// Serialized with a mutex so parallel workers don't interleave lines.
func newProgressPrinter(verbose bool, env *Environment) func(svg2png.ConversionTask) {
	var mu sync.Mutex
	return func(task svg2png.ConversionTask) {
		mu.Lock()
		defer mu.Unlock()
		if verbose {
			fmt.Fprintf(env.Stdout, "Converting %s -> %s\n", task.SourcePath, task.DestinationPath)
		} else {
			fmt.Fprintf(env.Stdout, "Converting %s\n", task.RelativePath)
		}
	}
}

// printReport outputs failures and the terminal summary.
func printReport(report *svg2png.BatchReport, quiet bool, env *Environment) {
	for _, r := range report.Failed {
		fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.Task.RelativePath, r.Err)
	}
	if !quiet {
		fmt.Fprintf(env.Stdout, "\n%d total, %d succeeded, %d failed",
			report.Total, report.Succeeded, len(report.Failed))
		if len(report.Skipped) > 0 {
			fmt.Fprintf(env.Stdout, ", %d skipped", len(report.Skipped))
		}
		fmt.Fprintln(env.Stdout)
	}
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means sequential)", ErrInvalidWorkerCount, n)
	}
	if n > maxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, maxWorkers)
	}
	return nil
}

// resolveWorkers maps the flag value to a pool size: 0 keeps the sequential
// reference behavior so progress output and report order are reproducible.
func resolveWorkers(flagWorkers int) int {
	if flagWorkers > 0 {
		return flagWorkers
	}
	return 1
}

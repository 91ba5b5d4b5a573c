package svg2png

import (
	"fmt"
	"io/fs"
)

// Default configuration values.
const (
	DefaultDPI     = 300
	DefaultCommand = "inkscape"
)

// DPI bounds. The upper bound guards against typos like "3000" DPI that
// would make the external tool allocate gigabytes per page.
const (
	MinDPI = 1
	MaxDPI = 2400
)

// RasterConfig describes one batch run. Supplied once at batch start and
// read-only for the run's duration.
type RasterConfig struct {
	InputRoot  string // directory to scan for vector images (required)
	OutputRoot string // directory to mirror into (empty = InputRoot)
	DPI        int    // target resolution (0 = DefaultDPI)
	Command    string // external rasterizer command (empty = DefaultCommand)
}

// withDefaults returns a copy with zero values replaced by defaults.
func (c RasterConfig) withDefaults() RasterConfig {
	if c.OutputRoot == "" {
		c.OutputRoot = c.InputRoot
	}
	if c.DPI == 0 {
		c.DPI = DefaultDPI
	}
	if c.Command == "" {
		c.Command = DefaultCommand
	}
	return c
}

// Validate checks the config after defaults are applied.
// Input root existence is checked separately by Plan, which needs the
// filesystem; Validate is pure.
func (c RasterConfig) Validate() error {
	if c.DPI < MinDPI || c.DPI > MaxDPI {
		return fmt.Errorf("%w: %d (must be between %d and %d)", ErrInvalidDPI, c.DPI, MinDPI, MaxDPI)
	}
	if c.Command == "" {
		return ErrEmptyCommand
	}
	return nil
}

// ConversionTask maps one vector source file to its raster destination.
// Immutable once constructed; created by Plan, consumed by Batch.
type ConversionTask struct {
	SourcePath      string // absolute or as-walked path to the vector file
	RelativePath    string // path relative to the input root
	DestinationPath string // output root + relative path, extension replaced
}

// ConversionResult holds the outcome of a single task.
type ConversionResult struct {
	Task    ConversionTask
	Err     error // nil unless the task ran and failed
	Skipped bool  // task never started (context cancelled before it)
}

// Succeeded reports whether the task ran and completed without error.
func (r ConversionResult) Succeeded() bool { return r.Err == nil && !r.Skipped }

// BatchReport aggregates per-task outcomes for one run. A task lands in
// exactly one bucket: succeeded, failed, or skipped.
type BatchReport struct {
	Total     int
	Succeeded int
	Failed    []ConversionResult // plan order, only failed tasks
	Skipped   []ConversionResult // plan order, tasks that never started
}

// Option configures a Batch.
type Option func(*Batch)

// batchConfig holds internal configuration for Batch.
type batchConfig struct {
	workers  int
	dirPerm  fs.FileMode
	progress func(ConversionTask)
}

// Directory permissions for mirrored output directories.
const defaultDirPerm fs.FileMode = 0o750

// WithRasterizer replaces the default command-based rasterizer.
func WithRasterizer(r Rasterizer) Option {
	return func(b *Batch) {
		b.rasterizer = r
	}
}

// WithWorkers sets the number of parallel workers.
// Panics if n < 1 (programmer error, similar to time.NewTicker).
// The default of 1 preserves the reference sequential behavior.
func WithWorkers(n int) Option {
	if n < 1 {
		panic("svg2png: WithWorkers count must be positive")
	}
	return func(b *Batch) {
		b.cfg.workers = n
	}
}

// WithProgress registers a callback invoked once per task before it is
// processed. Callbacks must be safe for concurrent use when workers > 1.
func WithProgress(fn func(ConversionTask)) Option {
	return func(b *Batch) {
		b.cfg.progress = fn
	}
}

// WithDirPerm overrides the permission bits for created output directories.
func WithDirPerm(perm fs.FileMode) Option {
	return func(b *Batch) {
		b.cfg.dirPerm = perm
	}
}

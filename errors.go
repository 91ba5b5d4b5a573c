package svg2png

import "errors"

// Sentinel errors for library operations.
var (
	// Configuration errors: fatal, reported before any task is produced.
	ErrInputRootNotFound = errors.New("input root does not exist")
	ErrInputRootNotDir   = errors.New("input root is not a directory")
	ErrInvalidDPI        = errors.New("dpi must be a positive integer")
	ErrEmptyCommand      = errors.New("rasterizer command cannot be empty")

	// Tool resolution error: fatal, checked once before the first task.
	ErrToolNotFound = errors.New("rasterizer command not found")

	// Per-task errors: captured into a ConversionResult, never abort the batch.
	ErrCreateDir     = errors.New("failed to create destination directory")
	ErrRasterization = errors.New("rasterization failed")
	ErrMissingOutput = errors.New("rasterizer reported success but produced no output file")

	// Rasterizer backend errors.
	ErrEmptySource    = errors.New("source path cannot be empty")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
)

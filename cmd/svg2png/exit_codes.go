package main

import (
	"errors"
	"os"

	svg2png "github.com/alnah/go-svg2png"
	"github.com/alnah/go-svg2png/internal/config"
	"github.com/alnah/go-svg2png/internal/generate"
)

// Exit codes for the svg2png CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // All conversions succeeded
	ExitGeneral = 1 // General/unexpected error, including partial batch failure
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // Input root missing, permission denied
	ExitTool    = 4 // External rasterizer or script runner problems
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// External tool errors (exit 4)
	if errors.Is(err, svg2png.ErrToolNotFound) ||
		errors.Is(err, svg2png.ErrBrowserConnect) ||
		errors.Is(err, generate.ErrScriptFailed) ||
		errors.Is(err, generate.ErrNoArtifact) {
		return ExitTool
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, svg2png.ErrInputRootNotFound) ||
		errors.Is(err, svg2png.ErrInputRootNotDir) ||
		errors.Is(err, generate.ErrScriptNotFound) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrInvalidDPI) ||
		errors.Is(err, config.ErrInvalidEngine) ||
		errors.Is(err, svg2png.ErrInvalidDPI) ||
		errors.Is(err, svg2png.ErrEmptyCommand) ||
		errors.Is(err, generate.ErrNoSeeds) ||
		errors.Is(err, ErrInvalidWorkerCount) {
		return ExitUsage
	}

	return ExitGeneral
}

package svg2png

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Rasterizer abstracts the rasterization capability so the batch logic does
// not depend on any particular external tool or execution environment.
type Rasterizer interface {
	// Available reports whether the capability can be used at all.
	// Checked once per batch, before the first task.
	Available() error
	// Rasterize converts one vector file to a raster file at the given DPI.
	Rasterize(ctx context.Context, source, dest string, dpi int) error
}

// CommandRunner abstracts command execution to enable testing without real
// subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec.
type ExecRunner struct{}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// CommandRasterizer invokes an external rasterization tool as a subprocess.
// The argument layout follows the Inkscape CLI; any tool accepting the same
// flags can be substituted via Command.
type CommandRasterizer struct {
	Command string
	Runner  CommandRunner
}

// Compile-time interface check.
var _ Rasterizer = (*CommandRasterizer)(nil)

// NewCommandRasterizer creates a CommandRasterizer with a real command runner.
func NewCommandRasterizer(command string) *CommandRasterizer {
	if command == "" {
		command = DefaultCommand
	}
	return &CommandRasterizer{Command: command, Runner: &ExecRunner{}}
}

// Available resolves the command via the execution environment's PATH.
func (c *CommandRasterizer) Available() error {
	if c.Command == "" {
		return ErrEmptyCommand
	}
	if _, err := exec.LookPath(c.Command); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrToolNotFound, c.Command, err)
	}
	return nil
}

// Rasterize converts source to dest at the given DPI. A nonzero exit is
// wrapped in ErrRasterization with the tool's stderr as diagnostic.
func (c *CommandRasterizer) Rasterize(ctx context.Context, source, dest string, dpi int) error {
	if source == "" {
		return ErrEmptySource
	}

	_, stderr, err := c.Runner.Run(ctx, c.Command, rasterArgs(source, dest, dpi)...)
	if err != nil {
		msg := strings.TrimSpace(stderr)
		if msg == "" {
			msg = err.Error()
		}
		return fmt.Errorf("%w: %s", ErrRasterization, msg)
	}
	return nil
}

// rasterArgs builds the fixed, deterministic argument list: source path,
// destination path, target DPI.
func rasterArgs(source, dest string, dpi int) []string {
	return []string{
		"--export-type=png",
		"--export-dpi=" + strconv.Itoa(dpi),
		"--export-filename=" + dest,
		source,
	}
}

// Package generate runs the configured picture scripts that produce the
// vector images consumed by the rasterization batch. Each enabled script is
// run once per seed; the script is expected to leave its drawing at
// <outputDir>/tmp.svg, which is then renamed to <script>_<seed>.svg.
package generate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/alnah/go-svg2png/internal/fileutil"
)

// Defaults for the generation pass.
const (
	DefaultRunner   = "python3"
	artifactName    = "tmp.svg"
	scriptExtension = ".py"
)

// SeedEnvVar carries the seed to the picture script.
const SeedEnvVar = "GEN_SEED"

// Sentinel errors. Generation errors are fatal: a misconfigured script list
// or a script that produced nothing means the whole vector tree is suspect.
var (
	ErrNoSeeds        = errors.New("seed list cannot be empty")
	ErrScriptNotFound = errors.New("picture script not found")
	ErrScriptFailed   = errors.New("picture script failed")
	ErrNoArtifact     = errors.New("picture script produced no output artifact")
)

// CommandRunner abstracts script execution for testing without real
// subprocesses. Defined here so the package stays dependency-light.
type CommandRunner interface {
	Run(ctx context.Context, dir string, env []string, name string, args ...string) error
}

// ExecRunner implements CommandRunner using os/exec. The child inherits the
// parent environment plus the entries in env.
type ExecRunner struct{}

func (r *ExecRunner) Run(ctx context.Context, dir string, env []string, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), env...)
	cmd.Stdout = nil
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Params configures one generation pass.
type Params struct {
	Root       string          // working directory for script runs
	ScriptsDir string          // directory holding the picture scripts
	OutputDir  string          // where scripts deposit tmp.svg
	Runner     string          // interpreter (empty = DefaultRunner)
	Seeds      []int           // one run per enabled script per seed
	Scripts    map[string]bool // script name -> enabled
}

// Generator runs picture scripts.
type Generator struct {
	runner CommandRunner

	// OnRun, if set, is called before each script invocation.
	OnRun func(script string, seed int)
}

// New creates a Generator with a real command runner.
func New() *Generator {
	return &Generator{runner: &ExecRunner{}}
}

// NewWithRunner creates a Generator with an injected runner (tests).
func NewWithRunner(r CommandRunner) *Generator {
	return &Generator{runner: r}
}

// Run executes every enabled script once per seed and returns the paths of
// the generated vector files, in run order. Script names are processed in
// sorted order so output is deterministic for a given config.
func (g *Generator) Run(ctx context.Context, p Params) ([]string, error) {
	if len(p.Seeds) == 0 {
		return nil, ErrNoSeeds
	}
	runner := p.Runner
	if runner == "" {
		runner = DefaultRunner
	}

	if err := os.MkdirAll(p.OutputDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	names := make([]string, 0, len(p.Scripts))
	for name, enabled := range p.Scripts {
		if enabled {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var generated []string
	for _, name := range names {
		scriptPath := filepath.Join(p.ScriptsDir, name+scriptExtension)
		if !fileutil.FileExists(scriptPath) {
			return generated, fmt.Errorf("%w: %s", ErrScriptNotFound, scriptPath)
		}

		for _, seed := range p.Seeds {
			if g.OnRun != nil {
				g.OnRun(name, seed)
			}

			env := []string{SeedEnvVar + "=" + strconv.Itoa(seed)}
			if err := g.runner.Run(ctx, p.Root, env, runner, scriptPath); err != nil {
				return generated, fmt.Errorf("%w: %s (seed %d): %v", ErrScriptFailed, name, seed, err)
			}

			artifact := filepath.Join(p.OutputDir, artifactName)
			if !fileutil.FileExists(artifact) {
				return generated, fmt.Errorf("%w: %s (seed %d): expected %s", ErrNoArtifact, name, seed, artifact)
			}

			target, err := fileutil.RenameKeepExt(artifact, fmt.Sprintf("%s_%d", name, seed))
			if err != nil {
				return generated, fmt.Errorf("renaming artifact for %s (seed %d): %w", name, seed, err)
			}
			generated = append(generated, target)
		}
	}
	return generated, nil
}

// SyncScripts reconciles the configured script map with the scripts actually
// present in scriptsDir: newly found scripts are added as disabled, entries
// whose script vanished are removed. Underscore-prefixed files are helper
// modules, not scripts. Returns the updated map and whether it changed.
func SyncScripts(scriptsDir string, scripts map[string]bool) (map[string]bool, bool, error) {
	entries, err := os.ReadDir(scriptsDir)
	if err != nil {
		return nil, false, fmt.Errorf("reading scripts directory: %w", err)
	}

	present := map[string]bool{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if filepath.Ext(name) != scriptExtension || name[0] == '_' {
			continue
		}
		present[name[:len(name)-len(scriptExtension)]] = true
	}

	updated := make(map[string]bool, len(present))
	changed := false
	for name := range present {
		if enabled, ok := scripts[name]; ok {
			updated[name] = enabled
		} else {
			updated[name] = false
			changed = true
		}
	}
	for name := range scripts {
		if !present[name] {
			changed = true
		}
	}
	return updated, changed, nil
}

package svg2png

import (
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-svg2png/internal/fileutil"
)

// File extensions for the conversion. Matching is case-insensitive on the
// source side; destinations always get the lowercase raster extension.
const (
	VectorExt = ".svg"
	RasterExt = ".png"
)

// Plan validates cfg and returns a lazy sequence of conversion tasks.
//
// The input root is checked eagerly: a missing path yields an error wrapping
// ErrInputRootNotFound, a non-directory ErrInputRootNotDir. The returned
// sequence walks the tree with filepath.WalkDir, which visits entries in
// lexical order, so task order is reproducible across runs on an unchanged
// tree. Each range over the sequence starts a fresh traversal. Traversal
// errors (unreadable directories, files vanishing mid-walk) are yielded as
// the second value and end the sequence.
//
// Plan is read-only: no directories are created here.
func Plan(cfg RasterConfig) (iter.Seq2[ConversionTask, error], error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	info, err := os.Stat(cfg.InputRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInputRootNotFound, cfg.InputRoot)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrInputRootNotDir, cfg.InputRoot)
	}

	seq := func(yield func(ConversionTask, error) bool) {
		walkErr := filepath.WalkDir(cfg.InputRoot, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return fmt.Errorf("scanning %s: %w", path, err)
			}
			if d.IsDir() {
				return nil
			}
			if !strings.EqualFold(filepath.Ext(path), VectorExt) {
				return nil
			}
			task, err := newTask(path, cfg)
			if err != nil {
				return err
			}
			if !yield(task, nil) {
				return filepath.SkipAll
			}
			return nil
		})
		if walkErr != nil {
			yield(ConversionTask{}, walkErr)
		}
	}
	return seq, nil
}

// PlanTasks collects the planned sequence into a slice.
func PlanTasks(cfg RasterConfig) ([]ConversionTask, error) {
	seq, err := Plan(cfg)
	if err != nil {
		return nil, err
	}

	var tasks []ConversionTask
	for task, err := range seq {
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// newTask derives the relative and destination paths for one source file.
func newTask(path string, cfg RasterConfig) (ConversionTask, error) {
	rel, err := filepath.Rel(cfg.InputRoot, path)
	if err != nil {
		return ConversionTask{}, fmt.Errorf("relativizing %s: %w", path, err)
	}
	return ConversionTask{
		SourcePath:      path,
		RelativePath:    rel,
		DestinationPath: filepath.Join(cfg.OutputRoot, fileutil.ReplaceExt(rel, RasterExt)),
	}, nil
}

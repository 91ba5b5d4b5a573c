package svg2png

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/alnah/go-svg2png/internal/fileutil"
)

// Batch drives the rasterization of a planned task sequence.
type Batch struct {
	cfg        batchConfig
	rasterizer Rasterizer
}

// New creates a Batch with default configuration: a command-based rasterizer
// resolved per run from the RasterConfig, one worker, no progress callback.
// Use options to customize behavior (e.g., WithRasterizer, WithWorkers).
func New(opts ...Option) *Batch {
	b := &Batch{
		cfg: batchConfig{
			workers: 1,
			dirPerm: defaultDirPerm,
		},
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Run plans the input tree and processes every task, returning the
// aggregated report. Fatal errors (invalid config, missing input root,
// unresolvable rasterizer command) return a nil report and a non-nil error;
// per-task failures are contained in the report and never abort the run.
func (b *Batch) Run(ctx context.Context, cfg RasterConfig) (*BatchReport, error) {
	tasks, err := PlanTasks(cfg)
	if err != nil {
		return nil, err
	}
	return b.RunTasks(ctx, tasks, cfg)
}

// RunTasks processes an already-planned task slice in order.
//
// The rasterizer command is resolved once, up front, so an unresolvable tool
// fails the whole batch instead of producing one identical failure per task.
// With one worker (the default) tasks are processed strictly sequentially in
// slice order. With more workers each task writes its result to a fixed index
// in a pre-sized slice, so the report order stays slice order regardless of
// worker scheduling.
//
// Tasks that have not started when ctx is cancelled are recorded as skipped,
// neither succeeded nor failed. A task already running when cancellation hits
// fails with the rasterizer's error.
func (b *Batch) RunTasks(ctx context.Context, tasks []ConversionTask, cfg RasterConfig) (*BatchReport, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rast := b.rasterizer
	if rast == nil {
		rast = NewCommandRasterizer(cfg.Command)
	}
	if err := rast.Available(); err != nil {
		return nil, err
	}

	results := make([]ConversionResult, len(tasks))

	concurrency := b.cfg.workers
	if concurrency > len(tasks) {
		concurrency = len(tasks)
	}

	if concurrency <= 1 {
		for i, task := range tasks {
			if ctx.Err() != nil {
				results[i] = ConversionResult{Task: task, Skipped: true}
				continue
			}
			results[i] = b.processTask(ctx, rast, task, cfg.DPI)
		}
	} else {
		var wg sync.WaitGroup
		jobs := make(chan int, len(tasks))

		for w := 0; w < concurrency; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for idx := range jobs {
					if ctx.Err() != nil {
						results[idx] = ConversionResult{Task: tasks[idx], Skipped: true}
						continue
					}
					results[idx] = b.processTask(ctx, rast, tasks[idx], cfg.DPI)
				}
			}()
		}

		for i := range tasks {
			jobs <- i
		}
		close(jobs)
		wg.Wait()
	}

	report := &BatchReport{Total: len(tasks)}
	for _, r := range results {
		switch {
		case r.Skipped:
			report.Skipped = append(report.Skipped, r)
		case r.Err == nil:
			report.Succeeded++
		default:
			report.Failed = append(report.Failed, r)
		}
	}
	return report, nil
}

// processTask runs one task through its full lifecycle: ensure the
// destination directory, invoke the rasterizer, verify the output exists.
// Each task is processed exactly once per run; failures are captured, not
// propagated.
func (b *Batch) processTask(ctx context.Context, rast Rasterizer, task ConversionTask, dpi int) ConversionResult {
	if b.cfg.progress != nil {
		b.cfg.progress(task)
	}

	result := ConversionResult{Task: task}

	outDir := filepath.Dir(task.DestinationPath)
	if err := os.MkdirAll(outDir, b.cfg.dirPerm); err != nil {
		result.Err = fmt.Errorf("%w: %s: %v", ErrCreateDir, outDir, err)
		return result
	}

	if err := rast.Rasterize(ctx, task.SourcePath, task.DestinationPath, dpi); err != nil {
		result.Err = err
		return result
	}

	// External tools are not trusted blindly: a clean exit with no output
	// file is still a failure.
	if !fileutil.FileExists(task.DestinationPath) {
		result.Err = fmt.Errorf("%w: %s", ErrMissingOutput, task.DestinationPath)
	}
	return result
}

package svg2png

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// fakeRasterizer is the in-memory test implementation of the rasterization
// capability. By default it writes the destination file like a real tool.
type fakeRasterizer struct {
	availableErr error
	failFor      map[string]error // source path -> error
	skipOutput   map[string]bool  // source path -> succeed without writing

	mu    sync.Mutex
	calls []rasterCall
}

type rasterCall struct {
	source string
	dest   string
	dpi    int
}

func (f *fakeRasterizer) Available() error { return f.availableErr }

func (f *fakeRasterizer) Rasterize(_ context.Context, source, dest string, dpi int) error {
	f.mu.Lock()
	f.calls = append(f.calls, rasterCall{source: source, dest: dest, dpi: dpi})
	f.mu.Unlock()

	if err := f.failFor[source]; err != nil {
		return err
	}
	if f.skipOutput[source] {
		return nil
	}
	return os.WriteFile(dest, []byte("png"), 0o644)
}

func TestBatchRun(t *testing.T) {
	t.Parallel()

	t.Run("example scenario: two files, dpi 150", func(t *testing.T) {
		t.Parallel()

		tempDir := writeTree(t, map[string]string{
			"a.svg":     "<svg/>",
			"sub/b.svg": "<svg/>",
		})
		fake := &fakeRasterizer{}
		batch := New(WithRasterizer(fake))

		report, err := batch.Run(context.Background(), RasterConfig{InputRoot: tempDir, DPI: 150})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if report.Total != 2 || report.Succeeded != 2 || len(report.Failed) != 0 {
			t.Errorf("report = {total:%d succeeded:%d failed:%d}, want {2, 2, 0}",
				report.Total, report.Succeeded, len(report.Failed))
		}
		for _, call := range fake.calls {
			if call.dpi != 150 {
				t.Errorf("invoked with dpi %d, want 150", call.dpi)
			}
		}
		for _, name := range []string{"a.png", filepath.Join("sub", "b.png")} {
			if _, err := os.Stat(filepath.Join(tempDir, name)); err != nil {
				t.Errorf("expected output %s: %v", name, err)
			}
		}
	})

	t.Run("default dpi is 300", func(t *testing.T) {
		t.Parallel()

		tempDir := writeTree(t, map[string]string{"a.svg": "<svg/>"})
		fake := &fakeRasterizer{}
		batch := New(WithRasterizer(fake))

		if _, err := batch.Run(context.Background(), RasterConfig{InputRoot: tempDir}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(fake.calls) != 1 || fake.calls[0].dpi != DefaultDPI {
			t.Errorf("calls = %+v, want one call with dpi %d", fake.calls, DefaultDPI)
		}
	})

	t.Run("missing input root aborts with zero results", func(t *testing.T) {
		t.Parallel()

		fake := &fakeRasterizer{}
		batch := New(WithRasterizer(fake))

		_, err := batch.Run(context.Background(), RasterConfig{InputRoot: filepath.Join(t.TempDir(), "nope")})
		if !errors.Is(err, ErrInputRootNotFound) {
			t.Errorf("error = %v, want ErrInputRootNotFound", err)
		}
		if len(fake.calls) != 0 {
			t.Errorf("rasterizer was invoked %d times, want 0", len(fake.calls))
		}
	})
}

func TestBatchRunTasks(t *testing.T) {
	t.Parallel()

	t.Run("one failure never aborts the batch", func(t *testing.T) {
		t.Parallel()

		tempDir := writeTree(t, map[string]string{
			"a.svg":     "<svg/>",
			"b.svg":     "<svg/>",
			"sub/c.svg": "<svg/>",
		})
		tasks, err := PlanTasks(RasterConfig{InputRoot: tempDir})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		bad := filepath.Join(tempDir, "b.svg")
		fake := &fakeRasterizer{failFor: map[string]error{
			bad: fmt.Errorf("%w: exit status 1", ErrRasterization),
		}}
		batch := New(WithRasterizer(fake))

		report, err := batch.RunTasks(context.Background(), tasks, RasterConfig{InputRoot: tempDir})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if report.Total != 3 {
			t.Errorf("Total = %d, want 3", report.Total)
		}
		if len(report.Failed) != 1 {
			t.Fatalf("Failed has %d entries, want 1", len(report.Failed))
		}
		if report.Failed[0].Task.SourcePath != bad {
			t.Errorf("failed task = %q, want %q", report.Failed[0].Task.SourcePath, bad)
		}
		if !errors.Is(report.Failed[0].Err, ErrRasterization) {
			t.Errorf("failure error = %v, want ErrRasterization", report.Failed[0].Err)
		}

		// All other tasks still produced raster files.
		for _, name := range []string{"a.png", filepath.Join("sub", "c.png")} {
			if _, err := os.Stat(filepath.Join(tempDir, name)); err != nil {
				t.Errorf("expected output %s: %v", name, err)
			}
		}
	})

	t.Run("unresolvable tool fails fast before any task", func(t *testing.T) {
		t.Parallel()

		tempDir := writeTree(t, map[string]string{"a.svg": "<svg/>", "b.svg": "<svg/>"})
		tasks, err := PlanTasks(RasterConfig{InputRoot: tempDir})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		fake := &fakeRasterizer{availableErr: fmt.Errorf("%w: %q", ErrToolNotFound, "missing")}
		batch := New(WithRasterizer(fake))

		_, err = batch.RunTasks(context.Background(), tasks, RasterConfig{InputRoot: tempDir})
		if !errors.Is(err, ErrToolNotFound) {
			t.Errorf("error = %v, want ErrToolNotFound", err)
		}
		if len(fake.calls) != 0 {
			t.Errorf("rasterizer was invoked %d times, want 0", len(fake.calls))
		}
	})

	t.Run("clean exit without output file is a failure", func(t *testing.T) {
		t.Parallel()

		tempDir := writeTree(t, map[string]string{"a.svg": "<svg/>"})
		tasks, err := PlanTasks(RasterConfig{InputRoot: tempDir})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		fake := &fakeRasterizer{skipOutput: map[string]bool{tasks[0].SourcePath: true}}
		batch := New(WithRasterizer(fake))

		report, err := batch.RunTasks(context.Background(), tasks, RasterConfig{InputRoot: tempDir})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(report.Failed) != 1 || !errors.Is(report.Failed[0].Err, ErrMissingOutput) {
			t.Errorf("failed = %+v, want one ErrMissingOutput", report.Failed)
		}
	})

	t.Run("mirrored directories are created and re-runs are safe", func(t *testing.T) {
		t.Parallel()

		tempDir := writeTree(t, map[string]string{"deep/nested/a.svg": "<svg/>"})
		outDir := filepath.Join(t.TempDir(), "out")
		cfg := RasterConfig{InputRoot: tempDir, OutputRoot: outDir}

		batch := New(WithRasterizer(&fakeRasterizer{}))

		for i := 0; i < 2; i++ {
			report, err := batch.Run(context.Background(), cfg)
			if err != nil {
				t.Fatalf("run %d: unexpected error: %v", i, err)
			}
			if report.Succeeded != 1 {
				t.Errorf("run %d: Succeeded = %d, want 1", i, report.Succeeded)
			}
		}
		if _, err := os.Stat(filepath.Join(outDir, "deep", "nested", "a.png")); err != nil {
			t.Errorf("expected mirrored output: %v", err)
		}
	})

	t.Run("progress fires once per task in plan order", func(t *testing.T) {
		t.Parallel()

		tempDir := writeTree(t, map[string]string{"a.svg": "<svg/>", "b.svg": "<svg/>"})
		tasks, err := PlanTasks(RasterConfig{InputRoot: tempDir})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var seen []string
		batch := New(
			WithRasterizer(&fakeRasterizer{}),
			WithProgress(func(task ConversionTask) {
				seen = append(seen, task.RelativePath)
			}),
		)
		if _, err := batch.RunTasks(context.Background(), tasks, RasterConfig{InputRoot: tempDir}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(seen) != 2 || seen[0] != "a.svg" || seen[1] != "b.svg" {
			t.Errorf("progress order = %v, want [a.svg b.svg]", seen)
		}
	})

	t.Run("cancelled context skips unstarted tasks", func(t *testing.T) {
		t.Parallel()

		tempDir := writeTree(t, map[string]string{
			"a.svg": "<svg/>", "b.svg": "<svg/>", "c.svg": "<svg/>", "d.svg": "<svg/>",
		})
		tasks, err := PlanTasks(RasterConfig{InputRoot: tempDir})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		fake := &fakeRasterizer{}
		batch := New(WithRasterizer(fake), WithWorkers(2))

		report, err := batch.RunTasks(ctx, tasks, RasterConfig{InputRoot: tempDir})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if report.Total != 4 || report.Succeeded != 0 || len(report.Failed) != 0 {
			t.Errorf("report = {total:%d succeeded:%d failed:%d}, want {4, 0, 0}",
				report.Total, report.Succeeded, len(report.Failed))
		}
		if len(report.Skipped) != 4 {
			t.Fatalf("Skipped has %d entries, want 4", len(report.Skipped))
		}
		for i, r := range report.Skipped {
			if !r.Skipped || r.Err != nil {
				t.Errorf("skipped[%d] = %+v, want Skipped with nil Err", i, r)
			}
			if r.Succeeded() {
				t.Errorf("skipped[%d] reports success", i)
			}
			if r.Task != tasks[i] {
				t.Errorf("skipped[%d].Task = %+v, want plan order preserved", i, r.Task)
			}
		}
		if len(fake.calls) != 0 {
			t.Errorf("rasterizer was invoked %d times, want 0", len(fake.calls))
		}
	})

	t.Run("sequential run also skips after cancellation", func(t *testing.T) {
		t.Parallel()

		tempDir := writeTree(t, map[string]string{"a.svg": "<svg/>", "b.svg": "<svg/>"})
		tasks, err := PlanTasks(RasterConfig{InputRoot: tempDir})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		batch := New(WithRasterizer(&fakeRasterizer{}))
		report, err := batch.RunTasks(ctx, tasks, RasterConfig{InputRoot: tempDir})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Succeeded != 0 || len(report.Failed) != 0 || len(report.Skipped) != 2 {
			t.Errorf("report = {succeeded:%d failed:%d skipped:%d}, want {0, 0, 2}",
				report.Succeeded, len(report.Failed), len(report.Skipped))
		}
	})

	t.Run("worker pool preserves report order", func(t *testing.T) {
		t.Parallel()

		files := map[string]string{}
		for i := 0; i < 8; i++ {
			files[fmt.Sprintf("f%d.svg", i)] = "<svg/>"
		}
		tempDir := writeTree(t, files)
		tasks, err := PlanTasks(RasterConfig{InputRoot: tempDir})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		bad := filepath.Join(tempDir, "f3.svg")
		fake := &fakeRasterizer{failFor: map[string]error{
			bad: fmt.Errorf("%w: exit status 1", ErrRasterization),
		}}
		batch := New(WithRasterizer(fake), WithWorkers(4))

		report, err := batch.RunTasks(context.Background(), tasks, RasterConfig{InputRoot: tempDir})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if report.Total != 8 || report.Succeeded != 7 {
			t.Errorf("report = {total:%d succeeded:%d}, want {8, 7}", report.Total, report.Succeeded)
		}
		if len(report.Failed) != 1 || report.Failed[0].Task.SourcePath != bad {
			t.Errorf("failed = %+v, want exactly f3.svg", report.Failed)
		}
	})
}

func TestWithWorkersPanicsOnZero(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("expected panic for WithWorkers(0)")
		}
	}()
	WithWorkers(0)
}

// Package svg2png batch-converts directory trees of SVG files to PNG at a
// fixed resolution, preserving the source directory structure.
//
// # Quick Start
//
// Plan and run a batch with the defaults (inkscape on PATH, 300 DPI):
//
//	batch := svg2png.New()
//	report, err := batch.Run(ctx, svg2png.RasterConfig{InputRoot: "output"})
//	if err != nil {
//	    log.Fatal(err) // invalid config or rasterizer not found
//	}
//	if len(report.Failed) > 0 {
//	    log.Printf("%d of %d conversions failed", len(report.Failed), report.Total)
//	}
//
// Plan produces tasks lazily in lexical walk order, so results are
// reproducible across runs on an unchanged tree. One task's failure never
// aborts the batch: every failure is captured into the report.
//
// # Rasterizer Backends
//
// The external tool is pluggable through the Rasterizer interface.
// CommandRasterizer shells out to an Inkscape-compatible CLI;
// ChromeRasterizer renders in headless Chrome via go-rod and needs no
// external tool beyond a Chromium binary (downloaded automatically on first
// run). Tests inject in-memory fakes.
//
//	batch := svg2png.New(svg2png.WithRasterizer(svg2png.NewChromeRasterizer()))
//
// # Parallel Processing
//
// Tasks are independent, so the batch may fan out across workers without
// changing the report order:
//
//	batch := svg2png.New(svg2png.WithWorkers(4))
package svg2png

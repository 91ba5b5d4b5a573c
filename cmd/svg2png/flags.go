package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// maxWorkers bounds the parallel worker count. Rasterizer processes are
// CPU- and memory-hungry; more than this just thrashes.
const maxWorkers = 32

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common  commonFlags
	output  string
	dpi     int
	command string
	engine  string
	workers int
}

// generateFlags holds all flags for the generate command.
type generateFlags struct {
	common commonFlags
	raster bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show source and destination per file")
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string) (*convertFlags, []string, error) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	f := &convertFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output directory (default: input root)")
	fs.IntVarP(&f.dpi, "dpi", "d", 0, "target resolution in DPI (0 = config or 300)")
	fs.StringVar(&f.command, "command", "", "external rasterizer command (default: config or inkscape)")
	fs.StringVar(&f.engine, "engine", "", "rasterizer engine: command, chrome")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = sequential)")
	addCommonFlags(fs, &f.common)

	fs.Usage = func() { printConvertUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}

// parseGenerateFlags parses generate command flags and returns positional args.
func parseGenerateFlags(args []string) (*generateFlags, []string, error) {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	f := &generateFlags{}

	fs.BoolVar(&f.raster, "raster", false, "rasterize the generated files afterwards")
	addCommonFlags(fs, &f.common)

	fs.Usage = func() { printGenerateUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}

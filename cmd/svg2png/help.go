package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: svg2png <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Batch-convert SVG trees to PNG")
	fmt.Fprintln(w, "  generate   Run the configured picture scripts")
	fmt.Fprintln(w, "  scripts    Manage the picture-script config (sync)")
	fmt.Fprintln(w, "  doctor     Check rasterizer availability")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'svg2png help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: svg2png convert <input-dir> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Recursively convert every .svg under <input-dir> to .png, mirroring")
	fmt.Fprintln(w, "the directory structure. Existing .png files are overwritten.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input-dir    Directory to scan (optional if config has input.root)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <dir>    Output directory (default: input dir)")
	fmt.Fprintln(w, "  -d, --dpi <n>         Target resolution in DPI (default: 300)")
	fmt.Fprintln(w, "      --command <s>     External rasterizer command (default: inkscape)")
	fmt.Fprintln(w, "      --engine <s>      Rasterizer engine: command, chrome")
	fmt.Fprintln(w, "  -w, --workers <n>     Parallel workers (0 = sequential)")
	fmt.Fprintln(w, "  -c, --config <name>   Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet           Only show errors")
	fmt.Fprintln(w, "  -v, --verbose         Show source and destination per file")
}

// printGenerateUsage prints usage for the generate command.
func printGenerateUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: svg2png generate [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run every enabled picture script once per configured seed. Each run")
	fmt.Fprintln(w, "must leave tmp.svg in the output directory; it is renamed to")
	fmt.Fprintln(w, "<script>_<seed>.svg.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --raster          Rasterize the generated files afterwards")
	fmt.Fprintln(w, "  -c, --config <name>   Config file name or path (default: config)")
	fmt.Fprintln(w, "  -q, --quiet           Only show errors")
	fmt.Fprintln(w, "  -v, --verbose         Show source and destination per file")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "generate":
		printGenerateUsage(env.Stdout)
	case "scripts":
		fmt.Fprintln(env.Stdout, "Usage: svg2png scripts sync [-c config]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Reconcile generate.scripts in the config file with the scripts")
		fmt.Fprintln(env.Stdout, "directory: new scripts are added disabled, vanished ones removed.")
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: svg2png doctor [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check that a rasterizer engine is available.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: svg2png version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: svg2png help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}

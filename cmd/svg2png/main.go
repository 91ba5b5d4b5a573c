package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Load .env if present so SVG2PNG_* overrides apply (ignore errors).
	_ = godotenv.Load()

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))

	env := DefaultEnv()
	os.Exit(run(context.Background(), os.Args[1:], env))
}

// run dispatches to the subcommand and returns the process exit code.
func run(ctx context.Context, args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	switch args[0] {
	case "convert":
		flags, positional, err := parseConvertFlags(args[1:])
		if err != nil {
			return ExitUsage
		}
		if err := runConvert(ctx, positional, flags, env); err != nil {
			fmt.Fprintln(env.Stderr, err)
			return exitCodeFor(err)
		}
		return ExitSuccess

	case "generate":
		flags, _, err := parseGenerateFlags(args[1:])
		if err != nil {
			return ExitUsage
		}
		if err := runGenerate(ctx, flags, env); err != nil {
			fmt.Fprintln(env.Stderr, err)
			return exitCodeFor(err)
		}
		return ExitSuccess

	case "scripts":
		if len(args) < 2 || args[1] != "sync" {
			runHelp([]string{"scripts"}, env)
			return ExitUsage
		}
		flags, _, err := parseGenerateFlags(args[2:])
		if err != nil {
			return ExitUsage
		}
		if err := runScriptsSync(&flags.common, env); err != nil {
			fmt.Fprintln(env.Stderr, err)
			return exitCodeFor(err)
		}
		return ExitSuccess

	case "doctor":
		return runDoctorCmd(args[1:], env)

	case "version", "--version":
		fmt.Fprintf(env.Stdout, "svg2png %s\n", Version)
		return ExitSuccess

	case "help", "--help", "-h":
		runHelp(args[1:], env)
		return ExitSuccess

	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
}

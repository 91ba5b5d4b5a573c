package main

import (
	"context"
	"fmt"

	"github.com/alnah/go-svg2png/internal/config"
	"github.com/alnah/go-svg2png/internal/generate"
)

// Defaults used when the config leaves the generation layout unset.
// They mirror the conventional project layout: picture scripts in
// pic_scripts/, vector output in output/.
const (
	defaultScriptsDir = "pic_scripts"
	defaultOutputDir  = "output"
	defaultConfigName = "config"
)

// runGenerate runs the configured picture scripts, then optionally
// rasterizes the freshly generated tree.
func runGenerate(ctx context.Context, flags *generateFlags, env *Environment) error {
	configName := flags.common.config
	if configName == "" {
		configName = defaultConfigName
	}

	cfg, err := config.Load(configName)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.ApplyEnv(env.Getenv); err != nil {
		return err
	}

	outputDir := cfg.Input.Root
	if outputDir == "" {
		outputDir = defaultOutputDir
	}
	scriptsDir := cfg.Generate.ScriptsDir
	if scriptsDir == "" {
		scriptsDir = defaultScriptsDir
	}

	gen := generate.New()
	if !flags.common.quiet {
		gen.OnRun = func(script string, seed int) {
			fmt.Fprintf(env.Stdout, "Generating %s (seed %d)\n", script, seed)
		}
	}

	generated, err := gen.Run(ctx, generate.Params{
		Root:       ".",
		ScriptsDir: scriptsDir,
		OutputDir:  outputDir,
		Runner:     cfg.Generate.Runner,
		Seeds:      cfg.Generate.Seeds,
		Scripts:    cfg.Generate.Scripts,
	})
	if err != nil {
		return err
	}

	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Generated %d vector file(s) in %s\n", len(generated), outputDir)
	}

	if !flags.raster {
		return nil
	}

	// The chained conversion must see the same config file, including when
	// the name was defaulted above, so raster.* settings keep applying.
	convFlags := &convertFlags{common: flags.common}
	convFlags.common.config = configName
	return runConvert(ctx, []string{outputDir}, convFlags, env)
}

// runScriptsSync reconciles the config's generate.scripts map with the
// scripts present on disk and rewrites the config file if anything changed.
func runScriptsSync(flags *commonFlags, env *Environment) error {
	configName := flags.config
	if configName == "" {
		configName = defaultConfigName
	}

	cfg, path, err := config.LoadWithPath(configName)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	scriptsDir := cfg.Generate.ScriptsDir
	if scriptsDir == "" {
		scriptsDir = defaultScriptsDir
	}

	updated, changed, err := generate.SyncScripts(scriptsDir, cfg.Generate.Scripts)
	if err != nil {
		return err
	}

	if !changed {
		if !flags.quiet {
			fmt.Fprintf(env.Stdout, "%s already in sync with %s\n", path, scriptsDir)
		}
		return nil
	}

	cfg.Generate.Scripts = updated
	if err := config.Save(cfg, path); err != nil {
		return err
	}
	if !flags.quiet {
		fmt.Fprintf(env.Stdout, "Updated %s (%d script(s) tracked)\n", path, len(updated))
	}
	return nil
}

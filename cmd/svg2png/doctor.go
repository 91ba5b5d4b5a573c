package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"

	svg2png "github.com/alnah/go-svg2png"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status     string // "ready", "warnings", "errors"
	Command    string
	CommandOK  bool
	CommandVer string
	ChromeOK   bool
	ChromePath string
	TempOK     bool
	Warnings   []string
	Errors     []string
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	command := svg2png.DefaultCommand
	if len(args) > 0 {
		command = args[0]
	}
	if v := env.Getenv("SVG2PNG_COMMAND"); v != "" {
		command = v
	}

	result := runDoctor(command)
	printDoctorResult(env.Stdout, result)

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(command string) *doctorResult {
	result := &doctorResult{Status: "ready", Command: command}

	checkCommand(result)
	checkChrome(result)
	checkTemp(result)

	// At least one usable engine is required; the other missing is only a
	// warning.
	if !result.CommandOK && !result.ChromeOK {
		result.Errors = append(result.Errors,
			fmt.Sprintf("no usable engine: %q not on PATH and no Chrome/Chromium found", command))
	}

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}
	return result
}

// checkCommand verifies the external rasterizer is resolvable and grabs its
// version banner.
func checkCommand(result *doctorResult) {
	path, err := exec.LookPath(result.Command)
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%q not found on PATH (command engine unavailable)", result.Command))
		return
	}
	result.CommandOK = true

	out, err := exec.Command(path, "--version").Output()
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("could not get %s version: %v", result.Command, err))
		return
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	result.CommandVer = firstLine
}

// checkChrome detects a Chrome/Chromium installation for the chrome engine.
func checkChrome(result *doctorResult) {
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		if _, err := os.Stat(bin); err == nil {
			result.ChromeOK = true
			result.ChromePath = bin
			return
		}
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("ROD_BROWSER_BIN set but not found: %s", bin))
		return
	}
	if path, found := launcher.LookPath(); found {
		result.ChromeOK = true
		result.ChromePath = path
	}
}

// checkTemp verifies the temp directory is writable (used by the chrome
// engine and by rasterizers that stage output).
func checkTemp(result *doctorResult) {
	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, "svg2png-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("temp directory not writable: %s", tmpDir))
		return
	}
	_ = os.Remove(testFile)
	result.TempOK = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "svg2png doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Command engine")
	if r.CommandOK {
		fmt.Fprintf(w, "  [OK] %s found\n", r.Command)
		if r.CommandVer != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.CommandVer)
		}
	} else {
		fmt.Fprintf(w, "  [WARN] %s not found\n", r.Command)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome engine")
	if r.ChromeOK {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.ChromePath)
	} else {
		fmt.Fprintln(w, "  [WARN] No Chrome/Chromium (rod will download one on first use)")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if r.TempOK {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}
	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to convert")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

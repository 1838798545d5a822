// Command nullinfer runs the nullability inference engine over a Go
// package, as a demo host built on internal/gosem. Real hosts (a C#, Java,
// Kotlin, or TypeScript toolchain) would instead implement
// internal/semantic.Model and internal/engine.Source for their own
// language; this CLI exists to exercise the whole pipeline end to end
// against real, type-checked source without needing one.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/nullaware/nullinfer/internal/config"
	"github.com/nullaware/nullinfer/internal/engine"
	"github.com/nullaware/nullinfer/internal/gosem"
	"github.com/nullaware/nullinfer/internal/semantic"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: nullinfer [-dir DIR] [-config FILE] [-history FILE] [-debug] PATTERN")
	fmt.Fprintln(os.Stderr, "  PATTERN is a Go package pattern, e.g. ./... or ./internal/...")
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "internal error: %v\n", r)
			os.Exit(1)
		}
	}()

	var dir, configPath, historyPath string
	var debugMode bool
	var pattern string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; {
		case arg == "-debug" || arg == "--debug":
			debugMode = true
		case arg == "-dir" && i+1 < len(args):
			i++
			dir = args[i]
		case arg == "-config" && i+1 < len(args):
			i++
			configPath = args[i]
		case arg == "-history" && i+1 < len(args):
			i++
			historyPath = args[i]
		case strings.HasPrefix(arg, "-"):
			fmt.Fprintf(os.Stderr, "unknown flag %q\n", arg)
			usage()
			os.Exit(2)
		default:
			pattern = arg
		}
	}

	if pattern == "" {
		usage()
		os.Exit(2)
	}
	if dir == "" {
		dir = "."
	}

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "nullinfer: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	colorOut := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

	result, err := run(dir, pattern, cfg, debugMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "nullinfer: %v\n", err)
		os.Exit(1)
	}

	printResult(os.Stdout, result, colorOut)

	if historyPath != "" {
		h, err := OpenHistory(historyPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "nullinfer: %v\n", err)
			os.Exit(1)
		}
		defer h.Close()

		startedAt := result.StartedAt.AsTime().Format(time.RFC3339)
		finishedAt := result.FinishedAt.AsTime().Format(time.RFC3339)
		if err := h.Record(context.Background(), result.RunID, pattern, len(result.Diagnostics), result.MaxFlow, startedAt, finishedAt); err != nil {
			fmt.Fprintf(os.Stderr, "nullinfer: recording history: %v\n", err)
		}
	}
}

func run(dir, pattern string, cfg config.Config, debug bool) (*engine.Result, error) {
	pkgs, err := gosem.Load(dir, pattern)
	if err != nil {
		return nil, err
	}
	model := gosem.NewModel(pkgs)
	source := gosem.NewSource(pkgs)

	e := engine.New(model, source)
	e.Config = cfg
	if debug {
		e.Progress = func(stage string, _ semantic.TranslationUnit) {
			fmt.Fprintf(os.Stderr, "nullinfer: stage %s\n", stage)
		}
	}

	return e.Analyze(context.Background())
}

func printResult(w *os.File, result *engine.Result, color bool) {
	bold := func(s string) string { return s }
	if color {
		bold = func(s string) string { return "\x1b[1m" + s + "\x1b[0m" }
	}

	if len(result.Diagnostics) == 0 {
		fmt.Fprintln(w, bold("no nullability diagnostics found"))
	}
	for _, d := range result.Diagnostics {
		fmt.Fprintf(w, "%s:%d:%d: %s: %s\n", d.Position.File, d.Position.Line, d.Position.Column, d.Severity, d.Message)
	}
	fmt.Fprintf(w, bold("max flow: %d, diagnostics: %d\n"), result.MaxFlow, len(result.Diagnostics))
}

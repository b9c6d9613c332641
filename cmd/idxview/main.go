// Package main is the entry point for idxview, an interactive terminal view
// of the indexed tree that shows rotations as values are added and removed.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dshills/idxtree/internal/config"
	"github.com/dshills/idxtree/internal/logging"
	"github.com/dshills/idxtree/internal/render"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Environ(), os.Stderr))
}

func run(args, environ []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("idxview", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to configuration file")
	seed := fs.Int64("seed", 0, "Seed for random insertions")
	initial := fs.Int("initial", 0, "Number of values appended at startup")
	mono := fs.Bool("mono", false, "Draw without colour")
	logFile := fs.String("log", "", "Write debug log to this file")
	showVersion := fs.Bool("version", false, "Show version information")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "idxview - watch the indexed AVL tree rebalance\n\n")
		fmt.Fprintf(stderr, "Usage: idxview [options]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nKeys:\n%s\n", keyHelp)
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if *showVersion {
		fmt.Fprintf(stderr, "idxview %s (commit %s, built %s)\n", version, commit, date)
		return 0
	}

	cfg, err := config.Load(*configPath)
	if err == nil {
		err = config.ApplyEnv(&cfg, environ)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			cfg.View.Seed = *seed
		case "initial":
			cfg.View.Initial = *initial
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	// The screen owns the terminal, so logs go to a file or nowhere.
	log := logging.Null()
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		defer f.Close()
		log = logging.New(logging.Config{Level: logging.LevelDebug, Output: f, Prefix: "idxview"})
	}

	term, err := render.NewTerminal()
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := term.Init(); err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize terminal: %v\n", err)
		return 1
	}
	defer term.Shutdown()

	v := newViewer(cfg.View.Seed, cfg.View.Initial, log)
	v.mono = *mono
	v.loop(term)
	return 0
}

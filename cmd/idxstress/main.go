// Package main is the entry point for idxstress, which drives randomized or
// Lua-scripted workloads through the indexed tree and reports the result.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/dshills/idxtree/internal/config"
	"github.com/dshills/idxtree/internal/logging"
	"github.com/dshills/idxtree/internal/script"
	"github.com/dshills/idxtree/internal/watcher"
	"github.com/dshills/idxtree/internal/workload"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// errHelp signals that usage or version output was requested.
var errHelp = errors.New("help requested")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Environ(), os.Stdout, os.Stderr))
}

// options holds parsed flags. set records which flags were given so only
// those override the config file.
type options struct {
	configPath string
	seed       int64
	ops        int
	maxSize    int
	checkEvery int
	script     string
	watch      bool
	report     string
	logLevel   string
	version    bool

	set map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("idxstress", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	fs.Int64Var(&opts.seed, "seed", 0, "Workload seed (0 picks one from the clock)")
	fs.IntVar(&opts.ops, "ops", 0, "Number of operations to run")
	fs.IntVar(&opts.maxSize, "max-size", 0, "Soft cap on sequence length")
	fs.IntVar(&opts.checkEvery, "check-every", 0, "Full invariant check every N operations")
	fs.StringVar(&opts.script, "script", "", "Run a Lua script instead of the random workload")
	fs.BoolVar(&opts.watch, "watch", false, "Rerun the script whenever it changes")
	fs.StringVar(&opts.report, "report", "", "Write the JSON report to this file (- for stdout)")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.BoolVar(&opts.version, "version", false, "Show version information")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "idxstress - verify the indexed AVL tree under load\n\n")
		fmt.Fprintf(stderr, "Usage: idxstress [options]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  idxstress -seed 42 -ops 1000000      Random workload\n")
		fmt.Fprintf(stderr, "  idxstress -script drain.lua -watch   Rerun a script on save\n")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, errHelp
		}
		return opts, err
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	opts.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	return opts, nil
}

// loadConfig layers defaults, the config file, the environment and flags.
func loadConfig(opts options, environ []string) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return cfg, err
	}
	if err := config.ApplyEnv(&cfg, environ); err != nil {
		return cfg, err
	}

	if opts.set["seed"] {
		cfg.Workload.Seed = opts.seed
	}
	if opts.set["ops"] {
		cfg.Workload.Ops = opts.ops
	}
	if opts.set["max-size"] {
		cfg.Workload.MaxSize = opts.maxSize
	}
	if opts.set["check-every"] {
		cfg.Workload.CheckEvery = opts.checkEvery
	}
	if opts.set["script"] {
		cfg.Script.Path = opts.script
	}
	if opts.set["watch"] {
		cfg.Script.Watch = opts.watch
	}
	if opts.set["report"] {
		cfg.Report.Path = opts.report
	}
	if opts.set["log-level"] {
		cfg.Log.Level = opts.logLevel
	}

	if cfg.Script.Watch && cfg.Script.Path == "" {
		return cfg, fmt.Errorf("%w: watch needs a script path", config.ErrInvalidConfig)
	}
	return cfg, cfg.Validate()
}

func run(ctx context.Context, args, environ []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, errHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	if opts.version {
		fmt.Fprintf(stdout, "idxstress %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return 0
	}

	cfg, err := loadConfig(opts, environ)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	log := logging.New(logging.Config{Level: cfg.LogLevel(), Output: stderr, Prefix: "idxstress"})
	out := reportWriter{cfg: cfg.Report, stdout: stdout}

	if cfg.Script.Path == "" {
		res, _ := runWorkload(ctx, cfg, log)
		return out.write(res, log)
	}

	code := out.write(runScript(ctx, cfg, log), log)
	if !cfg.Script.Watch {
		return code
	}
	return watchScript(ctx, cfg, log, out)
}

func runWorkload(ctx context.Context, cfg config.Config, log *logging.Logger) (workload.Result, error) {
	w := cfg.Workload
	seed := w.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	mix := workload.Mix{Insert: w.Mix.Insert, Remove: w.Mix.Remove, Set: w.Mix.Set, Get: w.Mix.Get}

	log.Info("running %d ops with seed %d", w.Ops, seed)
	runner := workload.NewRunner(workload.Options{CheckEvery: w.CheckEvery, Logger: log})
	res, err := runner.Run(ctx, workload.NewGenerator(seed, mix, w.MaxSize), w.Ops)
	res.Seed = seed
	res.Name = fmt.Sprintf("seed-%d", seed)
	return res, err
}

func runScript(ctx context.Context, cfg config.Config, log *logging.Logger) workload.Result {
	res, _ := script.RunFile(ctx, cfg.Script.Path, script.Options{
		Timeout:          cfg.ScriptTimeout(),
		InstructionLimit: cfg.Script.InstructionLimit,
		Verify:           cfg.Script.Verify,
		Logger:           log,
	})
	return res
}

// watchScript reruns the script on every change until ctx is done.
func watchScript(ctx context.Context, cfg config.Config, log *logging.Logger, out reportWriter) int {
	w, err := watcher.New(watcher.Config{Pattern: cfg.Script.WatchPattern, Logger: log})
	if err != nil {
		log.Error("failed to start watcher: %v", err)
		return 1
	}
	defer w.Close()
	if err := w.Watch(cfg.Script.Path); err != nil {
		log.Error("failed to watch %s: %v", cfg.Script.Path, err)
		return 1
	}

	log.Info("watching %s", cfg.Script.Path)
	for {
		select {
		case <-ctx.Done():
			return 0
		case ev, ok := <-w.Events():
			if !ok {
				return 0
			}
			if ev.Op.Has(watcher.OpRemove) {
				log.Warn("%s removed, waiting for it to come back", ev.Path)
				continue
			}
			log.Info("%s changed, rerunning", ev.Path)
			out.write(runScript(ctx, cfg, log), log)
		case err, ok := <-w.Errors():
			if ok {
				log.Warn("watch error: %v", err)
			}
		}
	}
}

// reportWriter writes run reports where the config says.
type reportWriter struct {
	cfg    config.ReportConfig
	stdout io.Writer
}

// write emits the report for res and returns the exit code for it.
func (rw reportWriter) write(res workload.Result, log *logging.Logger) int {
	doc, err := workload.Report(res)
	if err != nil {
		log.Error("building report: %v", err)
		return 1
	}

	toStdout := rw.cfg.Path == "" || rw.cfg.Path == "-"
	if rw.cfg.Pretty {
		doc = workload.Format(doc, toStdout && isTerminal(rw.stdout))
	} else {
		doc = append(doc, '\n')
	}

	if toStdout {
		_, err = rw.stdout.Write(doc)
	} else {
		err = os.WriteFile(rw.cfg.Path, doc, 0o644)
	}
	if err != nil {
		log.Error("writing report: %v", err)
		return 1
	}

	if !res.Passed() {
		return 1
	}
	return 0
}

// isTerminal reports whether w is a terminal, for colouring output.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

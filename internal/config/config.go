package config

import (
	"time"

	"github.com/dshills/idxtree/internal/logging"
)

// Config holds every tool setting.
type Config struct {
	Log      LogConfig      `toml:"log"`
	Workload WorkloadConfig `toml:"workload"`
	Script   ScriptConfig   `toml:"script"`
	Report   ReportConfig   `toml:"report"`
	View     ViewConfig     `toml:"view"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
}

// WorkloadConfig configures randomized verification runs.
type WorkloadConfig struct {
	// Seed for the operation generator. Zero picks a time-based seed.
	Seed int64 `toml:"seed"`
	// Ops is the number of operations to run.
	Ops int `toml:"ops"`
	// MaxSize is a soft cap on the sequence length; past it inserts are
	// turned into removals.
	MaxSize int `toml:"max_size"`
	// CheckEvery runs a full invariant check every N operations.
	// Zero checks only at the end.
	CheckEvery int `toml:"check_every"`
	// Mix weights the operation kinds.
	Mix Mix `toml:"mix"`
}

// Mix holds relative weights for each operation kind.
type Mix struct {
	Insert int `toml:"insert"`
	Remove int `toml:"remove"`
	Set    int `toml:"set"`
	Get    int `toml:"get"`
}

// Total returns the sum of the weights.
func (m Mix) Total() int {
	return m.Insert + m.Remove + m.Set + m.Get
}

// ScriptConfig configures Lua-scripted runs.
type ScriptConfig struct {
	// Path of the script to run. Empty runs the random workload instead.
	Path string `toml:"path"`
	// InstructionLimit caps the calls a script may make into the seq
	// module per run. Zero means no limit.
	InstructionLimit int64 `toml:"instruction_limit"`
	// Timeout bounds a single script run, as a Go duration string.
	Timeout string `toml:"timeout"`
	// Verify checks the tree after every mutation the script makes.
	Verify bool `toml:"verify"`
	// Watch reruns the script whenever files matching WatchPattern change.
	Watch bool `toml:"watch"`
	// WatchPattern is a glob matched against changed file names.
	WatchPattern string `toml:"watch_pattern"`
}

// ReportConfig configures the JSON run report.
type ReportConfig struct {
	// Path to write the report to. Empty or "-" writes to stdout.
	Path string `toml:"path"`
	// Pretty indents the report; on a terminal it is also coloured.
	Pretty bool `toml:"pretty"`
}

// ViewConfig configures the interactive tree viewer.
type ViewConfig struct {
	// Seed for random insertions in the viewer.
	Seed int64 `toml:"seed"`
	// Initial is the number of values appended at startup.
	Initial int `toml:"initial"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Log: LogConfig{Level: "info"},
		Workload: WorkloadConfig{
			Ops:        10000,
			MaxSize:    2000,
			CheckEvery: 100,
			Mix:        Mix{Insert: 4, Remove: 3, Set: 1, Get: 2},
		},
		Script: ScriptConfig{
			InstructionLimit: 50_000_000,
			Timeout:          "30s",
			Verify:           true,
			WatchPattern:     "*.lua",
		},
		Report: ReportConfig{Path: "-", Pretty: true},
		View:   ViewConfig{Seed: 1, Initial: 15},
	}
}

// LogLevel returns the parsed log level.
func (c Config) LogLevel() logging.Level {
	level, _ := logging.ParseLevel(c.Log.Level)
	return level
}

// ScriptTimeout returns the parsed script timeout.
func (c Config) ScriptTimeout() time.Duration {
	d, err := time.ParseDuration(c.Script.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// Validate checks the settings for consistency.
func (c Config) Validate() error {
	if _, ok := logging.ParseLevel(c.Log.Level); !ok {
		return invalid("log.level", "%q (must be debug, info, warn, or error)", c.Log.Level)
	}

	w := c.Workload
	if w.Ops < 0 {
		return invalid("workload.ops", "%d is negative", w.Ops)
	}
	if w.MaxSize <= 0 {
		return invalid("workload.max_size", "%d must be positive", w.MaxSize)
	}
	if w.CheckEvery < 0 {
		return invalid("workload.check_every", "%d is negative", w.CheckEvery)
	}
	if w.Mix.Insert < 0 || w.Mix.Remove < 0 || w.Mix.Set < 0 || w.Mix.Get < 0 {
		return invalid("workload.mix", "weights must not be negative")
	}
	if w.Mix.Insert == 0 {
		return invalid("workload.mix.insert", "must be positive or the sequence never grows")
	}

	if c.Script.InstructionLimit < 0 {
		return invalid("script.instruction_limit", "%d is negative", c.Script.InstructionLimit)
	}
	if d, err := time.ParseDuration(c.Script.Timeout); err != nil || d < 0 {
		return invalid("script.timeout", "%q is not a duration", c.Script.Timeout)
	}

	if c.View.Initial < 0 {
		return invalid("view.initial", "%d is negative", c.View.Initial)
	}
	return nil
}

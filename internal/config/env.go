package config

import (
	"fmt"
	"strconv"
	"strings"
)

// EnvPrefix is the prefix of environment variables read by ApplyEnv.
const EnvPrefix = "IDXTREE_"

// envSetters maps environment variable names to the setting they override.
var envSetters = map[string]func(c *Config, v string) error{
	"IDXTREE_LOG_LEVEL":                func(c *Config, v string) error { c.Log.Level = v; return nil },
	"IDXTREE_WORKLOAD_SEED":            intSetter(func(c *Config, n int64) { c.Workload.Seed = n }),
	"IDXTREE_WORKLOAD_OPS":             intSetter(func(c *Config, n int64) { c.Workload.Ops = int(n) }),
	"IDXTREE_WORKLOAD_MAX_SIZE":        intSetter(func(c *Config, n int64) { c.Workload.MaxSize = int(n) }),
	"IDXTREE_WORKLOAD_CHECK_EVERY":     intSetter(func(c *Config, n int64) { c.Workload.CheckEvery = int(n) }),
	"IDXTREE_SCRIPT_PATH":              func(c *Config, v string) error { c.Script.Path = v; return nil },
	"IDXTREE_SCRIPT_TIMEOUT":           func(c *Config, v string) error { c.Script.Timeout = v; return nil },
	"IDXTREE_SCRIPT_INSTRUCTION_LIMIT": intSetter(func(c *Config, n int64) { c.Script.InstructionLimit = n }),
	"IDXTREE_SCRIPT_VERIFY":            boolSetter(func(c *Config, b bool) { c.Script.Verify = b }),
	"IDXTREE_REPORT_PATH":              func(c *Config, v string) error { c.Report.Path = v; return nil },
	"IDXTREE_REPORT_PRETTY":            boolSetter(func(c *Config, b bool) { c.Report.Pretty = b }),
}

// ApplyEnv overrides settings from IDXTREE_* entries of environ, which has
// the form returned by os.Environ. Unknown IDXTREE_ names are rejected.
func ApplyEnv(cfg *Config, environ []string) error {
	for _, kv := range environ {
		if !strings.HasPrefix(kv, EnvPrefix) {
			continue
		}
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		set, known := envSetters[name]
		if !known {
			return fmt.Errorf("%w: %s", ErrUnknownEnv, name)
		}
		if err := set(cfg, value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func intSetter(apply func(c *Config, n int64)) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return invalid("env", "%q is not an integer", v)
		}
		apply(c, n)
		return nil
	}
}

func boolSetter(apply func(c *Config, b bool)) func(*Config, string) error {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return invalid("env", "%q is not a boolean", v)
		}
		apply(c, b)
		return nil
	}
}

package script

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dshills/idxtree/internal/logging"
	"github.com/dshills/idxtree/internal/workload"
)

// Defaults for Options fields left zero.
const (
	DefaultTimeout          = 30 * time.Second
	DefaultInstructionLimit = 50_000_000
)

// Options configures a script run.
type Options struct {
	// Timeout bounds the run. Zero uses DefaultTimeout; negative disables it.
	Timeout time.Duration
	// InstructionLimit caps seq calls. Zero uses DefaultInstructionLimit;
	// negative disables it.
	InstructionLimit int64
	// Verify checks the tree after every mutation.
	Verify bool
	// Logger receives script output and run summaries. Nil discards them.
	Logger *logging.Logger
}

// RunFile runs the Lua script at path.
func RunFile(ctx context.Context, path string, opts Options) (workload.Result, error) {
	if _, err := os.Stat(path); err != nil {
		res := workload.Result{Source: workload.SourceScript, Name: path}
		err = fmt.Errorf("script %s: %w", path, err)
		res.Failure = err.Error()
		return res, err
	}
	return run(ctx, path, opts, func(ctx context.Context, s *State) error {
		return s.DoFile(ctx, path)
	})
}

// RunString runs code as a script named name.
func RunString(ctx context.Context, name, code string, opts Options) (workload.Result, error) {
	return run(ctx, name, opts, func(ctx context.Context, s *State) error {
		return s.DoString(ctx, code)
	})
}

func run(ctx context.Context, name string, opts Options, exec func(context.Context, *State) error) (workload.Result, error) {
	log := opts.Logger
	if log == nil {
		log = logging.Null()
	}
	log = log.WithComponent("script").WithField("script", name)

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	limit := opts.InstructionLimit
	if limit == 0 {
		limit = DefaultInstructionLimit
	}

	res := workload.Result{Source: workload.SourceScript, Name: name}
	mod := newModule(&res, opts.Verify, limit)

	state := NewState(log)
	defer state.Close()
	state.RegisterModule("seq", mod.funcs())

	start := time.Now()
	err := exec(ctx, state)
	res.Duration = time.Since(start)

	err = classify(ctx, err, mod.fault)
	if err == nil {
		res.Checks++
		if cerr := guard(func() { err = mod.seq.Check() }); cerr != nil {
			err = cerr
		}
	}

	res.FinalLen = mod.seq.Len()
	res.Stats = mod.seq.Stats()
	if err != nil {
		err = fmt.Errorf("script %s: %w", name, err)
		res.Failure = err.Error()
		log.Error("failed after %d ops: %v", res.Ops, err)
		return res, err
	}
	log.Info("passed: %d ops, max len %d, max height %d", res.Ops, res.MaxLen, res.MaxHeight)
	return res, nil
}

// classify picks the most specific cause for a failed run. A fault recorded
// by the seq module wins over the Lua error it raised.
func classify(ctx context.Context, err, fault error) error {
	if fault != nil {
		return fault
	}
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return ctxErr
	}
	return err
}

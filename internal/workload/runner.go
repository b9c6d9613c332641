package workload

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dshills/idxtree/internal/idxtree"
	"github.com/dshills/idxtree/internal/logging"
	"github.com/dshills/idxtree/internal/sequence"
)

// ErrMismatch indicates the sequence disagreed with the model.
var ErrMismatch = errors.New("sequence disagrees with model")

// ErrHeightBound indicates the tree grew taller than the AVL bound allows.
var ErrHeightBound = errors.New("height exceeds AVL bound")

// Options configures a Runner.
type Options struct {
	// CheckEvery runs a full invariant check after every N operations.
	// Zero checks only when the run ends.
	CheckEvery int
	// Logger receives progress messages. Nil discards them.
	Logger *logging.Logger
}

// Runner applies operations to a sequence and a slice model in lockstep.
type Runner struct {
	seq    *sequence.Sequence[int]
	model  []int
	opts   Options
	log    *logging.Logger
	result Result
}

// NewRunner creates a runner over an empty sequence.
func NewRunner(opts Options) *Runner {
	log := opts.Logger
	if log == nil {
		log = logging.Null()
	}
	return &Runner{
		seq:  sequence.New[int](),
		opts: opts,
		log:  log.WithComponent("workload"),
	}
}

// Sequence returns the sequence under test.
func (r *Runner) Sequence() *sequence.Sequence[int] {
	return r.seq
}

// Model returns a copy of the expected contents.
func (r *Runner) Model() []int {
	return slices.Clone(r.model)
}

// Run draws n operations from gen and applies them. It stops at the first
// failure or when ctx is done. The returned Result is filled in either way;
// the error is the failure, if any.
func (r *Runner) Run(ctx context.Context, gen *Generator, n int) (Result, error) {
	start := time.Now()
	r.result.Source = SourceWorkload

	var err error
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			err = ctx.Err()
			break
		}
		op := gen.Next(len(r.model))
		if err = r.Apply(op); err != nil {
			break
		}
		if r.opts.CheckEvery > 0 && r.result.Ops%r.opts.CheckEvery == 0 {
			if err = r.Check(); err != nil {
				break
			}
			r.log.Debug("checked after %d ops: len=%d height=%d", r.result.Ops, r.seq.Len(), r.seq.Height())
		}
	}
	if err == nil {
		err = r.Check()
	}

	r.result.Duration = time.Since(start)
	r.finish(err)
	return r.result, err
}

// Apply runs a single operation and compares the outcome with the model.
// Corruption faults raised by the tree are returned as errors.
func (r *Runner) Apply(op Op) (err error) {
	defer recoverCorruption(&err, func() string {
		return fmt.Sprintf("op %d %s", r.result.Ops, op)
	})

	r.result.Ops++
	r.result.Counts.Add(op.Kind)

	if err := r.apply(op); err != nil {
		return fmt.Errorf("op %d %s: %w", r.result.Ops, op, err)
	}

	length := r.seq.Len()
	if length > r.result.MaxLen {
		r.result.MaxLen = length
	}
	height := r.seq.Height()
	if height > r.result.MaxHeight {
		r.result.MaxHeight = height
	}
	if bound := idxtree.HeightBound(length); height > bound {
		return fmt.Errorf("op %d %s: %w: height %d, bound %d at len %d",
			r.result.Ops, op, ErrHeightBound, height, bound, length)
	}
	return nil
}

func (r *Runner) apply(op Op) error {
	inRange := op.Index >= 0 && op.Index < len(r.model)

	switch op.Kind {
	case KindInsert:
		err := r.seq.Insert(op.Index, op.Value)
		if op.Index < 0 || op.Index > len(r.model) {
			if !errors.Is(err, idxtree.ErrIndexOutOfRange) {
				return fmt.Errorf("%w: out-of-range insert returned %v", ErrMismatch, err)
			}
			r.result.Misses++
			return nil
		}
		if err != nil {
			return err
		}
		r.model = slices.Insert(r.model, op.Index, op.Value)

	case KindRemove:
		got, ok := r.seq.Remove(op.Index)
		if err := r.compare(op, got, ok, inRange); err != nil {
			return err
		}
		if inRange {
			r.model = slices.Delete(r.model, op.Index, op.Index+1)
		}

	case KindSet:
		got, ok := r.seq.Set(op.Index, op.Value)
		if err := r.compare(op, got, ok, inRange); err != nil {
			return err
		}
		if inRange {
			r.model[op.Index] = op.Value
		}

	case KindGet:
		got, ok := r.seq.At(op.Index)
		if err := r.compare(op, got, ok, inRange); err != nil {
			return err
		}

	default:
		return fmt.Errorf("unknown operation kind %d", int(op.Kind))
	}

	if r.seq.Len() != len(r.model) {
		return fmt.Errorf("%w: len %d, model len %d", ErrMismatch, r.seq.Len(), len(r.model))
	}
	return nil
}

// compare checks a lookup-style result. It must run before the model is
// updated for the operation.
func (r *Runner) compare(op Op, got int, ok, inRange bool) error {
	if !inRange {
		if ok {
			return fmt.Errorf("%w: rank %d of %d found %d", ErrMismatch, op.Index, len(r.model), got)
		}
		r.result.Misses++
		return nil
	}
	if !ok {
		return fmt.Errorf("%w: rank %d of %d not found", ErrMismatch, op.Index, len(r.model))
	}
	if want := r.model[op.Index]; got != want {
		return fmt.Errorf("%w: rank %d holds %d, want %d", ErrMismatch, op.Index, got, want)
	}
	return nil
}

// Check verifies the tree invariants and that every rank matches the model.
func (r *Runner) Check() (err error) {
	defer recoverCorruption(&err, func() string {
		return fmt.Sprintf("after %d ops", r.result.Ops)
	})

	r.result.Checks++
	if err := r.seq.Check(); err != nil {
		return fmt.Errorf("after %d ops: %w", r.result.Ops, err)
	}
	if r.seq.Len() != len(r.model) {
		return fmt.Errorf("after %d ops: %w: len %d, model len %d",
			r.result.Ops, ErrMismatch, r.seq.Len(), len(r.model))
	}
	root := r.seq.Root()
	for i, want := range r.model {
		n := root.Get(i)
		if n == nil {
			return fmt.Errorf("after %d ops: %w: rank %d not found", r.result.Ops, ErrMismatch, i)
		}
		if got := r.seq.ValueOf(n); got != want {
			return fmt.Errorf("after %d ops: %w: rank %d holds %d, want %d",
				r.result.Ops, ErrMismatch, i, got, want)
		}
	}
	return nil
}

func (r *Runner) finish(err error) {
	r.result.FinalLen = r.seq.Len()
	r.result.Stats = r.seq.Stats()
	if err != nil {
		r.result.Failure = err.Error()
		r.log.Error("run failed after %d ops: %v", r.result.Ops, err)
		return
	}
	r.log.Info("run passed: %d ops, %d checks, max len %d, max height %d",
		r.result.Ops, r.result.Checks, r.result.MaxLen, r.result.MaxHeight)
}

// recoverCorruption turns a corruption panic into *errp, prefixed with the
// context returned by where. Other panics propagate.
func recoverCorruption(errp *error, where func() string) {
	v := recover()
	if v == nil {
		return
	}
	cerr := idxtree.AsCorruption(v)
	if cerr == nil {
		panic(v)
	}
	*errp = fmt.Errorf("%s: %w", where(), cerr)
}

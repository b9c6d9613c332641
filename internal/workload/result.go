package workload

import (
	"time"

	"github.com/dshills/idxtree/internal/sequence"
)

// Source names what produced a Result.
type Source string

// Result sources.
const (
	SourceWorkload Source = "workload"
	SourceScript   Source = "script"
)

// Counts tallies operations by kind.
type Counts struct {
	Insert int
	Remove int
	Set    int
	Get    int
}

// Add counts one operation of kind k.
func (c *Counts) Add(k Kind) {
	switch k {
	case KindInsert:
		c.Insert++
	case KindRemove:
		c.Remove++
	case KindSet:
		c.Set++
	case KindGet:
		c.Get++
	}
}

// Result summarises a run.
type Result struct {
	Source Source
	// Name identifies the run input, such as a seed or a script path.
	Name string
	Seed int64

	Ops    int
	Counts Counts
	// Misses counts operations on ranks that did not exist.
	Misses int
	Checks int

	FinalLen  int
	MaxLen    int
	MaxHeight int

	// Stats are the sequence's own counters at the end of the run.
	Stats    sequence.Stats
	Duration time.Duration

	// Failure is the error that stopped the run, empty on success.
	Failure string
}

// Passed reports whether the run finished without a failure.
func (r Result) Passed() bool {
	return r.Failure == ""
}

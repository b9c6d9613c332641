package workload

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tidwall/gjson"

	"github.com/dshills/idxtree/internal/idxtree"
	"github.com/dshills/idxtree/internal/logging"
	"github.com/dshills/idxtree/internal/sequence"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindInsert, "insert"},
		{KindRemove, "remove"},
		{KindSet, "set"},
		{KindGet, "get"},
		{Kind(9), "kind(9)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(tt.kind), got, tt.want)
		}
	}
}

func TestOpString(t *testing.T) {
	if got := (Op{Kind: KindInsert, Index: 3, Value: 7}).String(); got != "insert(3, 7)" {
		t.Errorf("got %q", got)
	}
	if got := (Op{Kind: KindRemove, Index: 2}).String(); got != "remove(2)" {
		t.Errorf("got %q", got)
	}
}

func TestGeneratorDeterministic(t *testing.T) {
	a := NewGenerator(42, DefaultMix, 100)
	b := NewGenerator(42, DefaultMix, 100)
	for i := 0; i < 1000; i++ {
		length := i % 50
		if x, y := a.Next(length), b.Next(length); x != y {
			t.Fatalf("step %d: %v != %v", i, x, y)
		}
	}
}

func TestGeneratorMaxSize(t *testing.T) {
	g := NewGenerator(1, Mix{Insert: 1}, 10)
	for i := 0; i < 200; i++ {
		if op := g.Next(10); op.Kind == KindInsert {
			t.Fatalf("insert generated at max size: %v", op)
		}
	}
}

func TestGeneratorEmptyMix(t *testing.T) {
	g := NewGenerator(1, Mix{}, 0)
	if g.mix != DefaultMix {
		t.Errorf("mix = %+v, want DefaultMix", g.mix)
	}
}

func TestGeneratorIndexRange(t *testing.T) {
	g := NewGenerator(7, DefaultMix, 0)
	var misses, hits int
	for i := 0; i < 5000; i++ {
		op := g.Next(20)
		limit := 20
		if op.Kind == KindInsert {
			limit = 21
		}
		if op.Index < 0 || op.Index >= limit+3 {
			t.Fatalf("index out of generator range: %v", op)
		}
		if op.Index >= limit {
			misses++
		} else {
			hits++
		}
	}
	if misses == 0 || hits == 0 {
		t.Errorf("misses=%d hits=%d, want both", misses, hits)
	}
}

func TestRunnerPasses(t *testing.T) {
	seeds := []int64{1, 2, 3, 99}
	for _, seed := range seeds {
		r := NewRunner(Options{CheckEvery: 50})
		res, err := r.Run(context.Background(), NewGenerator(seed, DefaultMix, 300), 3000)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if !res.Passed() {
			t.Errorf("seed %d: Passed() = false", seed)
		}
		if res.Ops != 3000 {
			t.Errorf("seed %d: Ops = %d", seed, res.Ops)
		}
		if res.Checks != 3000/50+1 {
			t.Errorf("seed %d: Checks = %d, want %d", seed, res.Checks, 3000/50+1)
		}
		if res.MaxHeight > idxtree.HeightBound(res.MaxLen) {
			t.Errorf("seed %d: max height %d over bound for %d", seed, res.MaxHeight, res.MaxLen)
		}
		total := res.Counts.Insert + res.Counts.Remove + res.Counts.Set + res.Counts.Get
		if total != res.Ops {
			t.Errorf("seed %d: counts sum %d, ops %d", seed, total, res.Ops)
		}
		if res.FinalLen != len(r.Model()) {
			t.Errorf("seed %d: FinalLen %d, model %d", seed, res.FinalLen, len(r.Model()))
		}
	}
}

func TestRunnerLogs(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Config{Level: logging.LevelInfo, Output: &buf})
	r := NewRunner(Options{Logger: log})
	if _, err := r.Run(context.Background(), NewGenerator(5, DefaultMix, 50), 200); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("run passed")) {
		t.Errorf("log missing summary: %q", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("component=workload")) {
		t.Errorf("log missing component: %q", buf.String())
	}
}

func TestRunnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(Options{})
	res, err := r.Run(ctx, NewGenerator(1, DefaultMix, 0), 100)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if res.Ops != 0 || res.Passed() {
		t.Errorf("res = %+v", res)
	}
}

func TestRunnerApplyMisses(t *testing.T) {
	r := NewRunner(Options{})
	ops := []Op{
		{Kind: KindGet, Index: 0},
		{Kind: KindRemove, Index: 0},
		{Kind: KindSet, Index: 0, Value: 1},
		{Kind: KindInsert, Index: 1, Value: 1},
		{Kind: KindInsert, Index: -1, Value: 1},
		{Kind: KindInsert, Index: 0, Value: 10},
		{Kind: KindGet, Index: 1},
	}
	for _, op := range ops {
		if err := r.Apply(op); err != nil {
			t.Fatalf("%v: %v", op, err)
		}
	}
	if r.result.Misses != 6 {
		t.Errorf("Misses = %d, want 6", r.result.Misses)
	}
	if got := r.Model(); len(got) != 1 || got[0] != 10 {
		t.Errorf("model = %v", got)
	}
}

func TestRunnerDetectsMismatch(t *testing.T) {
	r := NewRunner(Options{})
	for i := 0; i < 5; i++ {
		if err := r.Apply(Op{Kind: KindInsert, Index: i, Value: i}); err != nil {
			t.Fatal(err)
		}
	}

	// Swap in a node carrying a value the model does not know about.
	other := sequence.New[int]()
	other.Append(999)
	r.Sequence().Root().Set(2, other.Root().Get(0))

	if err := r.Check(); !errors.Is(err, ErrMismatch) {
		t.Fatalf("Check() = %v, want ErrMismatch", err)
	}
	if err := r.Apply(Op{Kind: KindGet, Index: 2}); !errors.Is(err, ErrMismatch) {
		t.Fatalf("Apply(get) = %v, want ErrMismatch", err)
	}
}

func TestReport(t *testing.T) {
	res := Result{
		Source:    SourceWorkload,
		Name:      "seed-7",
		Seed:      7,
		Ops:       10,
		Counts:    Counts{Insert: 6, Remove: 2, Set: 1, Get: 1},
		Misses:    1,
		Checks:    2,
		FinalLen:  4,
		MaxLen:    7,
		MaxHeight: 3,
		Stats:     sequence.Stats{Inserts: 6, Removes: 2},
		Duration:  1500 * time.Millisecond,
	}
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	doc, err := report("run-1", at, res)
	if err != nil {
		t.Fatal(err)
	}
	if !gjson.ValidBytes(doc) {
		t.Fatalf("invalid JSON: %s", doc)
	}

	checks := map[string]string{
		"version":           "1",
		"run_id":            "run-1",
		"time":              "2024-05-01T12:00:00Z",
		"source":            "workload",
		"name":              "seed-7",
		"seed":              "7",
		"passed":            "true",
		"ops.total":         "10",
		"ops.insert":        "6",
		"ops.misses":        "1",
		"tree.max_height":   "3",
		"tree.height_bound": "4",
		"sequence.removes":  "2",
		"duration_ms":       "1500",
	}
	for path, want := range checks {
		if got := gjson.GetBytes(doc, path).String(); got != want {
			t.Errorf("%s = %q, want %q", path, got, want)
		}
	}
	if gjson.GetBytes(doc, "failure").Exists() {
		t.Error("passing report should not carry a failure")
	}
}

func TestReportFailure(t *testing.T) {
	doc, err := Report(Result{Source: SourceScript, Failure: "boom"})
	if err != nil {
		t.Fatal(err)
	}
	if got := gjson.GetBytes(doc, "passed").Bool(); got {
		t.Error("passed = true")
	}
	if got := gjson.GetBytes(doc, "failure").String(); got != "boom" {
		t.Errorf("failure = %q", got)
	}
	if id := gjson.GetBytes(doc, "run_id").String(); len(id) != 36 {
		t.Errorf("run_id = %q, want a uuid", id)
	}
}

func TestFormat(t *testing.T) {
	doc := []byte(`{"a":1,"b":{"c":true}}`)
	plain := Format(doc, false)
	if !bytes.Contains(plain, []byte("\n")) {
		t.Errorf("Format did not indent: %s", plain)
	}
	if !gjson.ValidBytes(plain) {
		t.Errorf("plain output is not JSON: %s", plain)
	}
	colored := Format(doc, true)
	if !bytes.Contains(colored, []byte("\x1b[")) {
		t.Errorf("Format(color) has no escapes: %q", colored)
	}
}

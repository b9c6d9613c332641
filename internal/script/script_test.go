package script

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dshills/idxtree/internal/idxtree"
	"github.com/dshills/idxtree/internal/logging"
	"github.com/dshills/idxtree/internal/workload"
)

func runCode(t *testing.T, code string, opts Options) (workload.Result, error) {
	t.Helper()
	return RunString(context.Background(), t.Name(), code, opts)
}

func TestFrontInsertRoundTrip(t *testing.T) {
	code := `
for _, v in ipairs({"A", "B", "C", "D"}) do
  seq.insert(0, v)
end
assert(seq.len() == 4)
assert(table.concat(seq.values(), ",") == "D,C,B,A")
assert(seq.remove(1) == "C")
assert(table.concat(seq.values(), ",") == "D,B,A")
`
	res, err := runCode(t, code, Options{Verify: true})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if res.Source != workload.SourceScript {
		t.Errorf("Source = %q", res.Source)
	}
	if res.FinalLen != 3 {
		t.Errorf("FinalLen = %d, want 3", res.FinalLen)
	}
	if res.Counts.Insert != 4 || res.Counts.Remove != 1 {
		t.Errorf("Counts = %+v", res.Counts)
	}
	// One check per mutation plus the final one.
	if res.Checks != 6 {
		t.Errorf("Checks = %d, want 6", res.Checks)
	}
}

func TestAppendHeight(t *testing.T) {
	code := `
for i = 1, 7 do seq.append(i) end
assert(seq.height() <= 4, "height " .. seq.height())
for i = 0, 6 do assert(seq.get(i) == i + 1) end
`
	res, err := runCode(t, code, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.MaxHeight > 4 {
		t.Errorf("MaxHeight = %d", res.MaxHeight)
	}
}

func TestMissesReturnNil(t *testing.T) {
	code := `
assert(seq.get(0) == nil)
assert(seq.remove(0) == nil)
assert(seq.set(0, "x") == nil)
seq.append("a")
assert(seq.get(1) == nil)
assert(seq.get(-1) == nil)
assert(seq.set(0, "b") == "a")
assert(seq.get(0) == "b")
`
	res, err := runCode(t, code, Options{Verify: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.Misses != 5 {
		t.Errorf("Misses = %d, want 5", res.Misses)
	}
}

func TestInsertOutOfRangeRaises(t *testing.T) {
	code := `
local ok, msg = pcall(seq.insert, 5, "x")
assert(not ok)
assert(string.find(msg, "out of range"), msg)
assert(seq.len() == 0)
seq.insert(2, "y")
`
	_, err := runCode(t, code, Options{})
	if err == nil {
		t.Fatal("uncaught out-of-range insert should fail the run")
	}
	if !strings.Contains(err.Error(), "out of range") {
		t.Errorf("err = %v", err)
	}
}

func TestScriptError(t *testing.T) {
	res, err := runCode(t, `error("boom")`, Options{})
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("err = %v", err)
	}
	if res.Passed() {
		t.Error("result should record the failure")
	}
}

func TestSandbox(t *testing.T) {
	globals := []string{"dofile", "loadfile", "load", "loadstring", "require", "io", "os", "debug"}
	for _, name := range globals {
		t.Run(name, func(t *testing.T) {
			code := "assert(" + name + " == nil, '" + name + " is reachable')"
			if _, err := runCode(t, code, Options{}); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestPrintGoesToLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Config{Level: logging.LevelInfo, Output: &buf})
	if _, err := runCode(t, `print("hello", 42)`, Options{Logger: log}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "hello\t42") {
		t.Errorf("log = %q", buf.String())
	}
}

func TestTimeout(t *testing.T) {
	start := time.Now()
	_, err := runCode(t, `while true do end`, Options{Timeout: 50 * time.Millisecond})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("timeout did not interrupt the script")
	}
}

func TestInstructionLimit(t *testing.T) {
	code := `
local ok = pcall(function()
  for i = 1, 100 do seq.append(i) end
end)
`
	res, err := runCode(t, code, Options{InstructionLimit: 10})
	if !errors.Is(err, ErrInstructionLimit) {
		t.Fatalf("err = %v, want ErrInstructionLimit", err)
	}
	if res.FinalLen != 10 {
		t.Errorf("FinalLen = %d, want 10", res.FinalLen)
	}
}

func TestRunFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drain.lua")
	code := `
for i = 1, 200 do seq.insert(math.floor(seq.len() / 2), i) end
while seq.len() > 0 do seq.remove(seq.len() % 3 == 0 and 0 or seq.len() - 1) end
seq.check()
`
	if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := RunFile(context.Background(), path, Options{Verify: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.Name != path || res.FinalLen != 0 || res.Counts.Remove != 200 {
		t.Errorf("res = %+v", res)
	}
	if res.MaxHeight > idxtree.HeightBound(200) {
		t.Errorf("MaxHeight %d over bound", res.MaxHeight)
	}
}

func TestRunFileMissing(t *testing.T) {
	res, err := RunFile(context.Background(), filepath.Join(t.TempDir(), "none.lua"), Options{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v", err)
	}
	if res.Passed() {
		t.Error("missing script should not pass")
	}
}

func TestClosedState(t *testing.T) {
	s := NewState(nil)
	s.Close()
	s.Close()
	if err := s.DoString(context.Background(), "x = 1"); !errors.Is(err, ErrStateClosed) {
		t.Errorf("err = %v, want ErrStateClosed", err)
	}
}

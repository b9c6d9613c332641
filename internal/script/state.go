package script

import (
	"context"
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/idxtree/internal/logging"
)

// State wraps a sandboxed gopher-lua state.
//
// gopher-lua's LState is not goroutine-safe; a State must be used from one
// goroutine at a time.
type State struct {
	L      *lua.LState
	log    *logging.Logger
	closed bool
}

// NewState creates a sandboxed Lua state whose print writes to log.
func NewState(log *logging.Logger) *State {
	if log == nil {
		log = logging.Null()
	}
	L := lua.NewState(lua.Options{
		SkipOpenLibs: true, // opened selectively below
	})
	s := &State{L: L, log: log}
	s.openSafeLibraries()
	s.install()
	return s
}

// openSafeLibraries opens only libraries without file system or process
// access. io, os, debug and package stay closed.
func (s *State) openSafeLibraries() {
	lua.OpenBase(s.L)
	lua.OpenTable(s.L)
	lua.OpenString(s.L)
	lua.OpenMath(s.L)
}

// install removes loaders and replaces print.
func (s *State) install() {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		s.L.SetGlobal(name, lua.LNil)
	}
	s.L.SetGlobal("print", s.L.NewFunction(s.print))
}

// print logs its arguments joined by tabs, like the stock print.
func (s *State) print(L *lua.LState) int {
	top := L.GetTop()
	parts := make([]string, 0, top)
	for i := 1; i <= top; i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	s.log.Info("%s", strings.Join(parts, "\t"))
	return 0
}

// RegisterModule sets a global table holding funcs.
func (s *State) RegisterModule(name string, funcs map[string]lua.LGFunction) {
	if s.closed {
		return
	}
	mod := s.L.SetFuncs(s.L.NewTable(), funcs)
	s.L.SetGlobal(name, mod)
}

// DoString runs code with ctx bounding its execution.
func (s *State) DoString(ctx context.Context, code string) error {
	return s.do(ctx, func() error { return s.L.DoString(code) })
}

// DoFile runs the file at path with ctx bounding its execution.
func (s *State) DoFile(ctx context.Context, path string) error {
	return s.do(ctx, func() error { return s.L.DoFile(path) })
}

func (s *State) do(ctx context.Context, fn func() error) (err error) {
	if s.closed {
		return ErrStateClosed
	}
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// Close releases the Lua state.
func (s *State) Close() {
	if s.closed {
		return
	}
	s.L.Close()
	s.closed = true
}

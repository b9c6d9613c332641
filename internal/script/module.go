package script

import (
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/idxtree/internal/idxtree"
	"github.com/dshills/idxtree/internal/sequence"
	"github.com/dshills/idxtree/internal/workload"
)

// module binds the seq Lua module to a sequence and records what the script
// does with it.
type module struct {
	seq    *sequence.Sequence[lua.LValue]
	verify bool
	limit  int64
	calls  int64

	result *workload.Result

	// fault is the first failure raised to the script. It is kept here so a
	// script that swallows the error with pcall still fails the run.
	fault error
}

func newModule(result *workload.Result, verify bool, limit int64) *module {
	return &module{
		seq:    sequence.New[lua.LValue](),
		verify: verify,
		limit:  limit,
		result: result,
	}
}

func (m *module) funcs() map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		"insert": m.insert,
		"append": m.append,
		"get":    m.get,
		"set":    m.set,
		"remove": m.remove,
		"len":    m.length,
		"height": m.height,
		"values": m.values,
		"check":  m.check,
	}
}

// fail records err as the run's fault and raises it in Lua.
func (m *module) fail(L *lua.LState, err error) {
	if m.fault == nil {
		m.fault = err
	}
	L.RaiseError("%s", err.Error())
}

// enter charges one call against the budget.
func (m *module) enter(L *lua.LState) {
	m.calls++
	if m.limit > 0 && m.calls > m.limit {
		m.fail(L, fmt.Errorf("%w: %d calls", ErrInstructionLimit, m.limit))
	}
}

// count records an operation and tracks the tree shape after it.
func (m *module) count(kind workload.Kind, hit bool) {
	m.result.Ops++
	m.result.Counts.Add(kind)
	if !hit {
		m.result.Misses++
	}
	if n := m.seq.Len(); n > m.result.MaxLen {
		m.result.MaxLen = n
	}
	if h := m.seq.Height(); h > m.result.MaxHeight {
		m.result.MaxHeight = h
	}
}

// guard runs fn, turning a corruption fault into an error.
func guard(fn func()) (err error) {
	defer func() {
		if v := recover(); v != nil {
			cerr := idxtree.AsCorruption(v)
			if cerr == nil {
				panic(v)
			}
			err = cerr
		}
	}()
	fn()
	return nil
}

// mutated runs the post-mutation verification when enabled.
func (m *module) mutated(L *lua.LState) {
	if !m.verify {
		return
	}
	m.result.Checks++
	if err := m.seq.Check(); err != nil {
		m.fail(L, err)
	}
	if h, bound := m.seq.Height(), idxtree.HeightBound(m.seq.Len()); h > bound {
		m.fail(L, fmt.Errorf("%w: height %d, bound %d at len %d", workload.ErrHeightBound, h, bound, m.seq.Len()))
	}
}

func (m *module) insert(L *lua.LState) int {
	m.enter(L)
	i := L.CheckInt(1)
	v := L.CheckAny(2)

	var err error
	if gerr := guard(func() { err = m.seq.Insert(i, v) }); gerr != nil {
		m.fail(L, gerr)
	}
	if err != nil {
		if errors.Is(err, idxtree.ErrIndexOutOfRange) {
			m.count(workload.KindInsert, false)
			L.RaiseError("seq.insert: index %d out of range [0, %d]", i, m.seq.Len())
		}
		m.fail(L, err)
	}
	m.count(workload.KindInsert, true)
	m.mutated(L)
	return 0
}

func (m *module) append(L *lua.LState) int {
	m.enter(L)
	v := L.CheckAny(1)
	if err := guard(func() { m.seq.Append(v) }); err != nil {
		m.fail(L, err)
	}
	m.count(workload.KindInsert, true)
	m.mutated(L)
	return 0
}

func (m *module) get(L *lua.LState) int {
	m.enter(L)
	i := L.CheckInt(1)

	var v lua.LValue
	var ok bool
	if err := guard(func() { v, ok = m.seq.At(i) }); err != nil {
		m.fail(L, err)
	}
	m.count(workload.KindGet, ok)
	L.Push(orNil(v, ok))
	return 1
}

func (m *module) set(L *lua.LState) int {
	m.enter(L)
	i := L.CheckInt(1)
	v := L.CheckAny(2)

	var old lua.LValue
	var ok bool
	if err := guard(func() { old, ok = m.seq.Set(i, v) }); err != nil {
		m.fail(L, err)
	}
	m.count(workload.KindSet, ok)
	if ok {
		m.mutated(L)
	}
	L.Push(orNil(old, ok))
	return 1
}

func (m *module) remove(L *lua.LState) int {
	m.enter(L)
	i := L.CheckInt(1)

	var v lua.LValue
	var ok bool
	if err := guard(func() { v, ok = m.seq.Remove(i) }); err != nil {
		m.fail(L, err)
	}
	m.count(workload.KindRemove, ok)
	if ok {
		m.mutated(L)
	}
	L.Push(orNil(v, ok))
	return 1
}

func (m *module) length(L *lua.LState) int {
	m.enter(L)
	L.Push(lua.LNumber(m.seq.Len()))
	return 1
}

func (m *module) height(L *lua.LState) int {
	m.enter(L)
	L.Push(lua.LNumber(m.seq.Height()))
	return 1
}

func (m *module) values(L *lua.LState) int {
	m.enter(L)
	tbl := L.CreateTable(m.seq.Len(), 0)
	root := m.seq.Root()
	err := guard(func() {
		for i := 0; i < root.Len(); i++ {
			tbl.Append(m.seq.ValueOf(root.Get(i)))
		}
	})
	if err != nil {
		m.fail(L, err)
	}
	L.Push(tbl)
	return 1
}

func (m *module) check(L *lua.LState) int {
	m.enter(L)
	m.result.Checks++
	if err := m.seq.Check(); err != nil {
		m.fail(L, err)
	}
	L.Push(lua.LTrue)
	return 1
}

func orNil(v lua.LValue, ok bool) lua.LValue {
	if !ok || v == nil {
		return lua.LNil
	}
	return v
}

// Package script runs Lua scripts against a sequence.
//
// Scripts see a global seq module bound to a fresh sequence of Lua values.
// Ranks are 0-based:
//
//	seq.insert(i, v)   -- raises an error if i is not in [0, seq.len()]
//	seq.append(v)
//	seq.get(i)         -- value at rank i, or nil
//	seq.set(i, v)      -- replaces rank i, returns the old value or nil
//	seq.remove(i)      -- removes rank i, returns the value or nil
//	seq.len()
//	seq.height()
//	seq.values()       -- array of all values in rank order
//	seq.check()        -- raises an error if the tree is inconsistent
//
// The Lua state is sandboxed: only the base, table, string and math
// libraries are opened, file loading functions are removed, and print is
// routed to the logger. A run is bounded by a timeout and by a budget of
// seq calls.
package script

// Package workload drives randomized operation streams through a
// sequence.Sequence and checks every result against a plain slice model.
//
// A Generator produces a seeded, weighted mix of insert, remove, set and get
// operations. A Runner applies them, compares each return value with the
// model, verifies the tree invariants periodically, and tracks the tree
// height against the AVL bound. The outcome is summarised in a Result, which
// can be serialized as a JSON report.
package workload

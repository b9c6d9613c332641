// Package idxtree provides an intrusive order-statistics AVL tree.
//
// The tree is indexed by position rather than by key: every node records the
// size of its subtree, and lookups descend by comparing the requested rank with
// the accumulated size of left subtrees. No key comparison is ever performed.
//
// Key features:
//   - O(log n) Get, Insert, Remove and Set by 0-based rank
//   - AVL height balance maintained with single and double rotations
//   - Intrusive nodes: callers embed a Node in their own records and the tree
//     never allocates, frees or inspects payload data
//   - No internal locking; callers serialize access to a Root
//
// Basic usage:
//
//	type item struct {
//		idxtree.Node
//		name string
//	}
//
//	root := idxtree.New()
//	a := &item{name: "a"}
//	_ = root.Insert(0, &a.Node)   // [a]
//	n := root.Get(0)              // &a.Node
//	old := root.Remove(0)         // &a.Node, detached
//
// Mapping a returned *Node back to its containing record is the caller's job;
// see internal/sequence for a generic container that does this.
//
// Internal consistency faults (a descent that cannot find a rank the root's
// size says exists, a path taller than MaxHeight) panic with a
// *CorruptionError. They are unreachable through correct use of the API.
package idxtree

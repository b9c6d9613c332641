// Package sequence provides a generic positional list built on the intrusive
// idxtree package.
//
// Every value lives in an entry record that embeds an idxtree.Node, so the
// tree links the records themselves and no side table is needed to map a node
// back to its value. Removed and displaced entries are recycled through a
// Pool.
//
// Basic usage:
//
//	s := sequence.New[string]()
//	s.Append("b")             // [b]
//	s.Prepend("a")            // [a b]
//	_ = s.Insert(1, "x")      // [a x b]
//	v, _ := s.At(1)           // "x"
//	old, _ := s.Set(1, "y")   // old == "x", [a y b]
//	v, _ = s.Remove(0)        // "a", [y b]
//
// A Sequence is not safe for concurrent use; wrap it in a Locked to share it
// between goroutines.
package sequence

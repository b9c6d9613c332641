//go:build !idxtree_debug

package idxtree

// debugChecks enables local splice assertions. Build with -tags idxtree_debug
// to turn them on.
const debugChecks = false

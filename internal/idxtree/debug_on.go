//go:build idxtree_debug

package idxtree

const debugChecks = true

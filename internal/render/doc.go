// Package render lays out an idxtree for display and draws it onto a
// character canvas.
//
// Build computes a Layout from a tree: each node gets a column from its
// in-order rank and a row from its depth, so the picture reads left to right
// in rank order. Draw paints a Layout onto any Canvas; Terminal is the tcell
// implementation and Grid an in-memory one.
package render

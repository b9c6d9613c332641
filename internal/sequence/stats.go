package sequence

// Stats counts operations performed on a Sequence.
type Stats struct {
	Inserts int64
	Removes int64
	Sets    int64
	Lookups int64

	// Misses counts At, Remove and Set calls on ranks that did not exist.
	Misses int64
}

// Mutations returns the number of structural and in-place changes.
func (s Stats) Mutations() int64 {
	return s.Inserts + s.Removes + s.Sets
}

package hashtable

// Stats describes how entries are distributed over buckets.
type Stats struct {
	Buckets      int
	Entries      int
	EmptyBuckets int
	LongestChain int
	LoadFactor   float64

	// ChainLengths[n] is the number of buckets holding a chain of n entries.
	ChainLengths []int
}

// Stats counts the chain lengths of all buckets.
func (t *Table[V]) Stats() Stats {
	t.mustBeLive()
	s := Stats{
		Buckets:    len(t.buckets),
		Entries:    t.count,
		LoadFactor: float64(t.count) / float64(len(t.buckets)),
	}
	lengths := make([]int, len(t.buckets))
	for i := range t.buckets {
		for e := t.buckets[i]; e != nil; e = e.next {
			lengths[i]++
		}
		if lengths[i] == 0 {
			s.EmptyBuckets++
		}
		if lengths[i] > s.LongestChain {
			s.LongestChain = lengths[i]
		}
	}
	s.ChainLengths = make([]int, s.LongestChain+1)
	for _, l := range lengths {
		s.ChainLengths[l]++
	}
	return s
}

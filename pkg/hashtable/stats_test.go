package hashtable_test

import (
	"testing"

	"github.com/andy16666/hashtable/pkg/hashtable"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestStats(t *testing.T) {
	m := newTable[int](t, 4, &MockHasher{
		Map: map[string]uint32{"a": 0, "b": 1, "c": 1, "d": 1, "e": 3},
	})
	require.Empty(t, cmp.Diff(hashtable.Stats{
		Buckets:      4,
		EmptyBuckets: 4,
		ChainLengths: []int{4},
	}, m.Stats()))

	for i, k := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, m.Insert([]byte(k), i))
	}
	require.Empty(t, cmp.Diff(hashtable.Stats{
		Buckets:      4,
		Entries:      5,
		EmptyBuckets: 1,
		LongestChain: 3,
		LoadFactor:   1.25,
		ChainLengths: []int{1, 2, 0, 1},
	}, m.Stats()))

	_, ok := m.Remove([]byte("c"))
	require.True(t, ok)
	require.Empty(t, cmp.Diff(hashtable.Stats{
		Buckets:      4,
		Entries:      4,
		EmptyBuckets: 1,
		LongestChain: 2,
		LoadFactor:   1,
		ChainLengths: []int{1, 2, 1},
	}, m.Stats()))
}

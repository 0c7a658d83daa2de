package workload_test

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/andy16666/hashtable/pkg/config"
	"github.com/andy16666/hashtable/pkg/hashtable"
	"github.com/andy16666/hashtable/pkg/workload"
	"github.com/stretchr/testify/require"
)

func TestKeysRandom(t *testing.T) {
	k := config.Keys{Count: 32, Length: 20, Source: config.SourceRandom}
	a, err := workload.Keys(k, 1)
	require.NoError(t, err)
	require.Len(t, a, 32)
	for _, key := range a {
		require.Len(t, key, 20)
	}

	b, err := workload.Keys(k, 1)
	require.NoError(t, err)
	require.Equal(t, a, b)

	c, err := workload.Keys(k, 2)
	require.NoError(t, err)
	require.NotEqual(t, a, c)
}

func TestKeysUUID(t *testing.T) {
	k := config.Keys{Count: 8, Source: config.SourceUUID}
	a, err := workload.Keys(k, 7)
	require.NoError(t, err)
	seen := map[string]bool{}
	for _, key := range a {
		require.Len(t, key, 16)
		require.Equal(t, byte(0x40), key[6]&0xf0, "version 4")
		require.False(t, seen[string(key)])
		seen[string(key)] = true
	}

	b, err := workload.Keys(k, 7)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestKeysSequential(t *testing.T) {
	a, err := workload.Keys(config.Keys{
		Count: 300, Source: config.SourceSequential,
	}, 0)
	require.NoError(t, err)
	for i, key := range a {
		require.Equal(t, uint64(i), binary.BigEndian.Uint64(key))
	}
}

func TestKeysUnknownSource(t *testing.T) {
	a, err := workload.Keys(config.Keys{Count: 1, Source: "disk"}, 0)
	require.Error(t, err)
	require.Nil(t, a)
}

func TestRun(t *testing.T) {
	for _, td := range []struct {
		Name        string
		BucketCount int
		Keys        config.Keys
		Duplicates  float64
		Remove      float64
		ExpectLen   int
	}{
		{
			Name:        "single_bucket",
			BucketCount: 1,
			Keys:        config.Keys{Count: 50, Source: config.SourceSequential},
			Duplicates:  0.5,
			Remove:      1,
			ExpectLen:   25,
		},
		{
			Name:        "uuid",
			BucketCount: 64,
			Keys:        config.Keys{Count: 1000, Source: config.SourceUUID},
			Duplicates:  0.1,
			Remove:      0.3,
			ExpectLen:   800,
		},
		{
			Name:        "no_removals",
			BucketCount: 7,
			Keys:        config.Keys{Count: 10, Source: config.SourceSequential},
			ExpectLen:   10,
		},
	} {
		t.Run(td.Name, func(t *testing.T) {
			m, err := hashtable.New[int](td.BucketCount, nil)
			require.NoError(t, err)
			keys, err := workload.Keys(td.Keys, 0)
			require.NoError(t, err)

			r, err := workload.Run(m, keys, td.Duplicates, td.Remove)
			require.NoError(t, err)
			require.Equal(t, td.ExpectLen, r.Len)
			require.Equal(t, td.ExpectLen, m.Len())
			require.Equal(t, td.Keys.Count, r.Keys)
			require.Equal(t, td.ExpectLen, r.Stats.Entries)
			require.Equal(t, td.BucketCount, r.Stats.Buckets)
			require.Equal(t, r.Inserts-r.Removals, r.Len)
		})
	}
}

func TestRunRepeatedRandomKeys(t *testing.T) {
	// 1-byte keys repeat, so removals uncover earlier duplicates.
	m, err := hashtable.New[int](16, nil)
	require.NoError(t, err)
	keys, err := workload.Keys(config.Keys{
		Count: 600, Length: 1, Source: config.SourceRandom,
	}, 3)
	require.NoError(t, err)

	r, err := workload.Run(m, keys, 0.2, 0.8)
	require.NoError(t, err)
	require.Equal(t, 600+120, r.Inserts)
	require.Equal(t, r.Inserts-r.Removals, m.Len())
}

func TestRunMismatch(t *testing.T) {
	m, err := hashtable.New[int](4, nil)
	require.NoError(t, err)
	keys := [][]byte{[]byte("a"), []byte("b")}
	require.NoError(t, m.Insert([]byte("b"), 99))

	_, err = workload.Run(m, keys, 0, 0)
	var e *workload.ErrorMismatch
	require.True(t, errors.As(err, &e), "unexpected error: %v", err)
	require.Equal(t, "lookup", e.Op)
	require.Equal(t, []byte("b"), e.Key)
	require.Equal(t, 1, e.Expected)
	require.Equal(t, 99, e.Actual)
	require.Equal(t, "mismatching lookup 62: expected 1, actual 99", e.Error())
}

func TestRunDestroyed(t *testing.T) {
	m, err := hashtable.New[int](4, nil)
	require.NoError(t, err)
	require.NoError(t, m.Destroy())

	_, err = workload.Run(m, [][]byte{[]byte("a")}, 0, 0)
	require.ErrorIs(t, err, hashtable.ErrDestroyed)
}

func TestExecute(t *testing.T) {
	r, err := workload.Execute(&config.Config{
		BucketCount: 32,
		Hasher:      hashtable.NameXXH64,
		Seed:        9,
		Keys: config.Keys{
			Count: 256, Length: 8, Source: config.SourceRandom,
		},
		Duplicates: 0.5,
		Remove:     0.5,
	})
	require.NoError(t, err)
	require.Equal(t, 256+128, r.Inserts)
	require.Equal(t, 256*8, r.KeyBytes)
	require.Equal(t, r.Inserts-r.Removals, r.Len)
}

// Package workload generates keys and runs verified
// insert, lookup and remove sequences against a hashtable.
package workload

import (
	"encoding/binary"
	"fmt"
	"math/rand"
	"time"

	"github.com/andy16666/hashtable/pkg/config"
	"github.com/andy16666/hashtable/pkg/hashtable"
	"github.com/google/uuid"
	"github.com/yourbasic/bit"
)

// Report summarizes a workload run.
type Report struct {
	Keys       int
	KeyBytes   int
	Inserts    int
	Duplicates int
	Lookups    int
	Removals   int
	Misses     int
	InsertTime time.Duration
	LookupTime time.Duration
	RemoveTime time.Duration
	Len        int
	Stats      hashtable.Stats
}

// Keys generates k.Count keys from k.Source.
// The same seed always produces the same random and uuid keys.
func Keys(k config.Keys, seed int64) ([][]byte, error) {
	rng := rand.New(rand.NewSource(seed))
	keys := make([][]byte, k.Count)
	switch k.Source {
	case config.SourceRandom, "":
		for i := range keys {
			keys[i] = make([]byte, k.Length)
			_, _ = rng.Read(keys[i])
		}
	case config.SourceUUID:
		for i := range keys {
			u, err := uuid.NewRandomFromReader(rng)
			if err != nil {
				return nil, fmt.Errorf("generating uuid key: %w", err)
			}
			keys[i] = u[:]
		}
	case config.SourceSequential:
		for i := range keys {
			keys[i] = make([]byte, 8)
			binary.BigEndian.PutUint64(keys[i], uint64(i))
		}
	default:
		return nil, fmt.Errorf("unknown key source: %q", k.Source)
	}
	return keys, nil
}

// Execute creates a table as configured by c, runs the workload
// on it and destroys it.
func Execute(c *config.Config) (Report, error) {
	h, err := c.NewHasher()
	if err != nil {
		return Report{}, err
	}
	t, err := hashtable.New[int](c.BucketCount, h)
	if err != nil {
		return Report{}, err
	}
	keys, err := Keys(c.Keys, int64(c.Seed))
	if err != nil {
		return Report{}, err
	}
	r, err := Run(t, keys, c.Duplicates, c.Remove)
	if err != nil {
		return r, err
	}
	return r, t.Destroy()
}

// Run inserts all keys with their index as value, inserts the first
// duplicates fraction of keys a second time, and removes the first
// remove fraction of keys. Every lookup and removal is verified against
// a reference model and an ErrorMismatch is returned on divergence.
// t isn't destroyed.
func Run(
	t *hashtable.Table[int],
	keys [][]byte,
	duplicates, remove float64,
) (r Report, err error) {
	// model holds the values of every key in insertion order
	model := make(map[string][]int, len(keys))
	live := bit.New()
	r.Keys = len(keys)

	insert := func(k []byte, v int) error {
		if err := t.Insert(k, v); err != nil {
			return err
		}
		model[string(k)] = append(model[string(k)], v)
		live.Add(v)
		r.Inserts++
		return nil
	}

	start := time.Now()
	for i, k := range keys {
		r.KeyBytes += len(k)
		if err := insert(k, i); err != nil {
			return r, err
		}
	}
	nDup := int(duplicates * float64(len(keys)))
	for i := 0; i < nDup; i++ {
		if err := insert(keys[i], len(keys)+i); err != nil {
			return r, err
		}
		r.Duplicates++
	}
	r.InsertTime = time.Since(start)

	lookup := func(k []byte) error {
		r.Lookups++
		v, ok := t.Lookup(k)
		if q := model[string(k)]; len(q) > 0 {
			if !ok || v != q[0] {
				return &ErrorMismatch{
					Op: "lookup", Key: k,
					Expected: q[0], Actual: v, Found: ok,
				}
			}
			return nil
		}
		r.Misses++
		if ok {
			return &ErrorMismatch{
				Op: "lookup", Key: k,
				Expected: -1, Actual: v, Found: ok,
			}
		}
		return nil
	}

	start = time.Now()
	for _, k := range keys {
		if err := lookup(k); err != nil {
			return r, err
		}
	}
	r.LookupTime = time.Since(start)

	start = time.Now()
	nRem := int(remove * float64(len(keys)))
	for i := 0; i < nRem; i++ {
		k := keys[i]
		v, ok := t.Remove(k)
		q := model[string(k)]
		if len(q) < 1 {
			r.Misses++
			if ok {
				return r, &ErrorMismatch{
					Op: "remove", Key: k,
					Expected: -1, Actual: v, Found: ok,
				}
			}
		} else {
			if !ok || v != q[0] {
				return r, &ErrorMismatch{
					Op: "remove", Key: k,
					Expected: q[0], Actual: v, Found: ok,
				}
			}
			model[string(k)] = q[1:]
			live.Delete(v)
			r.Removals++
		}
		if err := lookup(k); err != nil {
			return r, err
		}
	}
	r.RemoveTime = time.Since(start)

	r.Len = t.Len()
	if r.Len != live.Size() {
		return r, &ErrorMismatch{
			Op: "len", Expected: live.Size(), Actual: r.Len, Found: true,
		}
	}
	r.Stats = t.Stats()
	return r, nil
}

// ErrorMismatch reports a table result diverging from the reference model.
// Expected is -1 if the key wasn't expected to be found.
type ErrorMismatch struct {
	Op       string
	Key      []byte
	Expected int
	Actual   int
	Found    bool
}

func (e ErrorMismatch) Error() string {
	if e.Op == "len" {
		return fmt.Sprintf(
			"mismatching len: expected %d, actual %d", e.Expected, e.Actual,
		)
	}
	if !e.Found {
		return fmt.Sprintf(
			"mismatching %s %x: expected %d, not found",
			e.Op, e.Key, e.Expected,
		)
	}
	return fmt.Sprintf(
		"mismatching %s %x: expected %d, actual %d",
		e.Op, e.Key, e.Expected, e.Actual,
	)
}

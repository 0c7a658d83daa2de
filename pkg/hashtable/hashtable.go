// package hashtable provides a fixed-capacity hashtable with
// arbitrary binary keys and external chaining.
// The number of buckets is chosen during initialization and never changes.
// Colliding keys are appended to a singly linked chain per bucket,
// which preserves insertion order within the bucket.
// Keys are copied on insertion, values are stored as is and never inspected.
// By default keys are hashed with Shift5, any custom hasher can be provided.
//
// A Table isn't safe for concurrent use.
package hashtable

import (
	"errors"
	"fmt"
	"math"
)

// MaxBucketCount is the largest bucket count supported by
// the 32-bit index arithmetic.
const MaxBucketCount = math.MaxInt32

var (
	ErrInvalidBucketCount = errors.New("invalid bucket count")
	ErrDestroyed          = errors.New("hashtable destroyed")
)

type entry[V any] struct {
	key   []byte
	value V
	next  *entry[V]
}

// Table is a hashtable backed by a fixed slice of bucket chains.
type Table[V any] struct {
	count     int
	buckets   []*entry[V]
	hasher    Hasher
	destroyed bool
}

// New creates a new table with exactly bucketCount buckets.
// Shift5 is used if hasher is nil.
func New[V any](bucketCount int, hasher Hasher) (*Table[V], error) {
	if bucketCount < 1 || bucketCount > MaxBucketCount {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBucketCount, bucketCount)
	}
	if hasher == nil {
		hasher = Shift5{}
	}
	return &Table[V]{
		buckets: make([]*entry[V], bucketCount),
		hasher:  hasher,
	}, nil
}

// Insert appends a new entry to the end of the key's bucket chain.
// Existing entries with an equal key are not replaced,
// they shadow the new entry until they're removed.
func (t *Table[V]) Insert(key []byte, value V) error {
	if t.destroyed {
		return ErrDestroyed
	}
	e := &entry[V]{
		key:   append(make([]byte, 0, len(key)), key...),
		value: value,
	}

	l := &t.buckets[t.index(key)]
	for *l != nil {
		l = &(*l).next
	}
	*l = e

	t.count++
	return nil
}

// Lookup returns (value, true) of the earliest inserted entry
// with an equal key, otherwise returns (zeroValue, false).
func (t *Table[V]) Lookup(key []byte) (value V, ok bool) {
	t.mustBeLive()
	for e := t.buckets[t.index(key)]; e != nil; e = e.next {
		if equal(e.key, key) {
			return e.value, true
		}
	}
	return value, false
}

// Remove unlinks the earliest inserted entry with an equal key
// and returns (value, true).
// Noop returning (zeroValue, false) if the key doesn't exist.
func (t *Table[V]) Remove(key []byte) (value V, ok bool) {
	t.mustBeLive()
	l := &t.buckets[t.index(key)]
	for *l != nil && !equal((*l).key, key) {
		l = &(*l).next
	}
	e := *l
	if e == nil {
		return value, false
	}

	*l = e.next
	t.count--

	value = e.value
	e.next, e.key = nil, nil
	return value, true
}

// IsEmpty returns true if the table holds no entries.
func (t *Table[V]) IsEmpty() bool {
	t.mustBeLive()
	return t.count == 0
}

// Len returns the number of stored entries including shadowed duplicates.
func (t *Table[V]) Len() int {
	t.mustBeLive()
	return t.count
}

// BucketCount returns the number of buckets the table was created with.
func (t *Table[V]) BucketCount() int {
	return len(t.buckets)
}

// Index returns the index of the bucket key belongs to.
func (t *Table[V]) Index(key []byte) int {
	t.mustBeLive()
	return int(t.index(key))
}

// Destroy releases all entries and the bucket slice.
// Stored values are dropped without being inspected.
// The table must not be used afterwards.
func (t *Table[V]) Destroy() error {
	if t.destroyed {
		return ErrDestroyed
	}
	var zero V
	for i := range t.buckets {
		for e := t.buckets[i]; e != nil; {
			next := e.next
			e.next, e.key, e.value = nil, nil, zero
			t.count--
			e = next
		}
		t.buckets[i] = nil
	}
	t.buckets, t.hasher, t.destroyed = nil, nil, true
	return nil
}

func (t *Table[V]) index(key []byte) uint32 {
	n := uint32(len(t.buckets))
	return (t.hasher.Hash(key) + n) % n
}

func (t *Table[V]) mustBeLive() {
	if t.destroyed {
		panic(ErrDestroyed)
	}
}

// equal reports whether a and b have equal length and equal bytes.
func equal(a, b []byte) bool {
	return len(a) == len(b) && string(a) == string(b)
}

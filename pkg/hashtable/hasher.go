package hashtable

import (
	"errors"
	"fmt"

	"github.com/pierrec/xxHash/xxHash64"
	"github.com/zeebo/xxh3"
)

var ErrUnknownHasher = errors.New("unknown hasher")

// Hasher hashes keys to 32-bit hash values.
// The bucket index is derived from the hash value as
// (hash + bucketCount) % bucketCount in 32-bit unsigned arithmetic.
type Hasher interface{ Hash(key []byte) uint32 }

// Hasher names accepted by HasherByName.
const (
	NameShift5         = "shift5"
	NameShift5Unsigned = "shift5-unsigned"
	NameXXH3           = "xxh3"
	NameXXH64          = "xxh64"
)

// Shift5 starts at 1 and for every key byte b computes
// hash = (hash << 5) ^ b ^ hash
// treating b as a signed 8-bit value.
// Bytes >= 0x80 are sign-extended before the XOR.
type Shift5 struct{}

// Hash hashes key to a 32-bit hash value.
func (Shift5) Hash(key []byte) uint32 {
	h := uint32(1)
	for _, b := range key {
		h = (h << 5) ^ uint32(int8(b)) ^ h
	}
	return h
}

// Shift5Unsigned is Shift5 treating key bytes as unsigned values.
// It only differs from Shift5 for keys containing bytes >= 0x80.
type Shift5Unsigned struct{}

// Hash hashes key to a 32-bit hash value.
func (Shift5Unsigned) Hash(key []byte) uint32 {
	h := uint32(1)
	for _, b := range key {
		h = (h << 5) ^ uint32(b) ^ h
	}
	return h
}

// XXH3 hashes keys with XXH3 from github.com/zeebo/xxh3.
type XXH3 struct{ Seed uint64 }

// Hash hashes key to a 32-bit hash value.
func (h XXH3) Hash(key []byte) uint32 {
	return fold(xxh3.HashSeed(key, h.Seed))
}

// XXH64 hashes keys with XXH64 from github.com/pierrec/xxHash.
type XXH64 struct{ Seed uint64 }

// Hash hashes key to a 32-bit hash value.
func (h XXH64) Hash(key []byte) uint32 {
	return fold(xxHash64.Checksum(key, h.Seed))
}

// HasherByName returns the hasher registered under name.
// seed is ignored by hashers that aren't seeded.
func HasherByName(name string, seed uint64) (Hasher, error) {
	switch name {
	case "", NameShift5:
		return Shift5{}, nil
	case NameShift5Unsigned:
		return Shift5Unsigned{}, nil
	case NameXXH3:
		return XXH3{Seed: seed}, nil
	case NameXXH64:
		return XXH64{Seed: seed}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownHasher, name)
}

// fold folds a 64-bit hash value to 32 bits.
func fold(h uint64) uint32 { return uint32(h>>32) ^ uint32(h) }

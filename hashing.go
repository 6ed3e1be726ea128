// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package coredd

import (
	"encoding/binary"
	"unsafe"

	"github.com/cespare/xxhash/v2"
)

// Hash functions.
//
// Every hash consumed by the tables in this package must come from the same
// primitive, whatever the call site: the cache relies on hash(entry) being
// equal to hash(operation), and the unification table on hash(node) being
// equal to hash(payload). Hash64 is that primitive, a thin accumulator over
// xxhash that mixes 64-bit words one at a time.

// Hash64 accumulates 64-bit words into a hash value. The zero value is ready
// to use; Mix returns the updated accumulator so calls can be chained.
type Hash64 struct {
	d xxhash.Digest
	n int
}

// Mix folds one word into the accumulator.
func (h Hash64) Mix(w uint64) Hash64 {
	if h.n == 0 {
		h.d.Reset()
	}
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], w)
	h.d.Write(b[:])
	h.n++
	return h
}

// Sum returns the hash of all the words mixed so far.
func (h Hash64) Sum() uint64 {
	if h.n == 0 {
		h.d.Reset()
	}
	return h.d.Sum64()
}

// HashWords hashes a sequence of 64-bit words.
func HashWords(ws ...uint64) uint64 {
	var h Hash64
	for _, w := range ws {
		h = h.Mix(w)
	}
	return h.Sum()
}

// HashBytes hashes a slice of bytes.
func HashBytes(bs []byte) uint64 {
	return xxhash.Sum64(bs)
}

// HashString hashes a string without copying it.
func HashString(s string) uint64 {
	return xxhash.Sum64String(s)
}

// hashptr derives a hash from a pointer value.
func hashptr(p unsafe.Pointer) uint64 {
	return HashWords(uint64(uintptr(p)))
}

// nextpow2 returns the smallest power of two greater than or equal to n (and
// at least 1). Bucket counts are always powers of two so that a bucket index
// is a mask of the hash.
func nextpow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

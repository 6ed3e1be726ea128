// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package coredd

import (
	"fmt"
	"log"
)

// Table is a unification (hash-consing) table over payloads of type T. It
// holds the authoritative set of unified values: Make returns a Handle to
// the unique node carrying a payload equal to its argument, building it on
// the first request. Structural equality between handles of one table is
// therefore pointer identity.
//
// The table requires a hash and an equality over payloads, with the usual
// contract that equal payloads hash alike. The optional drop function is
// invoked when a payload leaves the table (on the duplicate of an insertion
// hit, and when the last handle to a value is released); payloads that hold
// handles of their own must release them there.
type Table[T any] struct {
	set  *hashtable[unique[T]]
	hash func(T) uint64
	eq   func(T, T) bool
	drop func(T)

	// One-slot allocation cache. Hash-consing workloads are dominated by
	// duplicate-insert churn: a payload is built only to discover that an
	// equal one is already unified. The freshly discarded node, and the
	// largest discarded trailing buffer, are kept for the next allocation.
	spare    *unique[T]
	sparebuf []byte

	access int
	hits   int
	misses int
	peak   int
}

// NewTable creates a unification table for payloads of type T. drop may be
// nil when payloads hold no resources. Accepted options are TableSize and
// MaxLoadFactor.
func NewTable[T any](hash func(T) uint64, eq func(T, T) bool, drop func(T), options ...func(*configs)) *Table[T] {
	c := makeconfigs()
	for _, f := range options {
		f(c)
	}
	t := &Table[T]{hash: hash, eq: eq, drop: drop}
	t.set = newHashtable(c.tablesize, true, c.maxload,
		func(n *unique[T]) uint64 { return n.hsum },
		func(a, b *unique[T]) bool { return t.eq(a.data, b.data) },
		uniquelink[T])
	return t
}

// Make unifies v and returns an owning handle to the unique node holding it.
// The table takes ownership of v: if v holds handles and an equal payload is
// already unified, v is dropped, releasing them.
func (t *Table[T]) Make(v T) Handle[T] {
	n, _ := t.allocate(0)
	n.data = v
	n.hsum = t.hash(v)
	return t.insert(n, nil)
}

// MakeSized is Make for payloads with a variable-length trailing buffer:
// build receives a zeroed slice of size bytes and returns the payload, which
// is expected to keep the slice. On an insertion hit the buffer is recycled
// into the allocation cache, so steady duplicate churn allocates nothing.
func (t *Table[T]) MakeSized(size int, build func([]byte) T) Handle[T] {
	n, buf := t.allocate(size)
	n.data = build(buf)
	n.hsum = t.hash(n.data)
	return t.insert(n, buf)
}

// allocate returns a node, and a zeroed buffer of at least extra bytes when
// extra is positive, taking both from the one-slot cache when it can serve
// them.
func (t *Table[T]) allocate(extra int) (*unique[T], []byte) {
	n := t.spare
	if n != nil {
		t.spare = nil
	} else {
		n = new(unique[T])
	}
	var buf []byte
	if extra > 0 {
		if cap(t.sparebuf) >= extra {
			buf = t.sparebuf[:extra]
			for i := range buf {
				buf[i] = 0
			}
			t.sparebuf = nil
		} else {
			buf = make([]byte, extra)
		}
	}
	return n, buf
}

// insert adds the pre-built node to the table. On a miss the node becomes
// the unified value; on a hit the duplicate payload is dropped and its slab
// feeds the allocation cache (the buffer only when strictly larger than the
// cached one). Either way the returned handle points at the unified node.
func (t *Table[T]) insert(n *unique[T], buf []byte) Handle[T] {
	t.access++
	found, inserted := t.set.insert(n)
	if !inserted {
		t.hits++
		t.reclaim(n, buf)
	} else {
		t.misses++
		if t.set.size > t.peak {
			t.peak = t.set.size
		}
	}
	return makehandle(t, found)
}

func (t *Table[T]) reclaim(n *unique[T], buf []byte) {
	if t.drop != nil {
		t.drop(n.data)
	}
	var zero T
	n.data = zero
	n.next = nil
	t.spare = n
	if cap(buf) > cap(t.sparebuf) {
		t.sparebuf = buf[:0]
	}
}

// erase removes n from the table once its last reference is gone, dropping
// the payload. Called by Handle.Release.
func (t *Table[T]) erase(n *unique[T]) {
	if _DEBUG && n.refcou != 0 {
		log.Panicf("erase of a node with %d live references", n.refcou)
	}
	t.set.erase(n)
	if t.drop != nil {
		t.drop(n.data)
	}
	var zero T
	n.data = zero
}

// Size returns the number of unified values.
func (t *Table[T]) Size() int {
	return t.set.size
}

// ************************************************************

// TableStats is a snapshot of the observational counters of a Table. It has
// no semantic role.
type TableStats struct {
	Size       int     // number of unified values
	Peak       int     // maximum number of values ever stored
	Access     int     // insertions attempted
	Hits       int     // insertions that found an existing value
	Misses     int     // insertions that created a value
	Rehash     int     // times the bucket array was doubled
	Collisions int     // buckets holding more than one value
	Alone      int     // buckets holding exactly one value
	Empty      int     // empty buckets
	Buckets    int     // number of buckets
	LoadFactor float64 // size / buckets
}

// Stats materializes the current statistics of the table.
func (t *Table[T]) Stats() TableStats {
	s := TableStats{
		Size:       t.set.size,
		Peak:       t.peak,
		Access:     t.access,
		Hits:       t.hits,
		Misses:     t.misses,
		Rehash:     t.set.nrehash,
		Buckets:    t.set.bucketCount(),
		LoadFactor: t.set.loadFactor(),
	}
	s.Collisions, s.Alone, s.Empty = t.set.collisions()
	return s
}

func (s TableStats) String() string {
	res := fmt.Sprintf("Size:       %d\n", s.Size)
	res += fmt.Sprintf("Peak:       %d\n", s.Peak)
	res += fmt.Sprintf("Access:     %d\n", s.Access)
	res += fmt.Sprintf("Hits:       %d\n", s.Hits)
	res += fmt.Sprintf("Misses:     %d\n", s.Misses)
	res += fmt.Sprintf("Rehash:     %d\n", s.Rehash)
	res += fmt.Sprintf("Buckets:    %d (%d collisions, %d alone, %d empty)\n", s.Buckets, s.Collisions, s.Alone, s.Empty)
	res += fmt.Sprintf("Load:       %.3g", s.LoadFactor)
	return res
}

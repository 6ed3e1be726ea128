// Copyright 2021. Silvano DAL ZILIO.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

package coredd

import (
	"fmt"
	"math"
)

// ************************************************************
// cache for memoizing pure operations over unified values

// Operation is the contract of a memoizable computation: a value carrying
// the inputs of the computation, used as the cache key. Run must be pure
// with respect to operations considered Equal, and Hash must agree with
// Equal. The context argument is opaque to the cache; it typically carries
// the cache itself so that Run can recurse through it.
type Operation[O, C, R any] interface {
	Hash() uint64
	Equal(O) bool
	Run(C) (R, error)
}

// centry associates an operation to its result in the cache. The operation
// acts as the key and both fields are immutable after construction; only the
// entry's position in the LRU list changes. An entry hashes like its
// operation, and two entries are equal when their operations are, which is
// what keeps probe and erase in the same bucket.
type centry[O, R any] struct {
	next         *centry[O, R] // hash chain; free-list link while pooled
	lprev, lnext *centry[O, R] // LRU links
	hsum         uint64
	op           O
	result       R
}

func centrylink[O, R any](e *centry[O, R]) **centry[O, R] {
	return &e.next
}

// CacheHooks tie cached operations and results into a reference-counting
// lifecycle. When results (or operations) contain Handles, the cache must
// own references of its own: RetainRes is applied to a result before it is
// stored in an entry and before a memoized result is returned to the caller,
// RetainOp to an operation before it is stored, and the Release pair runs
// when an entry is evicted or cleared. All four are optional; plain-value
// operations and results need none of them.
type CacheHooks[O, R any] struct {
	RetainOp   func(O) O
	RetainRes  func(R) R
	ReleaseOp  func(O)
	ReleaseRes func(R)
}

// maximal load factor of the fixed hash table backing a cache
const _CACHELOADFACTOR float64 = 0.85

// Cache memoizes the results of pure operations, up to a fixed capacity.
// When the cache is full, committing a new result evicts the least recently
// used entry. All the memory a cache needs is allocated at construction: the
// bucket array is sized so that capacity entries stay under the load-factor
// cap (so the table never rehashes) and entries come from a fixed pool.
type Cache[O Operation[O, C, R], C, R any] struct {
	ctx      C
	set      *hashtable[centry[O, R]]
	lru      lruList[centry[O, R]]
	pool     *pool[centry[O, R]]
	capacity int
	hooks    CacheHooks[O, R]
	filters  []func(O) bool

	hits      int
	misses    int
	filtered  int
	discarded int
}

// NewCache creates a cache memoizing up to size results of operations of
// type O, evaluated against ctx. hooks may be nil. Filters are pure
// predicates applied in declared order: an operation is memoized only when
// every filter accepts it, and a rejected operation is evaluated directly
// without touching the cache. A filter must return the same verdict for
// equal operations for the lifetime of the program.
func NewCache[O Operation[O, C, R], C, R any](ctx C, size int, hooks *CacheHooks[O, R], filters ...func(O) bool) *Cache[O, C, R] {
	if size < 1 {
		size = 1
	}
	c := &Cache[O, C, R]{ctx: ctx, capacity: size, filters: filters}
	if hooks != nil {
		c.hooks = *hooks
	}
	nbuckets := nextpow2(int(math.Ceil(float64(size) / _CACHELOADFACTOR)))
	c.set = newHashtable(nbuckets, false, _CACHELOADFACTOR,
		func(e *centry[O, R]) uint64 { return e.hsum },
		func(a, b *centry[O, R]) bool { return a.op.Equal(b.op) },
		centrylink[O, R])
	c.lru = newLRUList(
		func(e *centry[O, R]) **centry[O, R] { return &e.lprev },
		func(e *centry[O, R]) **centry[O, R] { return &e.lnext })
	c.pool = newPool(size, centrylink[O, R])
	return c
}

// Do returns the result of op, either memoized or computed by running op
// against the cache's context. An error from Run is propagated to the caller
// with the cache left untouched (beyond the miss being counted): no entry is
// created, no eviction happens.
func (c *Cache[O, C, R]) Do(op O) (R, error) {
	// Check if the operation should be cached at all.
	for _, filter := range c.filters {
		if !filter(op) {
			c.filtered++
			return op.Run(c.ctx)
		}
	}

	// Probe for op. The commit token stays valid across everything below:
	// a fixed table never moves its buckets.
	sum := op.Hash()
	hit, commit := c.set.insertCheck(sum, func(e *centry[O, R]) bool { return op.Equal(e.op) })
	if hit != nil {
		c.hits++
		c.lru.moveToBack(hit)
		res := hit.result
		if c.hooks.RetainRes != nil {
			res = c.hooks.RetainRes(res)
		}
		return res, nil
	}

	c.misses++
	res, err := op.Run(c.ctx) // evaluation may fail
	if err != nil {
		var zero R
		return zero, err
	}

	// Make room, if necessary.
	if c.set.size == c.capacity {
		oldest := c.lru.popFront()
		c.set.erase(oldest)
		c.dispose(oldest)
		c.discarded++
	}

	e := c.pool.allocate()
	e.hsum = sum
	e.op = op
	e.result = res
	if c.hooks.RetainOp != nil {
		e.op = c.hooks.RetainOp(op)
	}
	if c.hooks.RetainRes != nil {
		e.result = c.hooks.RetainRes(res)
	}
	c.lru.pushBack(e)
	c.set.insertCommit(e, commit) // never fails

	return res, nil
}

// dispose releases an entry's references and returns its slot to the pool.
// The entry must already be unlinked from the hash table.
func (c *Cache[O, C, R]) dispose(e *centry[O, R]) {
	if c.hooks.ReleaseOp != nil {
		c.hooks.ReleaseOp(e.op)
	}
	if c.hooks.ReleaseRes != nil {
		c.hooks.ReleaseRes(e.result)
	}
	*e = centry[O, R]{}
	c.pool.deallocate(e)
}

// Clear removes every entry from the cache, returning all slots to the pool.
// Statistics are not reset.
func (c *Cache[O, C, R]) Clear() {
	c.set.clearAndDispose(func(e *centry[O, R]) { c.dispose(e) })
	c.lru.reset()
}

// Size returns the number of memoized operations.
func (c *Cache[O, C, R]) Size() int {
	return c.set.size
}

// ************************************************************

// CacheStats is a snapshot of the observational counters of a Cache. It has
// no semantic role.
type CacheStats struct {
	Size       int     // number of memoized operations
	Hits       int     // lookups resolved from the cache
	Misses     int     // lookups that ran the operation
	Filtered   int     // lookups rejected by a filter
	Discarded  int     // entries evicted by the LRU policy
	Collisions int     // buckets holding more than one entry
	Alone      int     // buckets holding exactly one entry
	Empty      int     // empty buckets
	Buckets    int     // number of buckets
	LoadFactor float64 // size / buckets
}

// Stats materializes the current statistics of the cache.
func (c *Cache[O, C, R]) Stats() CacheStats {
	s := CacheStats{
		Size:       c.set.size,
		Hits:       c.hits,
		Misses:     c.misses,
		Filtered:   c.filtered,
		Discarded:  c.discarded,
		Buckets:    c.set.bucketCount(),
		LoadFactor: c.set.loadFactor(),
	}
	s.Collisions, s.Alone, s.Empty = c.set.collisions()
	return s
}

func (s CacheStats) String() string {
	res := fmt.Sprintf("Size:       %d\n", s.Size)
	res += fmt.Sprintf("Hits:       %d\n", s.Hits)
	res += fmt.Sprintf("Misses:     %d\n", s.Misses)
	res += fmt.Sprintf("Filtered:   %d\n", s.Filtered)
	res += fmt.Sprintf("Discarded:  %d\n", s.Discarded)
	res += fmt.Sprintf("Buckets:    %d (%d collisions, %d alone, %d empty)\n", s.Buckets, s.Collisions, s.Alone, s.Empty)
	res += fmt.Sprintf("Load:       %.3g", s.LoadFactor)
	return res
}

// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package coredd

import "log"

// hashtable is an intrusive chained hash table: the chain link lives inside
// the stored element and is reached through the link accessor supplied at
// construction. Collisions are resolved by a singly-linked chain per bucket.
//
// A table comes in one of two modes. A growing table (grow == true) accepts
// insert and doubles its bucket array when the load factor reaches maxload;
// rehashing moves links only, never element bodies, so pointers into the
// table remain valid. A fixed table never reallocates: lookups go through
// insertCheck, which returns a commit token, and insertCommit, which appends
// the element at the tail of the chain identified by the token. The caller is
// responsible for keeping the element count under bucketCount() * maxload.
type hashtable[E any] struct {
	buckets []*E
	size    int
	grow    bool
	maxload float64
	nrehash int
	hash    func(*E) uint64 // must agree with eq: eq(a,b) => hash(a) == hash(b)
	eq      func(*E, *E) bool
	link    func(*E) **E
}

// insertCommitData identifies the bucket found by insertCheck.
type insertCommitData struct {
	bucket int
}

func newHashtable[E any](size int, grow bool, maxload float64,
	hash func(*E) uint64, eq func(*E, *E) bool, link func(*E) **E) *hashtable[E] {
	return &hashtable[E]{
		buckets: make([]*E, nextpow2(size)),
		grow:    grow,
		maxload: maxload,
		hash:    hash,
		eq:      eq,
		link:    link,
	}
}

func (h *hashtable[E]) index(sum uint64, nbuckets int) int {
	return int(sum & uint64(nbuckets-1))
}

// insertCheck hashes the key and scans its chain for an element matching
// pred. It returns the element found, or nil together with a token that
// insertCommit can use to append a new element to the same bucket. Fixed
// mode only.
func (h *hashtable[E]) insertCheck(keysum uint64, pred func(*E) bool) (*E, insertCommitData) {
	pos := h.index(keysum, len(h.buckets))
	for e := h.buckets[pos]; e != nil; e = *h.link(e) {
		if pred(e) {
			return e, insertCommitData{bucket: pos}
		}
	}
	return nil, insertCommitData{bucket: pos}
}

// insertCommit appends x at the tail of the chain identified by c. Appending
// at the tail keeps a bucket in insertion order, which makes lookups
// deterministic; it is also measurably faster than head insertion for the
// access pattern of an operation cache. Never fails.
func (h *hashtable[E]) insertCommit(x *E, c insertCommitData) {
	*h.link(x) = nil
	cur := &h.buckets[c.bucket]
	for *cur != nil {
		cur = h.link(*cur)
	}
	*cur = x
	h.size++
}

// insert adds x to a growing table. If an element equal to x is already
// present it is returned with false and the table is left unchanged;
// otherwise x is inserted at the head of its chain and returned with true,
// after a possible rehash.
func (h *hashtable[E]) insert(x *E) (*E, bool) {
	pos := h.index(h.hash(x), len(h.buckets))
	for e := h.buckets[pos]; e != nil; e = *h.link(e) {
		if h.eq(x, e) {
			return e, false
		}
	}
	*h.link(x) = h.buckets[pos]
	h.buckets[pos] = x
	h.size++
	if h.grow && h.loadFactor() >= h.maxload {
		h.rehash()
	}
	return x, true
}

// rehash doubles the bucket array and redistributes every chain. Elements
// keep their identity: only the intrusive links are rewritten.
func (h *hashtable[E]) rehash() {
	h.nrehash++
	nbuckets := len(h.buckets) * 2
	buckets := make([]*E, nbuckets)
	for _, e := range h.buckets {
		for e != nil {
			next := *h.link(e)
			pos := h.index(h.hash(e), nbuckets)
			*h.link(e) = buckets[pos]
			buckets[pos] = e
			e = next
		}
	}
	h.buckets = buckets
	if _LOGLEVEL > 1 {
		log.Printf("rehash: %d buckets, %d elements\n", nbuckets, h.size)
	}
}

// erase unlinks the element equal to x from its chain. Erasing an element
// that is not in the table is a contract violation.
func (h *hashtable[E]) erase(x *E) {
	pos := h.index(h.hash(x), len(h.buckets))
	cur := &h.buckets[pos]
	for *cur != nil {
		if h.eq(x, *cur) {
			*cur = *h.link(*cur)
			h.size--
			return
		}
		cur = h.link(*cur)
	}
	if _DEBUG {
		log.Panicf("erase: element not found in bucket %d", pos)
	}
}

// clearAndDispose walks every bucket, invokes dispose on each element, and
// resets the table to empty. The disposer is expected to release the
// element's storage; the element's chain link is dead after the call.
func (h *hashtable[E]) clearAndDispose(dispose func(*E)) {
	for i := range h.buckets {
		e := h.buckets[i]
		for e != nil {
			next := *h.link(e)
			dispose(e)
			e = next
		}
		h.buckets[i] = nil
	}
	h.size = 0
}

func (h *hashtable[E]) bucketCount() int {
	return len(h.buckets)
}

func (h *hashtable[E]) loadFactor() float64 {
	return float64(h.size) / float64(len(h.buckets))
}

// collisions scans the buckets and counts those holding more than one
// element, exactly one element, and none.
func (h *hashtable[E]) collisions() (multi, alone, empty int) {
	for _, e := range h.buckets {
		nb := 0
		for ; e != nil; e = *h.link(e) {
			nb++
		}
		switch {
		case nb == 0:
			empty++
		case nb == 1:
			alone++
		default:
			multi++
		}
	}
	return multi, alone, empty
}

// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package coredd

import (
	"log"
	"math"
	"unsafe"
)

// unique wraps a unified payload with the bookkeeping the table needs: the
// intrusive chain link, the payload hash (computed once at construction, so
// recomputing a stored element's bucket is a mask away), and the reference
// count. The payload is written once when the node is built and never
// mutated; the reference count is the only mutable field.
type unique[T any] struct {
	next   *unique[T] // hash chain
	hsum   uint64
	refcou uint32
	data   T
}

func uniquelink[T any](n *unique[T]) **unique[T] {
	return &n.next
}

// Handle is an owning, reference-counted pointer to a unified value. Handles
// are obtained from a Table (or a Unicity) and shared with Clone; every
// handle, original or cloned, must be dropped with Release exactly once.
// Comparing two handles with == is pointer identity, which hash-consing
// guarantees is the same as structural equality of the values (for handles
// of a single table).
//
// A handle carries a reference to its table, so releasing the last reference
// erases the value without any process-global callback registry.
type Handle[T any] struct {
	n   *unique[T]
	tab *Table[T]
}

func makehandle[T any](t *Table[T], n *unique[T]) Handle[T] {
	if _DEBUG && n.refcou == math.MaxUint32 {
		log.Panic("reference count overflow")
	}
	n.refcou++
	return Handle[T]{n: n, tab: t}
}

// Clone returns a new handle sharing ownership of the same value.
func (h Handle[T]) Clone() Handle[T] {
	return makehandle(h.tab, h.n)
}

// Release drops this handle's reference. When the last reference is dropped
// the value is removed from its unification table. The handle is invalid
// afterwards; in debug builds a second Release panics.
func (h *Handle[T]) Release() {
	n := h.n
	if _DEBUG && (n == nil || n.refcou == 0) {
		log.Panic("release of a dead handle")
	}
	h.n = nil
	n.refcou--
	if n.refcou == 0 {
		h.tab.erase(n)
	}
}

// Swap exchanges the values of two handles.
func (h *Handle[T]) Swap(o *Handle[T]) {
	*h, *o = *o, *h
}

// Value returns the unified payload. The payload is immutable; if it holds
// handles of its own, those stay valid for as long as this value is alive.
func (h Handle[T]) Value() T {
	return h.n.data
}

// Hash returns a hash derived from the node's address, consistent with ==
// on handles.
func (h Handle[T]) Hash() uint64 {
	return hashptr(unsafe.Pointer(h.n))
}

// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

/*
Package coredd provides the two cooperating engines at the heart of
decision-diagram libraries: a unification (hash-consing) table that guarantees
structural uniqueness of immutable, recursively-composed values, and a
memoization cache for pure operations over those values, with LRU eviction and
a fixed memory footprint.

Basics

A Table unifies values: two structurally equal payloads are represented by
exactly one node, so equality between Handles reduces to pointer identity. A
Cache maps operations to memoized results; when it is full, the least recently
used entry is evicted. Together they turn a naive, exponential-time recursion
over term trees into a linear walk of the underlying DAG with result reuse.

Payloads are typically tagged unions. The Universe, Tag and Sum types declare
a discriminated union of up to 255 variants, each with its own hash and
equality; Unicity binds such a universe to a Table and returns Handles from
Make and MakeSized. Dispatching over the variants of a Sum is an ordinary
type switch on its Value.

Reference counting

Handles are reference counted explicitly: Clone shares a reference, Release
drops one. When the last reference to a node is released, the node is removed
from its table. A payload given to Make owns the handle references it
contains; the table takes that ownership, so build payloads with cloned (or
freshly returned) handles and do not release them afterwards.

None of the types in this package are safe for concurrent use. All operations
complete synchronously on the caller goroutine.

Use of build tags

To unlock logging and internal contract checks (refcount underflow, erase of
an absent element, pool exhaustion), compile with the build tag `debug`.
Statistics, on the other hand, are always available: see TableStats and
CacheStats.
*/
package coredd

// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package coredd

import (
	"log"
	"reflect"
)

// maximum number of variants in a Universe; the variant index is stored in
// one byte.
const _MAXVARIANTS = 255

// Universe declares the set of variants a Sum can hold. Variants are added
// with Register, each with its own hash and equality (and an optional drop
// for payloads holding handles); a Universe is then bound to a unification
// table with NewUnicity. Registration order assigns the variant indices.
type Universe struct {
	variants []variantOps
	bytype   map[reflect.Type]uint8
}

type variantOps struct {
	typ  reflect.Type
	hash func(any) uint64
	eq   func(any, any) bool
	drop func(any)
}

func NewUniverse() *Universe {
	return &Universe{bytype: make(map[reflect.Type]uint8)}
}

// Tag identifies one registered variant of a Universe.
type Tag[V any] struct {
	u     *Universe
	index uint8
}

// Register declares a new variant of type V in u and returns its tag. A
// universe holds at most 255 variants; registering more panics. The same Go
// type may back several variants (the tags keep them apart), in which case
// the type-based helpers Is and Cast accept a value of any of them.
func Register[V any](u *Universe, hash func(V) uint64, eq func(V, V) bool, drop func(V)) Tag[V] {
	if len(u.variants) >= _MAXVARIANTS {
		log.Panicf("universe full: at most %d variants", _MAXVARIANTS)
	}
	ops := variantOps{
		typ:  reflect.TypeOf((*V)(nil)).Elem(),
		hash: func(x any) uint64 { return hash(x.(V)) },
		eq:   func(a, b any) bool { return eq(a.(V), b.(V)) },
	}
	if drop != nil {
		ops.drop = func(x any) { drop(x.(V)) }
	}
	index := uint8(len(u.variants))
	u.variants = append(u.variants, ops)
	if _, ok := u.bytype[ops.typ]; !ok {
		u.bytype[ops.typ] = index
	}
	return Tag[V]{u: u, index: index}
}

// Index returns the variant index assigned to this tag.
func (tg Tag[V]) Index() uint8 {
	return tg.index
}

// ************************************************************

// Sum is a discriminated value over the variants of a Universe: a variant
// index plus the value of that variant. A Sum is immutable once built.
// Equality holds only when the indices match and the variant values compare
// equal; the hash mixes the variant hash with the index, so equal values
// under different tags unify separately.
type Sum struct {
	u     *Universe
	index uint8
	val   any
}

// New wraps v as a Sum under this tag.
func (tg Tag[V]) New(v V) Sum {
	return Sum{u: tg.u, index: tg.index, val: v}
}

// Matches reports whether s holds this tag's variant. Unlike Is, it
// discriminates between variants sharing a Go type.
func (tg Tag[V]) Matches(s Sum) bool {
	return s.u == tg.u && s.index == tg.index
}

// Index returns the index of the variant held by s.
func (s Sum) Index() uint8 {
	return s.index
}

// Value returns the variant value held by s. Dispatching over the variants
// of a Sum is a type switch on this value; a binary dispatch is a nested
// type switch.
func (s Sum) Value() any {
	return s.val
}

// Hash mixes the active variant's hash with the variant index.
func (s Sum) Hash() uint64 {
	return HashWords(s.u.variants[s.index].hash(s.val), uint64(s.index))
}

// Equal reports structural equality of two sums of the same universe.
func (s Sum) Equal(o Sum) bool {
	if s.index != o.index {
		return false
	}
	return s.u.variants[s.index].eq(s.val, o.val)
}

// dispose dispatches to the active variant's drop function, if any.
func (s Sum) dispose() {
	if s.u == nil {
		return
	}
	if d := s.u.variants[s.index].drop; d != nil {
		d(s.val)
	}
}

// SumIs reports whether s holds a value of type V.
func SumIs[V any](s Sum) bool {
	_, ok := s.val.(V)
	return ok
}

// SumCast returns the value of s as a V; it panics when s holds another
// variant type.
func SumCast[V any](s Sum) V {
	return s.val.(V)
}

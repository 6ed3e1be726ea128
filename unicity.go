// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package coredd

import "log"

// Unicity binds a Universe of variants to a unification table over Sum
// payloads. It is the usual entry point for decision-diagram style clients:
// declare the variants, create a Unicity, then build terms with Make and
// MakeSized and compose the returned handles.
type Unicity struct {
	univ *Universe
	tab  *Table[Sum]
}

// NewUnicity creates the unification table for a universe. Accepted options
// are TableSize and MaxLoadFactor.
func NewUnicity(u *Universe, options ...func(*configs)) *Unicity {
	if _DEBUG && len(u.variants) == 0 {
		log.Panic("universe with no registered variant")
	}
	return &Unicity{
		univ: u,
		tab:  NewTable[Sum](Sum.Hash, Sum.Equal, Sum.dispose, options...),
	}
}

// Make unifies a value of the tagged variant and returns an owning handle.
// The payload ownership rule of Table.Make applies: v's handle references,
// if any, are taken over by the table.
func Make[V any](un *Unicity, tag Tag[V], v V) Handle[Sum] {
	checktag(un, tag)
	return un.tab.Make(tag.New(v))
}

// MakeSized is Make for variants carrying a variable-length trailing buffer;
// build receives a zeroed slice of size bytes and returns the variant value,
// which is expected to keep the slice.
func MakeSized[V any](un *Unicity, tag Tag[V], size int, build func([]byte) V) Handle[Sum] {
	checktag(un, tag)
	return un.tab.MakeSized(size, func(buf []byte) Sum {
		return tag.New(build(buf))
	})
}

func checktag[V any](un *Unicity, tag Tag[V]) {
	if _DEBUG && tag.u != un.univ {
		log.Panic("tag registered in another universe")
	}
}

// Is reports whether the handle's value holds a variant of type V.
func Is[V any](h Handle[Sum]) bool {
	return SumIs[V](h.n.data)
}

// Cast returns the handle's value as a V; it panics when the value holds
// another variant type.
func Cast[V any](h Handle[Sum]) V {
	return SumCast[V](h.n.data)
}

// Size returns the number of unified values.
func (un *Unicity) Size() int {
	return un.tab.Size()
}

// Stats materializes the statistics of the underlying unification table.
func (un *Unicity) Stats() TableStats {
	return un.tab.Stats()
}

// Table exposes the underlying unification table.
func (un *Unicity) Table() *Table[Sum] {
	return un.tab
}

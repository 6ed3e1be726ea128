// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package coredd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func inthash(v int) uint64 { return HashWords(uint64(v)) }

func inteq(a, b int) bool { return a == b }

func TestVariantIndices(t *testing.T) {
	u := NewUniverse()
	a := Register(u, inthash, inteq, nil)
	b := Register(u, func(string) uint64 { return 0 }, func(x, y string) bool { return x == y }, nil)
	require.Equal(t, uint8(0), a.Index())
	require.Equal(t, uint8(1), b.Index())

	s := a.New(7)
	require.Equal(t, uint8(0), s.Index())
	require.Equal(t, 7, s.Value())
	require.True(t, a.Matches(s))
	require.False(t, b.Matches(s))
	require.True(t, SumIs[int](s))
	require.False(t, SumIs[string](s))
	require.Equal(t, 7, SumCast[int](s))
}

func TestVariantEqualityAndHash(t *testing.T) {
	u := NewUniverse()
	a := Register(u, inthash, inteq, nil)
	b := Register(u, inthash, inteq, nil) // same Go type, distinct variant

	require.True(t, a.New(7).Equal(a.New(7)))
	require.False(t, a.New(7).Equal(a.New(8)))
	// equality never holds across variant indices, even for equal values
	require.False(t, a.New(7).Equal(b.New(7)))
	// and the hash mixes the index, so the two variants unify separately
	require.NotEqual(t, a.New(7).Hash(), b.New(7).Hash())
	require.Equal(t, a.New(7).Hash(), a.New(7).Hash())

	// tags keep same-typed variants apart where Is cannot
	require.True(t, b.Matches(b.New(7)))
	require.False(t, a.Matches(b.New(7)))

	un := NewUnicity(u)
	ha := Make(un, a, 7)
	hb := Make(un, b, 7)
	require.NotEqual(t, ha, hb)
	require.Equal(t, 2, un.Size())
	hb.Release()
	ha.Release()
}

// TestVariantLimit registers the maximum number of variants and checks that
// one more panics.
func TestVariantLimit(t *testing.T) {
	u := NewUniverse()
	tags := make([]Tag[int], 0, _MAXVARIANTS)
	for i := 0; i < _MAXVARIANTS; i++ {
		tags = append(tags, Register(u, inthash, inteq, nil))
	}
	require.Equal(t, uint8(_MAXVARIANTS-1), tags[_MAXVARIANTS-1].Index())
	require.Panics(t, func() { Register(u, inthash, inteq, nil) })

	// all 255 variants are usable
	un := NewUnicity(u)
	first := Make(un, tags[0], 1)
	last := Make(un, tags[_MAXVARIANTS-1], 1)
	require.NotEqual(t, first, last)
	require.Equal(t, 2, un.Size())
	last.Release()
	first.Release()
}

func TestVariantDrop(t *testing.T) {
	dropped := []int{}
	u := NewUniverse()
	tag := Register(u, inthash, inteq, func(v int) { dropped = append(dropped, v) })
	un := NewUnicity(u)

	h := Make(un, tag, 5)
	dup := Make(un, tag, 5) // duplicate payload dropped on the hit
	require.Equal(t, []int{5}, dropped)
	dup.Release()
	require.Equal(t, []int{5}, dropped, "live value must not be dropped")
	h.Release()
	require.Equal(t, []int{5, 5}, dropped, "last release drops the payload")
	require.Equal(t, 0, un.Size())
}

// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package coredd_test

import (
	"errors"
	"fmt"

	"github.com/dalzilio/coredd"
)

// A minimal decision diagram: two terminals and a binary node ordered by
// variable. Node equality and hash go through the handles of the children,
// which unification makes as cheap as comparing pointers.

type Zero struct{}

type One struct{}

type Node struct {
	Variable int
	Lo, Hi   coredd.Handle[coredd.Sum]
}

// SumOperation memoizes Sum(lhs, rhs), defined by: Sum(0, x) = x,
// Sum(x, 0) = x, Sum(1, 1) = 1, and recursion on nodes over the same
// variable.
type SumOperation struct {
	Lhs, Rhs coredd.Handle[coredd.Sum]
}

type sumContext struct {
	un    *coredd.Unicity
	node  coredd.Tag[Node]
	cache *coredd.Cache[SumOperation, *sumContext, coredd.Handle[coredd.Sum]]
}

func (o SumOperation) Hash() uint64 {
	return coredd.HashWords(o.Lhs.Hash(), o.Rhs.Hash())
}

func (o SumOperation) Equal(p SumOperation) bool {
	return o.Lhs == p.Lhs && o.Rhs == p.Rhs
}

func (o SumOperation) Run(c *sumContext) (coredd.Handle[coredd.Sum], error) {
	if coredd.Is[Zero](o.Lhs) {
		return o.Rhs.Clone(), nil
	}
	if coredd.Is[Zero](o.Rhs) {
		return o.Lhs.Clone(), nil
	}
	rv := o.Rhs.Value().Value()
	switch l := o.Lhs.Value().Value().(type) {
	case One:
		if _, ok := rv.(One); ok {
			return o.Lhs.Clone(), nil
		}
	case Node:
		if r, ok := rv.(Node); ok && l.Variable == r.Variable {
			lo, err := c.cache.Do(SumOperation{l.Lo, r.Lo})
			if err != nil {
				return coredd.Handle[coredd.Sum]{}, err
			}
			hi, err := c.cache.Do(SumOperation{l.Hi, r.Hi})
			if err != nil {
				lo.Release()
				return coredd.Handle[coredd.Sum]{}, err
			}
			return coredd.Make(c.un, c.node, Node{Variable: l.Variable, Lo: lo, Hi: hi}), nil
		}
	}
	return coredd.Handle[coredd.Sum]{}, errors.New("incompatible operands")
}

// This example shows the basic usage of the package: declare the variants of
// a small decision diagram, unify some terms, and run a memoized sum over
// them.
func Example_basic() {
	u := coredd.NewUniverse()
	zero := coredd.Register(u,
		func(Zero) uint64 { return 0 },
		func(Zero, Zero) bool { return true },
		nil)
	one := coredd.Register(u,
		func(One) uint64 { return 1 },
		func(One, One) bool { return true },
		nil)
	node := coredd.Register(u,
		func(n Node) uint64 { return coredd.HashWords(uint64(n.Variable), n.Lo.Hash(), n.Hi.Hash()) },
		func(lhs, rhs Node) bool {
			return lhs.Variable == rhs.Variable && lhs.Lo == rhs.Lo && lhs.Hi == rhs.Hi
		},
		func(n Node) { n.Lo.Release(); n.Hi.Release() })

	un := coredd.NewUnicity(u, coredd.TableSize(2048))
	cxt := &sumContext{un: un, node: node}
	cxt.cache = coredd.NewCache[SumOperation, *sumContext, coredd.Handle[coredd.Sum]](cxt, 8192,
		&coredd.CacheHooks[SumOperation, coredd.Handle[coredd.Sum]]{
			RetainOp: func(o SumOperation) SumOperation {
				return SumOperation{Lhs: o.Lhs.Clone(), Rhs: o.Rhs.Clone()}
			},
			RetainRes:  func(h coredd.Handle[coredd.Sum]) coredd.Handle[coredd.Sum] { return h.Clone() },
			ReleaseOp:  func(o SumOperation) { o.Lhs.Release(); o.Rhs.Release() },
			ReleaseRes: func(h coredd.Handle[coredd.Sum]) { h.Release() },
		})

	hone := coredd.Make(un, one, One{})
	hzero := coredd.Make(un, zero, Zero{})

	// two distinct nodes over variable 0, whose sum is Node(0, 1, 1)
	n1 := coredd.Make(un, node, Node{Variable: 0, Lo: hone.Clone(), Hi: hzero.Clone()})
	n2 := coredd.Make(un, node, Node{Variable: 0, Lo: hzero.Clone(), Hi: hone.Clone()})

	res, _ := cxt.cache.Do(SumOperation{n1, n2})
	bis, _ := cxt.cache.Do(SumOperation{n1, n2})

	fmt.Printf("unified values: %d\n", un.Size())
	fmt.Printf("cache hits: %d\n", cxt.cache.Stats().Hits)
	r := coredd.Cast[Node](res)
	fmt.Printf("sum is Node(%d, One, One): %v\n", r.Variable, r.Lo == hone && r.Hi == hone && res == bis)
	// Output:
	// unified values: 5
	// cache hits: 1
	// sum is Node(0, One, One): true
}

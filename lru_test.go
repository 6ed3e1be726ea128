// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package coredd

import "testing"

type lruelem struct {
	id         int
	prev, next *lruelem
}

func newlrutest() (lruList[lruelem], []*lruelem) {
	l := newLRUList(
		func(e *lruelem) **lruelem { return &e.prev },
		func(e *lruelem) **lruelem { return &e.next })
	elems := make([]*lruelem, 5)
	for i := range elems {
		elems[i] = &lruelem{id: i}
		l.pushBack(elems[i])
	}
	return l, elems
}

func order(l *lruList[lruelem]) []int {
	res := []int{}
	for e := l.front(); e != nil; e = e.next {
		res = append(res, e.id)
	}
	return res
}

func eqorder(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestLRUList(t *testing.T) {
	l, elems := newlrutest()
	if !eqorder(order(&l), []int{0, 1, 2, 3, 4}) {
		t.Fatalf("initial order: %v", order(&l))
	}

	// promoting the middle, the front, and the back
	l.moveToBack(elems[2])
	l.moveToBack(elems[0])
	l.moveToBack(elems[0])
	if !eqorder(order(&l), []int{1, 3, 4, 2, 0}) {
		t.Errorf("order after promotions: %v", order(&l))
	}

	// front is the oldest
	if e := l.popFront(); e != elems[1] {
		t.Errorf("popFront: expected 1, actual %d", e.id)
	}
	if !eqorder(order(&l), []int{3, 4, 2, 0}) {
		t.Errorf("order after popFront: %v", order(&l))
	}

	// popping down to empty
	for i := 0; i < 4; i++ {
		if l.popFront() == nil {
			t.Fatalf("popFront returned nil with %d elements left", 4-i)
		}
	}
	if l.popFront() != nil || l.front() != nil {
		t.Errorf("list not empty after popping everything")
	}

	// a single element can be promoted and popped
	l.pushBack(elems[3])
	l.moveToBack(elems[3])
	if e := l.popFront(); e != elems[3] {
		t.Errorf("singleton: expected 3, actual %v", e)
	}
}

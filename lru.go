// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package coredd

// lruList is an intrusive doubly-linked list ordering cache entries by last
// access: the front is the oldest entry, the back the most recent. The prev
// and next links live inside the entries themselves, so moveToBack is O(1)
// without search and without allocation. The list does not own its elements;
// it only orders them.
type lruList[E any] struct {
	head, tail *E
	prev       func(*E) **E
	next       func(*E) **E
}

func newLRUList[E any](prev, next func(*E) **E) lruList[E] {
	return lruList[E]{prev: prev, next: next}
}

// pushBack appends e as the most recently used element.
func (l *lruList[E]) pushBack(e *E) {
	*l.prev(e) = l.tail
	*l.next(e) = nil
	if l.tail != nil {
		*l.next(l.tail) = e
	} else {
		l.head = e
	}
	l.tail = e
}

// front returns the least recently used element, or nil if the list is empty.
func (l *lruList[E]) front() *E {
	return l.head
}

// popFront removes and returns the least recently used element.
func (l *lruList[E]) popFront() *E {
	e := l.head
	if e == nil {
		return nil
	}
	l.head = *l.next(e)
	if l.head != nil {
		*l.prev(l.head) = nil
	} else {
		l.tail = nil
	}
	*l.prev(e) = nil
	*l.next(e) = nil
	return e
}

// moveToBack splices e out of its current position and reinserts it as the
// most recently used element.
func (l *lruList[E]) moveToBack(e *E) {
	if l.tail == e {
		return
	}
	// unlink
	if p := *l.prev(e); p != nil {
		*l.next(p) = *l.next(e)
	} else {
		l.head = *l.next(e)
	}
	if n := *l.next(e); n != nil {
		*l.prev(n) = *l.prev(e)
	}
	l.pushBack(e)
}

// reset empties the list without touching the elements.
func (l *lruList[E]) reset() {
	l.head, l.tail = nil, nil
}

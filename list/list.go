// Package list provides intrusive-style doubly-linked lists and "joint
// lists": ordered sequences of sub-lists that can be concatenated in O(1)
// without copying or relinking their items.
package list

import "iter"

// Item is one element of a List. Its zero value is not usable; items are
// only ever produced by List.Prepend or List.Append.
type Item[T any] struct {
	list       *List[T]
	prev, next *Item[T]
	value      T
}

// Value returns the item's stored value.
func (it *Item[T]) Value() T { return it.value }

// List is a doubly-linked list of values of type T.
type List[T any] struct {
	head, tail *Item[T]
}

// NewList creates an empty List.
func NewList[T any]() *List[T] { return &List[T]{} }

// Empty reports whether the list has no items.
func (l *List[T]) Empty() bool { return l.head == nil }

// Prepend inserts value at the front of the list and returns its Item.
func (l *List[T]) Prepend(value T) *Item[T] {
	it := &Item[T]{list: l, value: value, next: l.head}
	if l.head != nil {
		l.head.prev = it
	} else {
		l.tail = it
	}
	l.head = it
	return it
}

// Append inserts value at the back of the list and returns its Item.
func (l *List[T]) Append(value T) *Item[T] {
	it := &Item[T]{list: l, value: value, prev: l.tail}
	if l.tail != nil {
		l.tail.next = it
	} else {
		l.head = it
	}
	l.tail = it
	return it
}

// Remove detaches it from the list it belongs to. It is a no-op if it has
// already been removed.
func (l *List[T]) Remove(it *Item[T]) {
	if it == nil || it.list != l {
		return
	}
	if it.prev != nil {
		it.prev.next = it.next
	} else {
		l.head = it.next
	}
	if it.next != nil {
		it.next.prev = it.prev
	} else {
		l.tail = it.prev
	}
	it.list = nil
	it.prev, it.next = nil, nil
}

// RemoveIf removes every item for which match returns true.
func (l *List[T]) RemoveIf(match func(T) bool) {
	for it := l.head; it != nil; {
		next := it.next
		if match(it.value) {
			l.Remove(it)
		}
		it = next
	}
}

// All returns an iterator over the list's values, front to back. Removing
// the current item mid-iteration is safe; removing other items is not.
func (l *List[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for it := l.head; it != nil; {
			next := it.next
			if !yield(it.value) {
				return
			}
			it = next
		}
	}
}

// Items returns an iterator over the list's items (rather than their bare
// values), for callers that need to call Remove on what they visit.
func (l *List[T]) Items() iter.Seq[*Item[T]] {
	return func(yield func(*Item[T]) bool) {
		for it := l.head; it != nil; {
			next := it.next
			if !yield(it) {
				return
			}
			it = next
		}
	}
}

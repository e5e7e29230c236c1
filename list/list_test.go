package list

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func collect[T any](l *List[T]) []T {
	var out []T
	for v := range l.All() {
		out = append(out, v)
	}
	return out
}

func TestAppendAndPrependOrder(t *testing.T) {
	l := NewList[int]()
	l.Append(2)
	l.Append(3)
	l.Prepend(1)
	assert.Equal(t, []int{1, 2, 3}, collect(l))
}

func TestRemoveDetachesItem(t *testing.T) {
	l := NewList[string]()
	a := l.Append("a")
	l.Append("b")
	c := l.Append("c")

	l.Remove(a)
	assert.Equal(t, []string{"b", "c"}, collect(l))

	l.Remove(c)
	assert.Equal(t, []string{"b"}, collect(l))
	assert.False(t, l.Empty())
}

func TestRemoveIfFiltersMatching(t *testing.T) {
	l := NewList[int]()
	for _, v := range []int{1, 2, 3, 4, 5, 6} {
		l.Append(v)
	}
	l.RemoveIf(func(v int) bool { return v%2 == 0 })
	assert.Equal(t, []int{1, 3, 5}, collect(l))
}

func TestJointListConcatenatesWithoutCopying(t *testing.T) {
	a := NewList[int]()
	a.Append(1)
	a.Append(2)
	b := NewList[int]()
	b.Append(3)

	j := NewJointList[int]()
	j.Append(a)
	j.Append(b)

	assert.Equal(t, []int{1, 2, 3}, j.Slice())

	// Mutating a sub-list after joining is visible through the joint list.
	a.Append(99)
	assert.True(t, slices.Contains(j.Slice(), 99))
}

func TestJointListEmpty(t *testing.T) {
	j := NewJointList[int]()
	assert.True(t, j.Empty())
	j.Append(NewList[int]())
	assert.True(t, j.Empty())

	l := NewList[int]()
	l.Append(1)
	j.Append(l)
	assert.False(t, j.Empty())
}

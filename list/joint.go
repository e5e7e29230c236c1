package list

// JointList is an ordered sequence of sub-lists presented as a single
// logical list. Appending a sub-list is O(1): it stores the sub-list's
// header pointer only, never copies or relinks its items.
type JointList[T any] struct {
	subs []*List[T]
}

// NewJointList creates an empty JointList.
func NewJointList[T any]() *JointList[T] { return &JointList[T]{} }

// Append adds sub as the next segment of the joint list. sub may be empty;
// it may also continue to be mutated by its owner afterward, and those
// mutations are visible through the joint list.
func (j *JointList[T]) Append(sub *List[T]) {
	if sub == nil {
		return
	}
	j.subs = append(j.subs, sub)
}

// Empty reports whether every appended sub-list is empty.
func (j *JointList[T]) Empty() bool {
	for _, s := range j.subs {
		if !s.Empty() {
			return false
		}
	}
	return true
}

// All returns an iterator over every value in every sub-list, in the order
// the sub-lists were appended.
func (j *JointList[T]) All() func(yield func(T) bool) {
	return func(yield func(T) bool) {
		for _, s := range j.subs {
			for v := range s.All() {
				if !yield(v) {
					return
				}
			}
		}
	}
}

// Slice materializes every value into a new slice. It allocates; prefer All
// for hot paths.
func (j *JointList[T]) Slice() []T {
	var out []T
	for v := range j.All() {
		out = append(out, v)
	}
	return out
}

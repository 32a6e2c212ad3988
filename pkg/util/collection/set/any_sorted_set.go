package set

import (
	"cmp"
	"slices"
	"sort"
)

// Comparable provides an interface which types used in a AnySortedSet must implement.
type Comparable[T any] interface {
	// Cmp returns < 0 if this is less than other, or 0 if they are equal, or >
	// 0 if this is greater than other.
	Cmp(other T) int
}

// Order provides a wrapper around primtive types for use with an AnySortedSet.
// This is mostly for testing purposes.
type Order[T cmp.Ordered] struct {
	Item T
}

// Cmp implementation for the Comparable interface.
func (lhs Order[T]) Cmp(rhs Order[T]) int {
	return cmp.Compare(lhs.Item, rhs.Item)
}

// AnySortedSet is an array of unique sorted values (i.e. no duplicates).
type AnySortedSet[T Comparable[T]] []T

// NewAnySortedSet creates a sorted set from a given array by first cloning that
// array, and then sorting it appropriately, etc.  This means the given array
// will not be mutated by this function, or any subsequent calls on the
// resulting set.
func NewAnySortedSet[T Comparable[T]](items ...T) *AnySortedSet[T] {
	var nitems AnySortedSet[T] = slices.Clone(items)
	// Sort incoming data
	slices.SortFunc(nitems, compare[T])
	// Remove duplicates
	nitems = slices.CompactFunc(nitems, func(a, b T) bool {
		return a.Cmp(b) == 0
	})
	//
	return &nitems
}

// ToArray extracts the underlying array from this sorted set.
func (p *AnySortedSet[T]) ToArray() []T {
	return *p
}

// Len returns the number of elements in this set.
func (p *AnySortedSet[T]) Len() int {
	return len(*p)
}

// Contains returns true if a given element is in the set.
//
//nolint:revive
func (p *AnySortedSet[T]) Contains(element T) bool {
	data := *p
	// Find index where element either does occur, or should occur.
	i := sort.Search(len(data), func(i int) bool {
		// element <= data[i]
		return element.Cmp(data[i]) <= 0
	})
	// Check whether item existed or not.
	return i < len(data) && data[i].Cmp(element) == 0
}

// Insert an element into this sorted set.
//
//nolint:revive
func (p *AnySortedSet[T]) Insert(element T) {
	if !p.Contains(element) {
		*p = union(*p, []T{element}, compare[T])
	}
}

// InsertSorted inserts all elements in a given sorted set into this set.
//
//nolint:revive
func (p *AnySortedSet[T]) InsertSorted(q *AnySortedSet[T]) {
	*p = union(*p, *q, compare[T])
}

// Equals checks whether two sets hold exactly the same elements.
func (p *AnySortedSet[T]) Equals(q *AnySortedSet[T]) bool {
	return slices.EqualFunc(*p, *q, func(a, b T) bool {
		return a.Cmp(b) == 0
	})
}

// Difference returns those elements of this set which are not in the other.
func (p *AnySortedSet[T]) Difference(q *AnySortedSet[T]) *AnySortedSet[T] {
	var diff AnySortedSet[T] = difference(*p, *q, compare[T])
	return &diff
}

func (p *AnySortedSet[T]) String() string {
	return render(*p)
}

func compare[T Comparable[T]](a, b T) int {
	return a.Cmp(b)
}

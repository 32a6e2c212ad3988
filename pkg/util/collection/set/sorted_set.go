package set

import (
	"cmp"
	"fmt"
	"slices"
	"sort"
	"strings"
)

// SortedSet is an array of unique sorted values (i.e. no duplicates).
type SortedSet[T cmp.Ordered] []T

// NewSortedSet returns a sorted set holding the given items.  The items array is
// cloned first, hence it is not mutated by this function.
func NewSortedSet[T cmp.Ordered](items ...T) *SortedSet[T] {
	var nitems SortedSet[T] = slices.Clone(items)
	//
	slices.Sort(nitems)
	nitems = slices.Compact(nitems)
	//
	return &nitems
}

// ToArray extracts the underlying array from this sorted set.
func (p *SortedSet[T]) ToArray() []T {
	return *p
}

// Len returns the number of elements in this set.
func (p *SortedSet[T]) Len() int {
	return len(*p)
}

// Contains returns true if a given element is in the set.
//
//nolint:revive
func (p *SortedSet[T]) Contains(element T) bool {
	data := *p
	// Find index where element either does occur, or should occur.
	i := sort.Search(len(*p), func(i int) bool {
		return element <= data[i]
	})
	// Check whether item existed or not.
	return i < len(data) && data[i] == element
}

// Insert an element into this sorted set.
//
//nolint:revive
func (p *SortedSet[T]) Insert(element T) {
	data := *p
	// Find index where element either does occur, or should occur.
	i := sort.Search(len(*p), func(i int) bool {
		return element <= data[i]
	})
	// Check whether item existed or not.
	if i >= len(data) || data[i] != element {
		// No, item was not found
		ndata := make([]T, len(data)+1)
		copy(ndata, data[0:i])
		ndata[i] = element
		copy(ndata[i+1:], data[i:])
		*p = ndata
	}
}

// InsertSorted inserts all elements in a given sorted set into this set.
//
//nolint:revive
func (p *SortedSet[T]) InsertSorted(q *SortedSet[T]) {
	*p = union(*p, *q, cmp.Compare[T])
}

// Equals checks whether two sets hold exactly the same elements.
func (p *SortedSet[T]) Equals(q *SortedSet[T]) bool {
	return slices.Equal(*p, *q)
}

// SubsetOf checks whether every element of this set is in the other set.
func (p *SortedSet[T]) SubsetOf(q *SortedSet[T]) bool {
	return len(difference(*p, *q, cmp.Compare[T])) == 0
}

// Difference returns those elements of this set which are not in the other.
func (p *SortedSet[T]) Difference(q *SortedSet[T]) *SortedSet[T] {
	var diff SortedSet[T] = difference(*p, *q, cmp.Compare[T])
	return &diff
}

func (p *SortedSet[T]) String() string {
	return render(*p)
}

// UnionSortedSets unions together a number of things which can be turn into a
// sorted set using a given mapping function.  At some level, this is a
// map/reduce function.
func UnionSortedSets[S any, T cmp.Ordered](elems []S, fn func(S) *SortedSet[T]) *SortedSet[T] {
	set := NewSortedSet[T]()
	//
	for _, elem := range elems {
		set.InsertSorted(fn(elem))
	}
	//
	return set
}

// Merge two sorted arrays (left and right) into a fresh array, dropping
// duplicates.
func union[T any](left []T, right []T, cmp func(T, T) int) []T {
	var (
		i, j   int
		target = make([]T, 0, len(left)+len(right))
	)
	// Merge overlap of both sets
	for i < len(left) && j < len(right) {
		switch c := cmp(left[i], right[j]); {
		case c < 0:
			target = append(target, left[i])
			i++
		case c > 0:
			target = append(target, right[j])
			j++
		default:
			target = append(target, left[i])
			i++
			j++
		}
	}
	// Handle anything left
	target = append(target, left[i:]...)
	//
	return append(target, right[j:]...)
}

// Determine those elements of left which are not in right.  Both arrays must be
// sorted.
func difference[T any](left []T, right []T, cmp func(T, T) int) []T {
	var (
		i, j   int
		target []T
	)
	//
	for i < len(left) {
		if j >= len(right) {
			return append(target, left[i:]...)
		}
		//
		switch c := cmp(left[i], right[j]); {
		case c < 0:
			target = append(target, left[i])
			i++
		case c > 0:
			j++
		default:
			i++
			j++
		}
	}
	//
	return target
}

func render[T any](items []T) string {
	var builder strings.Builder
	//
	builder.WriteString("{")
	//
	for i, item := range items {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(fmt.Sprintf("%v", item))
	}
	//
	builder.WriteString("}")
	//
	return builder.String()
}

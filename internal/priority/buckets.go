package priority

import (
	"cmp"
	"slices"
)

// Buckets groups items by integer priority. Each bucket keeps its items in
// insertion order. The zero value is ready to use.
type Buckets[T any] struct {
	items map[int][]T
}

// Add appends item to the bucket for priority.
func (b *Buckets[T]) Add(priority int, item T) {
	if b.items == nil {
		b.items = make(map[int][]T)
	}
	b.items[priority] = append(b.items[priority], item)
}

// Insert places item at index within the bucket for priority, shifting later
// items back. An index past the end appends.
func (b *Buckets[T]) Insert(priority, index int, item T) {
	if b.items == nil {
		b.items = make(map[int][]T)
	}
	bucket := b.items[priority]
	index = max(0, min(index, len(bucket)))
	b.items[priority] = slices.Insert(bucket, index, item)
}

// Remove deletes and returns the item at index in the bucket for priority.
// Empty buckets are dropped. It panics if index is out of range, like a
// slice access would.
func (b *Buckets[T]) Remove(priority, index int) T {
	bucket := b.items[priority]
	item := bucket[index]
	bucket = slices.Delete(bucket, index, index+1)
	if len(bucket) == 0 {
		delete(b.items, priority)
	} else {
		b.items[priority] = bucket
	}
	return item
}

// Bucket returns a copy of the items registered at priority.
func (b *Buckets[T]) Bucket(priority int) []T {
	return slices.Clone(b.items[priority])
}

// Len reports the total number of items across all buckets.
func (b *Buckets[T]) Len() int {
	n := 0
	for _, bucket := range b.items {
		n += len(bucket)
	}
	return n
}

// Priorities returns the non-empty priorities in flattening order.
func (b *Buckets[T]) Priorities(inverse bool) []int {
	keys := make([]int, 0, len(b.items))
	for p := range b.items {
		keys = append(keys, p)
	}
	if inverse {
		slices.Sort(keys)
	} else {
		slices.SortFunc(keys, func(x, y int) int { return cmp.Compare(y, x) })
	}
	return keys
}

// Find returns the priority and in-bucket index of the first item, in
// flattening order, for which match returns true.
func (b *Buckets[T]) Find(inverse bool, match func(T) bool) (priority, index int, ok bool) {
	for _, p := range b.Priorities(inverse) {
		for i, item := range b.items[p] {
			if match(item) {
				return p, i, true
			}
		}
	}
	return 0, 0, false
}

// SortAndFlatten returns every item ordered by priority descending, or
// ascending when inverse is set. Items sharing a priority keep insertion
// order. Empty buckets flatten to an empty, non-nil slice.
func (b *Buckets[T]) SortAndFlatten(inverse bool) []T {
	out := make([]T, 0, b.Len())
	for _, p := range b.Priorities(inverse) {
		out = append(out, b.items[p]...)
	}
	return out
}

// SortAndFlatten flattens a plain priority map. See Buckets.SortAndFlatten.
func SortAndFlatten[T any](buckets map[int][]T, inverse bool) []T {
	b := Buckets[T]{items: buckets}
	return b.SortAndFlatten(inverse)
}

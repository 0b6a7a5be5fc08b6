// Package sequence provides a small lazy iterator over slices built on the
// standard iter package.
package sequence

import (
	"iter"
	"sort"
)

type Iterator[T any] struct {
	seq iter.Seq[T]
}

// From creates an Iterator over the given slice.
func From[T any](data []T) *Iterator[T] {
	return &Iterator[T]{seq: func(yield func(T) bool) {
		for _, v := range data {
			if !yield(v) {
				return
			}
		}
	}}
}

// Seq exposes the underlying iter.Seq for range-over-func consumers.
func (i *Iterator[T]) Seq() iter.Seq[T] {
	return i.seq
}

// Pull converts the iterator to pull style. The caller must invoke stop when
// done with next.
func (i *Iterator[T]) Pull() (next func() (T, bool), stop func()) {
	return iter.Pull(i.seq)
}

// Collect drains the iterator into a slice.
func (i *Iterator[T]) Collect() []T {
	var out []T
	for v := range i.seq {
		out = append(out, v)
	}
	return out
}

// Sort materializes the sequence, sorts it with less and returns an iterator
// over the sorted values.
func (i *Iterator[T]) Sort(less func(a, b T) bool) *Iterator[T] {
	data := i.Collect()
	sort.Slice(data, func(x, y int) bool {
		return less(data[x], data[y])
	})
	return From(data)
}

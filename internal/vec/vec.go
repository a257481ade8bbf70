// Package vec implements a growable array with explicit capacity
// control: amortized doubling on append, single-step reservation,
// compaction, and in-place splice operations.
//
// Unlike a bare slice, a Vec never lets the runtime pick growth
// factors — capacity changes only through the documented growth rules,
// which keeps memory behaviour predictable for long-lived registries.
package vec

import (
	"errors"
	"fmt"
	"math"
	"unsafe"
)

// MinCapacity is the smallest non-zero capacity a Vec allocates.
const MinCapacity = 4

// ErrCapacityOverflow is returned when a requested capacity would
// overflow the byte size of the backing allocation.
var ErrCapacityOverflow = errors.New("vec: capacity overflows allocation size")

// Vec is a growable array of T.
//
// The zero value is an empty Vec ready for use.  A Vec is not safe for
// concurrent use; callers that share one across goroutines must
// serialize access externally.
type Vec[T any] struct {
	data []T
}

// Len returns the number of elements in use.
func (v *Vec[T]) Len() int { return len(v.data) }

// Cap returns the number of allocated element slots.
func (v *Vec[T]) Cap() int { return cap(v.data) }

// At returns the element at index i.
func (v *Vec[T]) At(i int) T { return v.data[i] }

// Set replaces the element at index i.
func (v *Vec[T]) Set(i int, x T) { v.data[i] = x }

// Push appends x, doubling capacity when the array is full.  A fresh
// Vec grows to MinCapacity on its first push.
func (v *Vec[T]) Push(x T) {
	if len(v.data)+1 > cap(v.data) {
		v.grow(nextCap(cap(v.data)))
	}
	v.data = append(v.data, x)
}

// Pop removes and returns the last element.  The second return is
// false when the Vec is empty.
func (v *Vec[T]) Pop() (T, bool) {
	var zero T
	if len(v.data) == 0 {
		return zero, false
	}
	last := len(v.data) - 1
	x := v.data[last]
	v.data[last] = zero
	v.data = v.data[:last]
	return x, true
}

// Reserve grows capacity to at least n in a single reallocation.  It
// is a no-op when n does not exceed the current capacity.  On error
// the Vec is left unchanged.
func (v *Vec[T]) Reserve(n int) error {
	if n < 0 {
		return fmt.Errorf("vec: negative capacity %d", n)
	}
	if size := int(unsafe.Sizeof(*new(T))); size > 0 && n > math.MaxInt/size {
		return ErrCapacityOverflow
	}
	if n > cap(v.data) {
		v.grow(n)
	}
	return nil
}

// Compact shrinks capacity to exactly Len.  An empty Vec releases its
// storage entirely, returning to the zero state.
func (v *Vec[T]) Compact() {
	if len(v.data) == 0 {
		v.data = nil
		return
	}
	if cap(v.data) > len(v.data) {
		nd := make([]T, len(v.data))
		copy(nd, v.data)
		v.data = nd
	}
}

// Insert places x at index i, shifting elements [i, Len) one slot
// right.  Insert panics when i is out of range; i == Len appends.
func (v *Vec[T]) Insert(i int, x T) {
	if i < 0 || i > len(v.data) {
		panic(fmt.Sprintf("vec: insert index %d out of range [0, %d]", i, len(v.data)))
	}
	if len(v.data)+1 > cap(v.data) {
		v.grow(nextCap(cap(v.data)))
	}
	v.data = append(v.data, x)
	copy(v.data[i+1:], v.data[i:])
	v.data[i] = x
}

// RemoveRange deletes count elements starting at start, shifting the
// tail left.  Capacity is not shrunk; use Compact for that.
func (v *Vec[T]) RemoveRange(start, count int) {
	if start < 0 || count < 0 || start+count > len(v.data) {
		panic(fmt.Sprintf("vec: remove range [%d, %d) out of range [0, %d)", start, start+count, len(v.data)))
	}
	if count == 0 {
		return
	}
	n := copy(v.data[start:], v.data[start+count:])
	// Zero the vacated tail so removed elements do not pin referents.
	var zero T
	for i := start + n; i < len(v.data); i++ {
		v.data[i] = zero
	}
	v.data = v.data[:len(v.data)-count]
}

// RemoveFunc deletes the first element for which match returns true,
// preserving the order of the rest.  It reports whether an element
// was removed.
func (v *Vec[T]) RemoveFunc(match func(T) bool) bool {
	for i, x := range v.data {
		if match(x) {
			v.RemoveRange(i, 1)
			return true
		}
	}
	return false
}

// Swap exchanges the elements at i and j in place.
func (v *Vec[T]) Swap(i, j int) {
	v.data[i], v.data[j] = v.data[j], v.data[i]
}

// Clear removes all elements but keeps the allocated storage.
func (v *Vec[T]) Clear() {
	var zero T
	for i := range v.data {
		v.data[i] = zero
	}
	v.data = v.data[:0]
}

// Slice returns the underlying storage as a slice of length Len.
// Mutating the Vec invalidates the returned slice.
func (v *Vec[T]) Slice() []T { return v.data }

// Remove deletes the first element equal to x from v, preserving the
// order of the rest.  It reports whether an element was removed.
func Remove[T comparable](v *Vec[T], x T) bool {
	return v.RemoveFunc(func(y T) bool { return y == x })
}

// grow reallocates to exactly newCap slots, preserving contents.
func (v *Vec[T]) grow(newCap int) {
	nd := make([]T, len(v.data), newCap)
	copy(nd, v.data)
	v.data = nd
}

// nextCap doubles c, starting from MinCapacity.
func nextCap(c int) int {
	if c == 0 {
		return MinCapacity
	}
	return c * 2
}

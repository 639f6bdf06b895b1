package arena

import (
	"unsafe"
)

// Typed helpers place values inside arena slabs. The garbage collector does
// not scan slab memory, so T must not contain Go pointers (no strings,
// slices, maps, interfaces or pointer fields).

// Alloc returns a pointer to a zeroed T stored inside the arena, aligned for T
// whatever alignment the arena was configured with.
func Alloc[T any](a *Arena) *T {
	p := AllocUninitialized[T](a)
	var zero T
	*p = zero
	return p
}

// AllocUninitialized returns a *T located in the arena without the explicit
// zeroing Alloc performs.
func AllocUninitialized[T any](a *Arena) *T {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size == 0 {
		return new(T)
	}
	b := a.allocTyped(size, int(unsafe.Alignof(zero)))
	return (*T)(unsafe.Pointer(unsafe.SliceData(b)))
}

// AllocSlice allocates a slice of n elements of type T inside the arena.
// The slice elements are not initialized.
// Returns nil if n <= 0.
func AllocSlice[T any](a *Arena, n int) []T {
	if n <= 0 {
		return nil
	}
	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	if elemSize == 0 {
		return make([]T, n)
	}
	b := a.allocTyped(elemSize*n, int(unsafe.Alignof(zero)))
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), n)
}

// AllocSliceZeroed allocates a slice of n elements of type T with zeroed memory.
func AllocSliceZeroed[T any](a *Arena, n int) []T {
	s := AllocSlice[T](a, n)
	clear(s)
	return s
}

func (a *Arena) allocTyped(size, align int) []byte {
	if a.align > align {
		align = a.align
	}
	b, err := a.alloc(size, align)
	if err != nil {
		panic(err)
	}
	return b
}

package projection

import "unsafe"

// Pin is a handle to a T whose address does not change for as long as the
// handle is in use.
//
// Pin has the representation of a plain pointer. It never offers an operation
// that moves the referenced value out; Mut is only available for relocatable
// types.
type Pin[T any] struct {
	p *T
}

// NewUnchecked wraps p as pinned. The caller guarantees that *p is never
// moved afterwards.
func NewUnchecked[T any](p *T) Pin[T] {
	return Pin[T]{p: p}
}

// Get returns a read-only handle to the pinned value.
func (p Pin[T]) Get() Ref[T] {
	return Ref[T]{p: p.p}
}

// Set overwrites the pinned value in place.
func (p Pin[T]) Set(v T) {
	*p.p = v
}

// Mut returns a plain pointer to the value when T is relocatable.
func (p Pin[T]) Mut() (*T, bool) {
	if !Relocatable[T]() {
		return nil, false
	}

	return p.p, true
}

// UncheckedMut returns a plain pointer to the value. The caller must not move
// the value through it.
func (p Pin[T]) UncheckedMut() *T {
	return p.p
}

// UnsafePointer returns the address of the pinned value.
func (p Pin[T]) UnsafePointer() unsafe.Pointer {
	return unsafe.Pointer(p.p)
}

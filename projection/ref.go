package projection

import "unsafe"

// Ref is a read-only handle to a T.
type Ref[T any] struct {
	p *T
}

// RefOf returns a read-only handle to *p.
func RefOf[T any](p *T) Ref[T] {
	return Ref[T]{p: p}
}

// Get returns a copy of the referenced value.
func (r Ref[T]) Get() T {
	return *r.p
}

// UnsafePointer returns the address of the referenced value.
func (r Ref[T]) UnsafePointer() unsafe.Pointer {
	return unsafe.Pointer(r.p)
}

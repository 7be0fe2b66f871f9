package projection

// Mapper is implemented by every descriptor of a field of type T in B.
type Mapper[B, T any] interface {
	Ref(r Ref[B]) Ref[T]
	Mut(p *B) *T
	Uninit(u Uninit[B]) Uninit[T]
}

// PinMapper is implemented by descriptors generated with pin support. W is
// Pin[T] for pinned fields and *T for unpinned ones.
type PinMapper[B, W any] interface {
	Pin(p Pin[B]) W
}

// Project returns a pointer to the field f of *p.
func Project[B, T any](p *B, f Mapper[B, T]) *T {
	return f.Mut(p)
}

// ProjectRef returns a read-only handle to the field f of r.
func ProjectRef[B, T any](r Ref[B], f Mapper[B, T]) Ref[T] {
	return f.Ref(r)
}

// ProjectUninit returns a handle to the storage of the field f of u.
func ProjectUninit[B, T any](u Uninit[B], f Mapper[B, T]) Uninit[T] {
	return f.Uninit(u)
}

// ProjectPin projects a pinned handle through f. The result is pinned only if
// f is a Pinned descriptor.
func ProjectPin[B, W any](p Pin[B], f PinMapper[B, W]) W {
	return f.Pin(p)
}

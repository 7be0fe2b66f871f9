package projection

import "errors"

var (
	// ErrPinned is returned when a pinned, non-relocatable value would move.
	ErrPinned = errors.New("projection: value is pinned and not relocatable")
	// ErrEmpty is returned by a Box whose value was taken or released.
	ErrEmpty = errors.New("projection: box is empty")
)

// Box owns a heap-allocated T and carries its pin flag.
//
// Before Pin is called the value can be moved out freely. Afterwards Box only
// hands out Pin handles, unless T is relocatable. Heap objects are not moved
// by the Go collector, so the flag is all that is needed to keep the address
// stable.
type Box[T any] struct {
	v      *T
	pinned bool
}

// NewBox moves v into a new Box.
func NewBox[T any](v T) *Box[T] {
	p := new(T)
	*p = v

	return &Box[T]{v: p}
}

// IsPinned reports whether Pin has been called.
func (b *Box[T]) IsPinned() bool {
	return b.pinned
}

// Pin flags the value as address-stable and returns a pinned handle to it.
// Calling Pin again returns a handle to the same address. Pin panics with
// ErrEmpty once the value was taken or released.
func (b *Box[T]) Pin() Pin[T] {
	if b.v == nil {
		panic(ErrEmpty)
	}

	b.pinned = true

	return Pin[T]{p: b.v}
}

// Mut returns a plain pointer to the value.
func (b *Box[T]) Mut() (*T, error) {
	if b.v == nil {
		return nil, ErrEmpty
	}

	if b.pinned && !Relocatable[T]() {
		return nil, ErrPinned
	}

	return b.v, nil
}

// Take moves the value out of the box.
func (b *Box[T]) Take() (T, error) {
	p, err := b.Mut()
	if err != nil {
		var zero T
		return zero, err
	}

	v := *p
	b.v, b.pinned = nil, false

	return v, nil
}

// Release runs the value's Drop method, if any, and empties the box.
func (b *Box[T]) Release() {
	if b.v == nil {
		return
	}

	if d, ok := any(b.v).(Dropper); ok {
		d.Drop()
	}

	b.v, b.pinned = nil, false
}

package projection

import (
	"reflect"
	"unsafe"
)

// Field maps an aggregate B to one of its fields of type T.
//
// Field values are built by generated code; hand-written descriptors are not
// checked and may address the wrong bytes.
type Field[B, T any] struct {
	name   string
	id     FieldName
	offset uintptr
}

// NewField returns the descriptor of the field called name, stored at offset
// within B. id must be Hash(name).
func NewField[B, T any](name string, id FieldName, offset uintptr) Field[B, T] {
	f := Field[B, T]{name: name, id: id, offset: offset}
	if debugAssertions {
		assertField(f)
	}

	return f
}

// Name returns the field name.
func (f Field[B, T]) Name() string {
	return f.name
}

// ID returns the field identity.
func (f Field[B, T]) ID() FieldName {
	return f.id
}

// Offset returns the byte offset of the field within B.
func (f Field[B, T]) Offset() uintptr {
	return f.offset
}

// Type returns the type of the field.
func (f Field[B, T]) Type() reflect.Type {
	return reflect.TypeFor[T]()
}

// Map adjusts a pointer to a B into a pointer to the field.
//
// base must be non-nil, aligned and point to storage for a whole B. The
// result addresses the field's bytes, which may not have been written yet.
func (f Field[B, T]) Map(base unsafe.Pointer) unsafe.Pointer {
	return unsafe.Add(base, f.offset)
}

// Ref projects a read-only handle.
func (f Field[B, T]) Ref(r Ref[B]) Ref[T] {
	return Ref[T]{p: (*T)(f.Map(unsafe.Pointer(r.p)))}
}

// Mut projects a pointer.
func (f Field[B, T]) Mut(p *B) *T {
	return (*T)(f.Map(unsafe.Pointer(p)))
}

// Uninit projects a handle to storage that may not be initialized.
func (f Field[B, T]) Uninit(u Uninit[B]) Uninit[T] {
	return Uninit[T]{
		p:       (*T)(f.Map(unsafe.Pointer(u.p))),
		tracker: u.tracker,
		off:     u.off + f.offset,
	}
}

// Spec describes the field for Register.
func (f Field[B, T]) Spec() FieldSpec {
	return f.spec(CapabilityUnpinned)
}

func (f Field[B, T]) spec(c Capability) FieldSpec {
	return FieldSpec{
		Name:       f.name,
		ID:         f.id,
		Type:       reflect.TypeFor[T](),
		Offset:     f.offset,
		Capability: c,
	}
}

// Pinned is the descriptor of a field whose pin guarantee survives projection.
type Pinned[B, T any] struct {
	Field[B, T]
}

// NewPinned returns the descriptor of a pinned field.
func NewPinned[B, T any](name string, id FieldName, offset uintptr) Pinned[B, T] {
	return Pinned[B, T]{Field: NewField[B, T](name, id, offset)}
}

// Capability returns CapabilityPinned.
func (f Pinned[B, T]) Capability() Capability {
	return CapabilityPinned
}

// Spec describes the field for Register.
func (f Pinned[B, T]) Spec() FieldSpec {
	return f.spec(CapabilityPinned)
}

// Pin projects a pinned handle to a pinned handle of the field.
func (f Pinned[B, T]) Pin(p Pin[B]) Pin[T] {
	return Pin[T]{p: (*T)(f.Map(unsafe.Pointer(p.p)))}
}

// Unpinned is the descriptor of a field that stays relocatable while the
// aggregate is pinned.
type Unpinned[B, T any] struct {
	Field[B, T]
}

// NewUnpinned returns the descriptor of an unpinned field.
func NewUnpinned[B, T any](name string, id FieldName, offset uintptr) Unpinned[B, T] {
	return Unpinned[B, T]{Field: NewField[B, T](name, id, offset)}
}

// Capability returns CapabilityUnpinned.
func (f Unpinned[B, T]) Capability() Capability {
	return CapabilityUnpinned
}

// Pin projects a pinned handle to a plain pointer to the field.
func (f Unpinned[B, T]) Pin(p Pin[B]) *T {
	return (*T)(f.Map(unsafe.Pointer(p.p)))
}

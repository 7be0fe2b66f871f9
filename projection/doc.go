// Package projection provides typed field projection for Go structs.
//
// A projection derives a handle to a single field from a handle to the whole
// struct, using only address arithmetic. Descriptors are produced by the
// fieldproj generator and never written by hand.
//
// Key types:
//   - FieldName: FNV-1a 64 identity of a field name
//   - Field: name, type and offset of one field of an aggregate
//   - Pinned / Unpinned: descriptors carrying the pin capability of a field
//   - Ref, Pin, Uninit: wrapper kinds a projection can start from
//   - Box: owner that flags its value as address-stable
//
// Projecting from a Pin keeps the pin guarantee for Pinned fields and drops it
// for Unpinned ones:
//
//	box := projection.NewBox(Bar{})
//	pin := box.Pin()
//	foo := BarFields.foo.Pin(pin) // projection.Pin[Foo]
//	c := BarFields.c.Pin(pin)     // *uint
//
// An aggregate is relocatable while pinned exactly when every Pinned field's
// type is relocatable; Unpinned fields never take part in the decision.
package projection

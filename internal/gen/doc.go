// Package gen provides deterministic Go code generation for projection
// descriptor sets.
//
// Generation approach uses text/template + go/format. One file is emitted per
// package (fieldproj_gen.go by default). For each planned aggregate it holds:
//   - a descriptor-set struct type <Type>FieldSet with one descriptor per
//     field, named like the field so Go visibility rules carry over
//   - a <Type>Fields value, or a generic <Type>Fields[...]() function for
//     generic aggregates
//   - a projection.Register call for aggregates with pin support
//
// Field offsets are never computed by the generator: descriptors are built
// from unsafe.Offsetof so the compiler supplies the layout.
package gen

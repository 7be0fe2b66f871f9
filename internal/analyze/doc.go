// Package analyze provides package loading and aggregate extraction.
//
// It uses golang.org/x/tools/go/packages with AST and go/types
// to build a canonical in-memory model of the struct types a package declares,
// together with the fieldproj declaration surface:
//   - the //fieldproj:generate directive on a type declaration
//   - the project:"pin" struct tag on a field
//   - a Drop method that makes pinned fields unsound
//
// Key types:
//   - TypeID: package import path + type name
//   - TypeInfo: a declared named type, its kind, fields and type parameters
//   - FieldInfo: field name, type, tag, export status and embedding
package analyze

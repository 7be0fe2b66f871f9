package analyze

import (
	"go/token"
	"go/types"
	"reflect"
	"strings"

	"field-projection/internal/common"
)

// Declaration surface of the generator.
const (
	DirectivePrefix = "//fieldproj:generate"
	DirectivePin    = "pin"
	TagKey          = "project"
	TagPin          = "pin"
	DropMethod      = "Drop"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "field-projection/examples/nested"
	Name    string // e.g., "Bar"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// TypeKind represents the kind of the underlying type of a declaration.
type TypeKind int

const (
	TypeKindUnknown   TypeKind = iota
	TypeKindBasic              // int, string, bool, etc.
	TypeKindStruct             // struct type
	TypeKindPointer            // pointer to another type
	TypeKindSlice              // slice of another type
	TypeKindArray              // array of another type
	TypeKindMap                // map type
	TypeKindInterface          // interface, including type-set unions
	TypeKindSignature          // func type
	TypeKindChan               // channel type
)

// String returns a human-readable representation of the TypeKind.
func (k TypeKind) String() string {
	switch k {
	case TypeKindBasic:
		return "basic"
	case TypeKindStruct:
		return "struct"
	case TypeKindPointer:
		return "pointer"
	case TypeKindSlice:
		return "slice"
	case TypeKindArray:
		return "array"
	case TypeKindMap:
		return "map"
	case TypeKindInterface:
		return "interface"
	case TypeKindSignature:
		return "func"
	case TypeKindChan:
		return "chan"
	default:
		return common.UnknownStr
	}
}

// KindOf classifies the underlying type of t.
func KindOf(t types.Type) TypeKind {
	switch t.Underlying().(type) {
	case *types.Basic:
		return TypeKindBasic
	case *types.Struct:
		return TypeKindStruct
	case *types.Pointer:
		return TypeKindPointer
	case *types.Slice:
		return TypeKindSlice
	case *types.Array:
		return TypeKindArray
	case *types.Map:
		return TypeKindMap
	case *types.Interface:
		return TypeKindInterface
	case *types.Signature:
		return TypeKindSignature
	case *types.Chan:
		return TypeKindChan
	default:
		return TypeKindUnknown
	}
}

// Directive is a parsed //fieldproj:generate comment.
type Directive struct {
	Pin     bool     // pin support requested
	Options []string // options the generator does not know
}

// ParseDirective parses a single comment line. It returns nil when the line
// is not a fieldproj directive.
func ParseDirective(line string) *Directive {
	rest, ok := strings.CutPrefix(strings.TrimSpace(line), DirectivePrefix)
	if !ok {
		return nil
	}

	// Reject look-alikes such as //fieldproj:generated.
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return nil
	}

	d := &Directive{}

	for _, opt := range strings.Fields(rest) {
		if opt == DirectivePin {
			d.Pin = true
			continue
		}

		d.Options = append(d.Options, opt)
	}

	return d
}

// TypeParam is a type parameter of a generic declaration.
type TypeParam struct {
	Name       string
	Constraint types.Type
}

// TypeInfo describes a declared named type.
type TypeInfo struct {
	ID         TypeID         // Unique identifier
	Kind       TypeKind       // Kind of the underlying type
	Fields     []FieldInfo    // For structs, the list of fields in declaration order
	TypeParams []TypeParam    // For generic declarations
	GoType     *types.Named   // The declared go/types.Named
	Directive  *Directive     // Nil unless the declaration carries the directive
	HasDrop    bool           // True if *T has a Drop() method
	Pos        token.Position // Position of the declaration
}

// IsGeneric returns true if the declaration has type parameters.
func (t *TypeInfo) IsGeneric() bool {
	return len(t.TypeParams) > 0
}

// Exported returns true if the type name is exported.
func (t *TypeInfo) Exported() bool {
	return token.IsExported(t.ID.Name)
}

// Field returns the field with the given name.
func (t *TypeInfo) Field(name string) (*FieldInfo, bool) {
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return &t.Fields[i], true
		}
	}

	return nil, false
}

// FieldInfo describes a struct field.
type FieldInfo struct {
	Name     string            // Go field name; embedded fields use the type name
	Exported bool              // Whether the field is exported
	Type     types.Type        // Field type
	Tag      reflect.StructTag // Raw struct tag
	Embedded bool              // Whether the field is embedded (anonymous)
	Index    int               // Field index in the struct
}

// Pinned returns true if the field carries the project:"pin" tag.
func (f *FieldInfo) Pinned() bool {
	for _, opt := range strings.Split(f.Tag.Get(TagKey), ",") {
		if strings.TrimSpace(opt) == TagPin {
			return true
		}
	}

	return false
}

// Blank returns true for "_" fields, which cannot be projected.
func (f *FieldInfo) Blank() bool {
	return f.Name == "_"
}

// TypeGraph holds all analyzed types from loaded packages.
type TypeGraph struct {
	// Types maps TypeID to TypeInfo for all named types.
	Types map[TypeID]*TypeInfo
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo
}

// NewTypeGraph creates a new empty TypeGraph.
func NewTypeGraph() *TypeGraph {
	return &TypeGraph{
		Types:    make(map[TypeID]*TypeInfo),
		Packages: make(map[string]*PackageInfo),
	}
}

// GetType returns the TypeInfo for a given TypeID, or nil if not found.
func (g *TypeGraph) GetType(id TypeID) *TypeInfo {
	return g.Types[id]
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path  string         // Import path
	Name  string         // Package name
	Dir   string         // Directory holding the package sources
	Types []TypeID       // Named types defined in this package, sorted by name
	Pkg   *types.Package // Type-checked package
}

package analyze

import (
	"go/types"
	"strings"
)

// TypePath builds a readable path string through nested fields.
// Examples:
//   - "Bar" for an aggregate
//   - "Bar.foo" for a field
//   - "Bar.foo.a" for a field of a nested aggregate
//   - "Holder.Spare[]" for an array field
type TypePath struct {
	parts []string
}

// NewTypePath creates a new TypePath from a root type name.
func NewTypePath(root string) *TypePath {
	return &TypePath{
		parts: []string{root},
	}
}

// Field appends a field name to the path.
func (p *TypePath) Field(name string) *TypePath {
	return &TypePath{
		parts: append(append([]string{}, p.parts...), name),
	}
}

// Array appends an element indicator "[]" to the path.
func (p *TypePath) Array() *TypePath {
	if len(p.parts) == 0 {
		return &TypePath{parts: []string{"[]"}}
	}
	newParts := make([]string, len(p.parts))
	copy(newParts, p.parts)
	newParts[len(newParts)-1] = newParts[len(newParts)-1] + "[]"
	return &TypePath{parts: newParts}
}

// String returns the full path string.
func (p *TypePath) String() string {
	return strings.Join(p.parts, ".")
}

// TypeString returns t as written inside package from: types of that package
// are unqualified, other packages use their package name.
func TypeString(t types.Type, from *types.Package) string {
	return types.TypeString(t, func(pkg *types.Package) string {
		if pkg == from {
			return ""
		}

		return pkg.Name()
	})
}

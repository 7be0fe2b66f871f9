package gen

import (
	"fmt"
	"go/types"
	"slices"
	"strings"

	"field-projection/internal/common"
)

// importSpec represents an import statement.
type importSpec struct {
	Alias string
	Path  string
}

// importSet allocates unique package aliases for one generated file.
type importSet struct {
	byPath  map[string]string // import path -> alias
	byAlias map[string]string // alias -> import path
	names   map[string]string // import path -> package name
}

func newImportSet() *importSet {
	return &importSet{
		byPath:  map[string]string{},
		byAlias: map[string]string{},
		names:   map[string]string{},
	}
}

// reserve blocks an identifier so that no import uses it as alias.
func (s *importSet) reserve(name string) {
	s.byAlias[name] = ""
}

// add registers an import and returns the alias to qualify it with.
func (s *importSet) add(path, name string) string {
	if alias, ok := s.byPath[path]; ok {
		return alias
	}

	if name == "" {
		name = common.PkgAlias(path)
	}

	alias := name
	for i := 2; ; i++ {
		if _, taken := s.byAlias[alias]; !taken {
			break
		}

		alias = fmt.Sprintf("%s%d", name, i)
	}

	s.byPath[path] = alias
	s.byAlias[alias] = path
	s.names[path] = name

	return alias
}

// qualifier returns a types.Qualifier that records every package it is asked
// about, except from.
func (s *importSet) qualifier(from *types.Package) types.Qualifier {
	return func(pkg *types.Package) string {
		if pkg == from || (from != nil && pkg.Path() == from.Path()) {
			return ""
		}

		return s.add(pkg.Path(), pkg.Name())
	}
}

// specs returns the imports sorted by path. The alias is omitted when it
// matches the package name.
func (s *importSet) specs() []importSpec {
	out := make([]importSpec, 0, len(s.byPath))
	for path, alias := range s.byPath {
		spec := importSpec{Path: path}
		if alias != s.names[path] {
			spec.Alias = alias
		}

		out = append(out, spec)
	}

	slices.SortFunc(out, func(a, b importSpec) int {
		return strings.Compare(a.Path, b.Path)
	})

	return out
}

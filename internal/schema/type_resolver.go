package schema

import (
	"strings"

	"field-projection/internal/analyze"
)

// ResolveTypeID resolves a type ID string like:
// - "nested.Bar" (short)
// - "field-projection/examples/nested.Bar" (full)
// - "Bar" (name only, must be unique across loaded packages).
func ResolveTypeID(typeIDStr string, graph *analyze.TypeGraph) *analyze.TypeInfo {
	if graph == nil {
		return nil
	}

	// Name-only: the name must identify exactly one type.
	if !strings.Contains(typeIDStr, ".") {
		name := typeIDStr
		if name == "" {
			return nil
		}

		var found *analyze.TypeInfo

		for id, t := range graph.Types {
			if id.Name != name {
				continue
			}

			if found != nil {
				return nil
			}

			found = t
		}

		return found
	}

	lastDot := strings.LastIndex(typeIDStr, ".")

	pkgStr := typeIDStr[:lastDot]

	name := typeIDStr[lastDot+1:]
	if pkgStr == "" || name == "" {
		return nil
	}

	// 1) exact match (for fully qualified import path)
	if t := graph.GetType(analyze.TypeID{PkgPath: pkgStr, Name: name}); t != nil {
		return t
	}

	// 2) suffix match (for short forms like "nested.Bar")
	for id, t := range graph.Types {
		if id.Name != name {
			continue
		}

		if id.PkgPath == pkgStr || strings.HasSuffix(id.PkgPath, "/"+pkgStr) {
			return t
		}
	}

	return nil
}

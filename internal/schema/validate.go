package schema

import (
	"fmt"

	"field-projection/internal/analyze"
	"field-projection/internal/diagnostic"
)

// Validate checks a schema against the given type graph. It only reports
// structural problems; pin policy checks happen during planning.
func Validate(f *File, graph *analyze.TypeGraph) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError("schema_is_nil", "schema file is nil", "", "")
		return res
	}

	if graph == nil {
		res.AddError("graph_is_nil", "type graph is nil", "", "")
		return res
	}

	seen := map[analyze.TypeID]string{}

	for i := range f.Aggregates {
		agg := &f.Aggregates[i]

		t := ResolveTypeID(agg.Type, graph)
		if t == nil {
			res.AddError(diagnostic.CodeTypeNotFound,
				fmt.Sprintf("type %q not found or ambiguous", agg.Type), agg.Type, "")
			continue
		}

		if prev, ok := seen[t.ID]; ok {
			res.AddError(diagnostic.CodeDuplicateAggregate,
				fmt.Sprintf("%s is listed as both %q and %q", t.ID, prev, agg.Type), agg.Type, "")
			continue
		}

		seen[t.ID] = agg.Type

		if agg.Skip {
			continue
		}

		if t.Kind != analyze.TypeKindStruct {
			res.AddError(diagnostic.CodeNotAStruct,
				fmt.Sprintf("projection support cannot be applied to %s (kind: %s)", t.ID, t.Kind), agg.Type, "")
			continue
		}

		validateFieldList(res, agg.Type, t, agg.Pinned)
		validateFieldList(res, agg.Type, t, agg.Unpinned)

		for _, name := range agg.Pinned {
			if agg.Unpinned.Contains(name) {
				res.AddError(diagnostic.CodePinConflict,
					fmt.Sprintf("field %q is listed as both pinned and unpinned", name), agg.Type, name)
			}
		}
	}

	return res
}

func validateFieldList(res *diagnostic.Diagnostics, aggregate string, t *analyze.TypeInfo, names StringOrArray) {
	for _, name := range names {
		fld, ok := t.Field(name)
		if !ok {
			res.AddError(diagnostic.CodeFieldNotFound,
				fmt.Sprintf("field %q not found in %s", name, t.ID), aggregate, name)
			continue
		}

		if fld.Blank() {
			res.AddError(diagnostic.CodeBlankField, "blank fields cannot be projected", aggregate, name)
		}
	}
}

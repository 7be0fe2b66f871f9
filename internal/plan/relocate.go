package plan

import (
	"go/types"

	"field-projection/internal/analyze"
)

// arrayElem marks an array element in a verdict path.
const arrayElem = "[]"

// verdict is the relocatability of a type and the relative path of the field
// that decided it. external is set when a struct declared outside the loaded
// packages blocked relocation; its own registration may be more permissive.
type verdict struct {
	r        Relocatability
	path     []string
	external bool
}

func (v verdict) and(o verdict) verdict {
	out := v
	if o.r > v.r {
		out = o
	}

	out.external = v.external || o.external

	return out
}

// relocator derives relocatability over go/types, memoised per type.
type relocator struct {
	runtime    string
	loaded     map[string]bool
	aggregates map[*types.TypeName]*Aggregate
	memo       map[types.Type]verdict
}

func newRelocator(runtime string, loaded map[string]bool) *relocator {
	return &relocator{
		runtime:    runtime,
		loaded:     loaded,
		aggregates: map[*types.TypeName]*Aggregate{},
		memo:       map[types.Type]verdict{},
	}
}

func (r *relocator) of(t types.Type) verdict {
	if v, ok := r.memo[t]; ok {
		return v
	}

	v := r.derive(t)
	r.memo[t] = v

	return v
}

func (r *relocator) derive(t types.Type) verdict {
	switch t := t.(type) {
	case *types.Alias:
		return r.of(types.Unalias(t))
	case *types.TypeParam:
		return verdict{r: DependsOnTypeArgs}
	case *types.Named:
		return r.named(t)
	case *types.Struct:
		out := verdict{r: Relocatable}
		for i := range t.NumFields() {
			f := t.Field(i)
			out = out.and(field(f.Name(), r.of(f.Type())))
		}

		return out
	case *types.Array:
		if t.Len() == 0 {
			return verdict{r: Relocatable}
		}

		v := r.of(t.Elem())
		if v.r == Relocatable {
			return v
		}

		return verdict{r: v.r, path: append([]string{arrayElem}, v.path...), external: v.external}
	default:
		return verdict{r: Relocatable}
	}
}

func (r *relocator) named(t *types.Named) verdict {
	obj := t.Obj()

	if obj.Pkg() != nil && obj.Pkg().Path() == r.runtime {
		switch obj.Name() {
		case "PhantomPinned":
			return verdict{r: NotRelocatable}
		case "AlwaysRelocatable":
			return verdict{r: Relocatable}
		}
	}

	agg, ok := r.aggregates[t.Origin().Obj()]
	if !ok {
		v := r.of(t.Underlying())
		if _, isStruct := t.Underlying().(*types.Struct); isStruct && v.r != Relocatable &&
			obj.Pkg() != nil && !r.loaded[obj.Pkg().Path()] {
			v.external = true
		}

		return v
	}

	// Instantiated types carry substituted field types.
	st, ok := t.Underlying().(*types.Struct)
	if !ok {
		return verdict{r: Relocatable}
	}

	out := verdict{r: Relocatable}
	for _, name := range agg.PinnedFields() {
		f, _ := agg.Field(name)
		out = out.and(field(name, r.of(st.Field(f.Index).Type())))
	}

	return out
}

func field(name string, v verdict) verdict {
	if v.r == Relocatable {
		return v
	}

	return verdict{r: v.r, path: append([]string{name}, v.path...), external: v.external}
}

// blocker renders a verdict path below root, e.g. "Holder.Spare[].marker".
func blocker(root string, path []string) string {
	p := analyze.NewTypePath(root)
	for _, seg := range path {
		if seg == arrayElem {
			p = p.Array()
			continue
		}

		p = p.Field(seg)
	}

	return p.String()
}

package plan

import (
	"fmt"
	"go/types"

	"field-projection/internal/analyze"
	"field-projection/internal/common"
	"field-projection/internal/diagnostic"
	"field-projection/projection"
)

// DefaultRuntimePath is the import path of the projection runtime.
const DefaultRuntimePath = "field-projection/projection"

// Config holds configuration for the planner.
type Config struct {
	// RuntimePath is the import path of the projection runtime. Its
	// PhantomPinned and AlwaysRelocatable markers drive relocatability.
	RuntimePath string
	// Strict reports warnings as errors.
	Strict bool
}

// DefaultConfig returns the default planner configuration.
func DefaultConfig() Config {
	return Config{
		RuntimePath: DefaultRuntimePath,
	}
}

// Plan is the final output of the planning pipeline.
// It contains everything needed for code generation.
type Plan struct {
	// Packages lists the packages that declare aggregates, sorted by path.
	Packages []*PackagePlan
	// TypeGraph holds all analyzed types and packages.
	TypeGraph *analyze.TypeGraph
	// Diagnostics contains all warnings and errors from planning.
	Diagnostics diagnostic.Diagnostics
}

// Aggregate returns the planned aggregate with the given id.
func (p *Plan) Aggregate(id analyze.TypeID) (*Aggregate, bool) {
	for _, pkg := range p.Packages {
		if pkg.Path != id.PkgPath {
			continue
		}

		for _, agg := range pkg.Aggregates {
			if agg.Type.ID == id {
				return agg, true
			}
		}
	}

	return nil, false
}

// PackagePlan groups the aggregates of one package.
type PackagePlan struct {
	Path       string
	Name       string
	Dir        string
	Pkg        *types.Package
	Aggregates []*Aggregate // sorted by type name
}

// Source specifies where a projection request came from.
type Source int

const (
	SourceDirective Source = iota // //fieldproj:generate
	SourceSchema                  // schema file entry
	SourceBoth                    // directive refined by a schema entry
)

// String returns a human-readable representation of the Source.
func (s Source) String() string {
	switch s {
	case SourceDirective:
		return "directive"
	case SourceSchema:
		return "schema"
	case SourceBoth:
		return "directive+schema"
	default:
		return common.UnknownStr
	}
}

// Relocatability is the statically derived relocatability of a type.
type Relocatability int

const (
	Relocatable       Relocatability = iota
	DependsOnTypeArgs                // a pinned field has a type parameter type
	NotRelocatable
)

// String returns a human-readable representation of the Relocatability.
func (r Relocatability) String() string {
	switch r {
	case Relocatable:
		return "relocatable"
	case DependsOnTypeArgs:
		return "relocatable depending on type arguments"
	case NotRelocatable:
		return "not relocatable"
	default:
		return common.UnknownStr
	}
}

// Aggregate is a struct type that gets a descriptor set.
type Aggregate struct {
	// Type is the analyzed declaration.
	Type *analyze.TypeInfo
	// Pin is true when the aggregate gets pin projection support.
	Pin bool
	// Source of the request.
	Source Source
	// Fields lists the projectable fields in declaration order.
	Fields []Field
	// Relocatable is the derived relocatability.
	Relocatable Relocatability
	// Blocker is the field path that decides Relocatable when the aggregate
	// is not plainly relocatable, e.g. "Holder.Guard.marker".
	Blocker string
	// External is true when the verdict was decided by a struct declared in a
	// package that was not loaded. Such structs are judged by all of their
	// fields; at run time their own registration may allow relocation.
	External bool
}

// Verdict renders the relocatability of the aggregate for reports, e.g.
// "Bar is not relocatable (Bar.foo.a)".
func (a *Aggregate) Verdict() string {
	s := fmt.Sprintf("%s is %s", a.Name(), a.Relocatable)
	if a.Blocker != "" {
		s += " (" + a.Blocker + ")"
	}

	if a.External {
		s += "; structs from packages outside the plan were judged by all their fields"
	}

	return s
}

// Name returns the aggregate's type name.
func (a *Aggregate) Name() string {
	return a.Type.ID.Name
}

// Field returns the planned field with the given name.
func (a *Aggregate) Field(name string) (*Field, bool) {
	for i := range a.Fields {
		if a.Fields[i].Name == name {
			return &a.Fields[i], true
		}
	}

	return nil, false
}

// PinnedFields returns the names of the structurally pinned fields.
func (a *Aggregate) PinnedFields() []string {
	var out []string
	for _, f := range a.Fields {
		if f.Capability == projection.CapabilityPinned {
			out = append(out, f.Name)
		}
	}

	return out
}

// Field is one projectable field.
type Field struct {
	Name       string
	ID         projection.FieldName
	Capability projection.Capability
	Exported   bool
	Embedded   bool
	Type       types.Type
	Index      int
}

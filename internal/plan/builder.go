package plan

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"field-projection/internal/analyze"
	"field-projection/internal/diagnostic"
	"field-projection/internal/logging"
	"field-projection/internal/schema"
	"field-projection/projection"
)

// Builder performs the planning pipeline.
type Builder struct {
	graph  *analyze.TypeGraph
	schema *schema.File
	config Config
}

// request is a type that asked for projection support.
type request struct {
	info   *analyze.TypeInfo
	pin    bool
	source Source
	entry  *schema.Aggregate
}

// NewBuilder creates a new Builder. The schema file may be nil.
func NewBuilder(graph *analyze.TypeGraph, file *schema.File, config Config) *Builder {
	if config.RuntimePath == "" {
		config.RuntimePath = DefaultRuntimePath
	}

	return &Builder{
		graph:  graph,
		schema: file,
		config: config,
	}
}

// Build runs the planner. Policy violations are reported through
// Plan.Diagnostics; the returned error is only set for unusable input.
func (b *Builder) Build() (*Plan, error) {
	if b.graph == nil {
		return nil, errors.New("type graph is nil")
	}

	p := &Plan{TypeGraph: b.graph}

	requests := b.collect(&p.Diagnostics)

	byPkg := map[string]*PackagePlan{}

	for _, req := range requests {
		agg := b.planAggregate(req, &p.Diagnostics)
		if agg == nil {
			continue
		}

		pkg := byPkg[req.info.ID.PkgPath]
		if pkg == nil {
			info := b.graph.Packages[req.info.ID.PkgPath]
			pkg = &PackagePlan{Path: req.info.ID.PkgPath}

			if info != nil {
				pkg.Name = info.Name
				pkg.Dir = info.Dir
				pkg.Pkg = info.Pkg
			}

			byPkg[pkg.Path] = pkg
			p.Packages = append(p.Packages, pkg)
		}

		pkg.Aggregates = append(pkg.Aggregates, agg)
	}

	slices.SortFunc(p.Packages, func(x, y *PackagePlan) int {
		return strings.Compare(x.Path, y.Path)
	})

	for _, pkg := range p.Packages {
		slices.SortFunc(pkg.Aggregates, func(x, y *Aggregate) int {
			return strings.Compare(x.Name(), y.Name())
		})
	}

	b.deriveRelocatability(p)

	if b.config.Strict {
		escalateWarnings(&p.Diagnostics)
	}

	return p, nil
}

// collect merges directive declarations with schema entries.
func (b *Builder) collect(diags *diagnostic.Diagnostics) []*request {
	byID := map[analyze.TypeID]*request{}

	var order []analyze.TypeID

	for _, path := range b.graph.PackagePaths() {
		for _, t := range b.graph.Aggregates(path) {
			byID[t.ID] = &request{info: t, pin: t.Directive.Pin, source: SourceDirective}
			order = append(order, t.ID)
		}
	}

	if b.schema != nil {
		diags.Merge(*schema.Validate(b.schema, b.graph))

		for i := range b.schema.Aggregates {
			entry := &b.schema.Aggregates[i]

			t := schema.ResolveTypeID(entry.Type, b.graph)
			if t == nil {
				continue
			}

			req, ok := byID[t.ID]
			if !ok {
				if entry.Skip {
					continue
				}

				req = &request{info: t, source: SourceSchema}
				byID[t.ID] = req
				order = append(order, t.ID)
			} else if req.entry != nil {
				// duplicate_aggregate already reported
				continue
			} else {
				req.source = SourceBoth
			}

			req.entry = entry
			req.pin = req.pin || entry.Pin
		}
	}

	out := make([]*request, 0, len(order))

	for _, id := range order {
		req := byID[id]
		if req.entry != nil && req.entry.Skip {
			logging.Logger().Debug("aggregate skipped by schema", zap.Stringer("type", id))
			continue
		}

		out = append(out, req)
	}

	return out
}

// planAggregate applies the pin projection policy to one request. It returns
// nil when the aggregate cannot be generated.
func (b *Builder) planAggregate(req *request, diags *diagnostic.Diagnostics) *Aggregate {
	t := req.info
	name := t.ID.String()

	if t.Directive != nil {
		for _, opt := range t.Directive.Options {
			diags.Add(diagnostic.Diagnostic{
				Severity:  diagnostic.DiagnosticWarning,
				Code:      diagnostic.CodeUnknownOption,
				Message:   fmt.Sprintf("unknown directive option %q", opt),
				Aggregate: name,
				Position:  position(t),
			})
		}
	}

	if t.Kind != analyze.TypeKindStruct {
		// Schema entries were rejected by schema.Validate.
		if req.entry == nil {
			diags.Add(diagnostic.Diagnostic{
				Severity:  diagnostic.DiagnosticError,
				Code:      diagnostic.CodeNotAStruct,
				Message:   fmt.Sprintf("projection support cannot be applied to %s (kind: %s)", t.ID.Name, t.Kind),
				Aggregate: name,
				Position:  position(t),
			})
		}

		return nil
	}

	agg := &Aggregate{
		Type:   t,
		Pin:    req.pin,
		Source: req.source,
	}

	for _, f := range t.Fields {
		if f.Blank() {
			continue
		}

		pinned := b.pinned(req, &f)
		if pinned && !req.pin {
			diags.Add(diagnostic.Diagnostic{
				Severity:  diagnostic.DiagnosticWarning,
				Code:      diagnostic.CodePinWithoutSupport,
				Message:   "field is marked pinned but the aggregate does not request pin support",
				Aggregate: name,
				FieldPath: f.Name,
				Position:  position(t),
			})

			pinned = false
		}

		capability := projection.CapabilityUnpinned
		if pinned {
			capability = projection.CapabilityPinned
		}

		agg.Fields = append(agg.Fields, Field{
			Name:       f.Name,
			ID:         projection.Hash(f.Name),
			Capability: capability,
			Exported:   f.Exported,
			Embedded:   f.Embedded,
			Type:       f.Type,
			Index:      f.Index,
		})
	}

	if agg.Pin && t.HasDrop {
		if pins := agg.PinnedFields(); len(pins) > 0 {
			diags.Add(diagnostic.Diagnostic{
				Severity: diagnostic.DiagnosticError,
				Code:     diagnostic.CodePinnedWithDrop,
				Message: fmt.Sprintf("%s defines %s() and pins %s; a teardown routine could move pinned data",
					t.ID.Name, analyze.DropMethod, strings.Join(pins, ", ")),
				Aggregate: name,
				Position:  position(t),
			})

			return nil
		}
	}

	logging.Logger().Debug("planned aggregate",
		zap.Stringer("type", t.ID),
		zap.Bool("pin", agg.Pin),
		zap.Stringer("source", agg.Source),
		zap.Strings("pinned", agg.PinnedFields()))

	return agg
}

// pinned resolves the pin flag of a field: schema unpinned, then schema
// pinned, then the struct tag.
func (b *Builder) pinned(req *request, f *analyze.FieldInfo) bool {
	if req.entry != nil {
		if req.entry.Unpinned.Contains(f.Name) {
			return false
		}

		if req.entry.Pinned.Contains(f.Name) {
			return true
		}
	}

	return f.Pinned()
}

func (b *Builder) deriveRelocatability(p *Plan) {
	loaded := make(map[string]bool, len(b.graph.Packages))
	for path := range b.graph.Packages {
		loaded[path] = true
	}

	r := newRelocator(b.config.RuntimePath, loaded)

	for _, pkg := range p.Packages {
		for _, agg := range pkg.Aggregates {
			if agg.Pin {
				r.aggregates[agg.Type.GoType.Obj()] = agg
			}
		}
	}

	for _, pkg := range p.Packages {
		for _, agg := range pkg.Aggregates {
			v := r.of(agg.Type.GoType)
			agg.Relocatable = v.r
			agg.External = v.external

			if v.r != Relocatable {
				agg.Blocker = blocker(agg.Name(), v.path)
			}

			if !agg.Pin {
				continue
			}

			p.Diagnostics.AddInfo(diagnostic.CodeRelocatability, agg.Verdict(), agg.Type.ID.String(), "")
		}
	}
}

func escalateWarnings(d *diagnostic.Diagnostics) {
	for _, w := range d.Warnings {
		w.Severity = diagnostic.DiagnosticError
		d.Errors = append(d.Errors, w)
	}

	d.Warnings = nil
}

func position(t *analyze.TypeInfo) string {
	if !t.Pos.IsValid() {
		return ""
	}

	return t.Pos.String()
}

// Build is a convenience wrapper around NewBuilder(...).Build().
func Build(graph *analyze.TypeGraph, file *schema.File, config Config) (*Plan, error) {
	return NewBuilder(graph, file, config).Build()
}

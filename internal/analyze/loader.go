package analyze

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"reflect"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"

	"field-projection/internal/logging"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Analyzer loads Go packages and builds a type graph.
type Analyzer struct {
	graph *TypeGraph
	dir   string
}

// NewAnalyzer creates a new Analyzer. Relative patterns are resolved against
// dir; an empty dir means the current directory.
func NewAnalyzer(dir string) *Analyzer {
	return &Analyzer{
		graph: NewTypeGraph(),
		dir:   dir,
	}
}

// LoadPackages loads the specified packages and builds the type graph.
// Patterns are standard Go package patterns (e.g., "./examples/nested").
func (a *Analyzer) LoadPackages(ctx context.Context, patterns ...string) (*TypeGraph, error) {
	cfg := &packages.Config{
		Context: ctx,
		Mode:    LoadMode,
		Dir:     a.dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	// Check for package errors
	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %v", errs)
	}

	// Process each package
	for _, pkg := range pkgs {
		if err := a.processPackage(pkg); err != nil {
			return nil, fmt.Errorf("failed to process package %s: %w", pkg.PkgPath, err)
		}
	}

	return a.graph, nil
}

// Graph returns the current type graph.
func (a *Analyzer) Graph() *TypeGraph {
	return a.graph
}

// processPackage extracts named types from a loaded package.
func (a *Analyzer) processPackage(pkg *packages.Package) error {
	if pkg.Types == nil || pkg.TypesInfo == nil {
		return fmt.Errorf("package %s has no type information", pkg.PkgPath)
	}

	pkgInfo := &PackageInfo{
		Path: pkg.PkgPath,
		Name: pkg.Name,
		Pkg:  pkg.Types,
	}
	if len(pkg.GoFiles) > 0 {
		pkgInfo.Dir = filepath.Dir(pkg.GoFiles[0])
	}

	directives := collectDirectives(pkg)

	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		// Only process type names (not variables, constants, functions)
		typeName, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || typeName.IsAlias() {
			continue
		}

		named, ok := typeName.Type().(*types.Named)
		if !ok {
			continue
		}

		info := a.analyzeNamedType(named, pkg.Fset)
		info.Directive = directives[typeName]

		a.graph.Types[info.ID] = info
		pkgInfo.Types = append(pkgInfo.Types, info.ID)

		if info.Directive != nil {
			logging.Logger().Debug("found aggregate declaration",
				zap.Stringer("type", info.ID),
				zap.Bool("pin", info.Directive.Pin),
				zap.Int("fields", len(info.Fields)))
		}
	}

	a.graph.Packages[pkg.PkgPath] = pkgInfo

	return nil
}

// collectDirectives maps each type declared with a fieldproj directive to the
// parsed directive.
func collectDirectives(pkg *packages.Package) map[*types.TypeName]*Directive {
	result := make(map[*types.TypeName]*Directive)

	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}

			for _, spec := range gen.Specs {
				ts := spec.(*ast.TypeSpec)

				doc := ts.Doc
				if doc == nil && len(gen.Specs) == 1 {
					doc = gen.Doc
				}

				d := directiveOf(doc)
				if d == nil {
					continue
				}

				if obj, ok := pkg.TypesInfo.Defs[ts.Name].(*types.TypeName); ok {
					result[obj] = d
				}
			}
		}
	}

	return result
}

func directiveOf(doc *ast.CommentGroup) *Directive {
	if doc == nil {
		return nil
	}

	for _, c := range doc.List {
		if d := ParseDirective(c.Text); d != nil {
			return d
		}
	}

	return nil
}

// analyzeNamedType analyzes a declared named type.
func (a *Analyzer) analyzeNamedType(named *types.Named, fset *token.FileSet) *TypeInfo {
	obj := named.Obj()
	info := &TypeInfo{
		ID: TypeID{
			PkgPath: obj.Pkg().Path(),
			Name:    obj.Name(),
		},
		Kind:    KindOf(named),
		GoType:  named,
		HasDrop: hasDrop(named),
		Pos:     fset.Position(obj.Pos()),
	}

	if tparams := named.TypeParams(); tparams != nil {
		for i := range tparams.Len() {
			tp := tparams.At(i)
			info.TypeParams = append(info.TypeParams, TypeParam{
				Name:       tp.Obj().Name(),
				Constraint: tp.Constraint(),
			})
		}
	}

	if st, ok := named.Underlying().(*types.Struct); ok {
		info.Fields = structFields(st)
	}

	return info
}

// structFields extracts all fields of a struct type, exported or not.
func structFields(st *types.Struct) []FieldInfo {
	fields := make([]FieldInfo, 0, st.NumFields())

	for i := range st.NumFields() {
		field := st.Field(i)

		fields = append(fields, FieldInfo{
			Name:     field.Name(),
			Exported: field.Exported(),
			Type:     field.Type(),
			Tag:      reflect.StructTag(st.Tag(i)),
			Embedded: field.Embedded(),
			Index:    i,
		})
	}

	return fields
}

// hasDrop reports whether the pointer method set of named has Drop().
func hasDrop(named *types.Named) bool {
	mset := types.NewMethodSet(types.NewPointer(named))

	sel := mset.Lookup(named.Obj().Pkg(), DropMethod)
	if sel == nil {
		return false
	}

	sig, ok := sel.Type().(*types.Signature)

	return ok && sig.Params().Len() == 0 && sig.Results().Len() == 0
}

// Aggregates returns the types of a package that carry the directive, in
// name order.
func (g *TypeGraph) Aggregates(pkgPath string) []*TypeInfo {
	pkg, ok := g.Packages[pkgPath]
	if !ok {
		return nil
	}

	var out []*TypeInfo
	for _, id := range pkg.Types {
		if t := g.Types[id]; t != nil && t.Directive != nil {
			out = append(out, t)
		}
	}

	return out
}

// PackagePaths returns the loaded package paths in sorted order.
func (g *TypeGraph) PackagePaths() []string {
	paths := make([]string, 0, len(g.Packages))
	for p := range g.Packages {
		paths = append(paths, p)
	}

	slices.Sort(paths)

	return paths
}

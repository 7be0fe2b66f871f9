package gen

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"go/types"
	"strings"

	"go.uber.org/zap"

	"field-projection/internal/logging"
	"field-projection/internal/plan"
	"field-projection/projection"
)

// Defaults of the generator configuration.
const (
	DefaultFilename      = "fieldproj_gen.go"
	DefaultRuntimeImport = plan.DefaultRuntimePath
)

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// OutputDir overrides the directory generated files are written to.
	// When empty each file goes next to the package it belongs to.
	OutputDir string
	// Filename is the name of the generated file in each package.
	Filename string
	// RuntimeImport is the import path of the projection runtime.
	RuntimeImport string
	// GenerateComments enables relocatability and capability comments.
	GenerateComments bool
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Filename:         DefaultFilename,
		RuntimeImport:    DefaultRuntimeImport,
		GenerateComments: true,
	}
}

// Generator generates descriptor sets from a projection plan.
type Generator struct {
	config GeneratorConfig
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig) *Generator {
	if config.Filename == "" {
		config.Filename = DefaultFilename
	}

	if config.RuntimeImport == "" {
		config.RuntimeImport = DefaultRuntimeImport
	}

	return &Generator{config: config}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Package is the import path of the package the file belongs to.
	Package string
	// Dir is the directory of that package.
	Dir string
	// Filename is the name of the file (e.g., "fieldproj_gen.go").
	Filename string
	// Content is the formatted Go source code.
	Content []byte
}

// Generate generates one file per package of the plan.
func (g *Generator) Generate(p *plan.Plan) ([]GeneratedFile, error) {
	if p == nil {
		return nil, errors.New("plan is nil")
	}

	if err := p.Diagnostics.Error(); err != nil {
		return nil, fmt.Errorf("plan has errors: %w", err)
	}

	files := make([]GeneratedFile, 0, len(p.Packages))

	for _, pkg := range p.Packages {
		file, err := g.generatePackage(pkg)
		if err != nil {
			return nil, fmt.Errorf("generating %s: %w", pkg.Path, err)
		}

		logging.Logger().Debug("generated descriptor sets",
			zap.String("package", pkg.Path),
			zap.Int("aggregates", len(pkg.Aggregates)),
			zap.Int("bytes", len(file.Content)))

		files = append(files, *file)
	}

	return files, nil
}

func (g *Generator) generatePackage(pkg *plan.PackagePlan) (*GeneratedFile, error) {
	data := g.buildTemplateData(pkg)

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	file := &GeneratedFile{
		Package:  pkg.Path,
		Dir:      pkg.Dir,
		Filename: g.config.Filename,
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		// Best-effort: keep the unformatted code next to the output.
		_ = writeDebugUnformatted(g.outputDir(file), file.Filename, buf.Bytes())

		file.Content = buf.Bytes()

		return file, fmt.Errorf("formatting code: %w (unformatted code returned)", err)
	}

	file.Content = formatted

	return file, nil
}

func (g *Generator) outputDir(file *GeneratedFile) string {
	if g.config.OutputDir != "" {
		return g.config.OutputDir
	}

	return file.Dir
}

// templateData holds all data needed for the file template.
type templateData struct {
	PackageName      string
	Imports          []importSpec
	Aggregates       []aggregateData
	Registrations    []string
	GenerateComments bool
}

// aggregateData describes the descriptor set of one aggregate.
type aggregateData struct {
	Name           string // Pair
	TypeExpr       string // Pair[K, V]
	TypeParamsDecl string // [K comparable, V any]
	TypeArgs       string // [K, V]
	SetName        string // PairFieldSet
	ValueName      string // PairFields
	Generic        bool
	Register       string // registration call inside the generic constructor
	Summary        string
	Fields         []fieldData
}

// fieldData describes one descriptor.
type fieldData struct {
	Name        string
	Descriptor  string // projection.Pinned[Foo, uint]
	Constructor string // projection.NewPinned[Foo, uint]("a", 0x..., unsafe.Offsetof(Foo{}.a))
	Comment     string
}

func (g *Generator) buildTemplateData(pkg *plan.PackagePlan) *templateData {
	imports := newImportSet()
	if pkg.Pkg != nil {
		for _, name := range pkg.Pkg.Scope().Names() {
			imports.reserve(name)
		}
	}

	data := &templateData{
		PackageName:      pkg.Name,
		GenerateComments: g.config.GenerateComments,
	}

	var runtime, unsafeAlias string

	// Imports are only added when referenced so the file always compiles.
	useRuntime := func() string {
		if runtime == "" {
			runtime = imports.add(g.config.RuntimeImport, "")
		}

		return runtime
	}
	useUnsafe := func() string {
		if unsafeAlias == "" {
			unsafeAlias = imports.add("unsafe", "unsafe")
		}

		return unsafeAlias
	}

	qualify := imports.qualifier(pkg.Pkg)

	for _, agg := range pkg.Aggregates {
		// Suffixed names keep the export status of the aggregate.
		ad := aggregateData{
			Name:      agg.Name(),
			SetName:   agg.Name() + "FieldSet",
			ValueName: agg.Name() + "Fields",
			Generic:   agg.Type.IsGeneric(),
			Summary:   summary(agg),
		}

		ad.TypeExpr = ad.Name
		if ad.Generic {
			var decl, args []string
			for _, tp := range agg.Type.TypeParams {
				decl = append(decl, tp.Name+" "+types.TypeString(tp.Constraint, qualify))
				args = append(args, tp.Name)
			}

			ad.TypeParamsDecl = "[" + strings.Join(decl, ", ") + "]"
			ad.TypeArgs = "[" + strings.Join(args, ", ") + "]"
			ad.TypeExpr += ad.TypeArgs
		}

		var specs []string

		for _, f := range agg.Fields {
			kind := descriptorKind(agg.Pin, f.Capability)
			rt := useRuntime()
			generic := fmt.Sprintf("[%s, %s]", ad.TypeExpr, types.TypeString(f.Type, qualify))

			ad.Fields = append(ad.Fields, fieldData{
				Name:       f.Name,
				Descriptor: rt + "." + kind + generic,
				Constructor: fmt.Sprintf("%s.New%s%s(%q, %s, %s.Offsetof(%s{}.%s))",
					rt, kind, generic, f.Name, hashLiteral(f.ID), useUnsafe(), ad.TypeExpr, f.Name),
				Comment: fieldComment(agg.Pin, f.Capability),
			})

			specs = append(specs, f.Name+".Spec()")
		}

		if agg.Pin {
			target := ad.ValueName + "."
			if ad.Generic {
				target = "fs."
			}

			args := make([]string, len(specs))
			for i, s := range specs {
				args[i] = target + s
			}

			call := fmt.Sprintf("%s.Register[%s](%s)", useRuntime(), ad.TypeExpr, strings.Join(args, ", "))
			if ad.Generic {
				ad.Register = call
			} else {
				data.Registrations = append(data.Registrations, call)
			}
		}

		data.Aggregates = append(data.Aggregates, ad)
	}

	data.Imports = imports.specs()

	return data
}

func descriptorKind(pin bool, c projection.Capability) string {
	switch {
	case !pin:
		return "Field"
	case c == projection.CapabilityPinned:
		return "Pinned"
	default:
		return "Unpinned"
	}
}

func fieldComment(pin bool, c projection.Capability) string {
	if !pin {
		return ""
	}

	return strings.ToLower(c.String())
}

func hashLiteral(id projection.FieldName) string {
	return id.String()
}

func summary(agg *plan.Aggregate) string {
	if !agg.Pin {
		return fmt.Sprintf("%s has mapping support only.", agg.Name())
	}

	return agg.Verdict() + "."
}

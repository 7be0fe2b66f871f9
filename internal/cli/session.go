package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"go.uber.org/zap"

	"field-projection/internal/analyze"
	"field-projection/internal/diagnostic"
	"field-projection/internal/gen"
	"field-projection/internal/logging"
	"field-projection/internal/plan"
	"field-projection/internal/schema"
)

// defaultPatterns is used when a command gets no package patterns.
var defaultPatterns = []string{"./..."}

// buildPlan loads the packages and the schema and runs the planner.
func (o *rootOptions) buildPlan(ctx context.Context, patterns []string) (*plan.Plan, error) {
	if len(patterns) == 0 {
		patterns = defaultPatterns
	}

	graph, err := analyze.NewAnalyzer(o.dir).LoadPackages(ctx, patterns...)
	if err != nil {
		return nil, sysError(err)
	}

	var file *schema.File

	if o.cfg.Schema != "" {
		path := o.resolve(o.cfg.Schema)

		file, err = schema.LoadFile(path)
		if err != nil {
			return nil, userError(err)
		}

		logging.Logger().Debug("loaded schema",
			zap.String("path", path),
			zap.Int("aggregates", len(file.Aggregates)))
	}

	p, err := plan.Build(graph, file, o.cfg.Plan())
	if err != nil {
		return nil, sysError(err)
	}

	return p, nil
}

// generate plans and generates without writing anything.
func (o *rootOptions) generate(ctx context.Context, patterns []string, stderr io.Writer) ([]gen.GeneratedFile, *plan.Plan, error) {
	p, err := o.buildPlan(ctx, patterns)
	if err != nil {
		return nil, nil, err
	}

	printDiagnostics(stderr, &p.Diagnostics, false)

	if p.Diagnostics.HasErrors() {
		return nil, p, userError(fmt.Errorf("%d error(s) in projection plan", len(p.Diagnostics.Errors)))
	}

	cfg := o.generatorConfig()

	files, err := gen.NewGenerator(cfg).Generate(p)
	if err != nil {
		return nil, p, sysError(err)
	}

	// One output directory can only hold the file of a single package.
	if err := gen.CheckTargets(files, cfg.OutputDir); err != nil {
		return nil, p, userError(err)
	}

	return files, p, nil
}

func (o *rootOptions) generatorConfig() gen.GeneratorConfig {
	cfg := o.cfg.Generator()
	if cfg.OutputDir != "" {
		cfg.OutputDir = o.resolve(cfg.OutputDir)
	}

	return cfg
}

// resolve makes path relative to --dir.
func (o *rootOptions) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(o.dir, path)
}

// printDiagnostics writes errors and warnings, and infos when verbose is set.
func printDiagnostics(w io.Writer, d *diagnostic.Diagnostics, verbose bool) {
	for _, diag := range d.All() {
		if diag.Severity == diagnostic.DiagnosticInfo && !verbose {
			continue
		}

		fmt.Fprintf(w, "%s: %s\n", diag.Severity, diag.String())
	}
}

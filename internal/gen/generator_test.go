package gen

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"field-projection/internal/analyze"
	"field-projection/internal/plan"
	"field-projection/internal/schema"
)

func buildPlan(t *testing.T, dir, pattern string, file *schema.File) *plan.Plan {
	t.Helper()

	graph, err := analyze.NewAnalyzer(dir).LoadPackages(t.Context(), pattern)
	require.NoError(t, err)

	p, err := plan.Build(graph, file, plan.DefaultConfig())
	require.NoError(t, err)

	return p
}

func generateOne(t *testing.T, p *plan.Plan, cfg GeneratorConfig) GeneratedFile {
	t.Helper()

	files, err := NewGenerator(cfg).Generate(p)
	require.NoError(t, err)
	require.Len(t, files, 1)

	_, err = parser.ParseFile(token.NewFileSet(), files[0].Filename, files[0].Content, parser.ParseComments)
	require.NoError(t, err, string(files[0].Content))

	return files[0]
}

func TestGenerate_Nested(t *testing.T) {
	p := buildPlan(t, "../..", "./examples/nested", nil)
	file := generateOne(t, p, DefaultGeneratorConfig())

	assert.Equal(t, "field-projection/examples/nested", file.Package)
	assert.Equal(t, DefaultFilename, file.Filename)
	assert.NotEmpty(t, file.Dir)

	src := string(file.Content)
	for _, want := range []string{
		"// Code generated by fieldproj. DO NOT EDIT.",
		"package nested",
		`"field-projection/projection"`,
		`"unsafe"`,
		"type BarFieldSet struct {",
		"// Bar is relocatable.",
		`projection.NewPinned[Bar, Foo]("foo", 0xdcb27518fed9d577, unsafe.Offsetof(Bar{}.foo))`,
		`projection.NewUnpinned[Bar, uint]("c", 0xaf63de4c8601eff2, unsafe.Offsetof(Bar{}.c))`,
		`projection.NewPinned[Foo, uint]("a", 0xaf63dc4c8601ec8c, unsafe.Offsetof(Foo{}.a))`,
		`projection.NewUnpinned[Foo, uint]("b", 0xaf63df4c8601f1a5, unsafe.Offsetof(Foo{}.b))`,
		"var FooFields = FooFieldSet{",
		"projection.Register[Bar](BarFields.foo.Spec(), BarFields.c.Spec())",
		"projection.Register[Foo](FooFields.a.Spec(), FooFields.b.Spec())",
		"// pinned",
	} {
		assert.Contains(t, src, want)
	}
}

func TestGenerate_MatchesCommittedExamples(t *testing.T) {
	tests := []struct {
		pkg    string
		schema string
	}{
		{pkg: "nested"},
		{pkg: "generic"},
		{pkg: "legacy", schema: "../../examples/legacy/fieldproj.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.pkg, func(t *testing.T) {
			var file *schema.File
			if tt.schema != "" {
				var err error
				file, err = schema.LoadFile(tt.schema)
				require.NoError(t, err)
			}

			p := buildPlan(t, "../..", "./examples/"+tt.pkg, file)
			generated := generateOne(t, p, DefaultGeneratorConfig())

			stale, err := Stale([]GeneratedFile{generated}, "")
			require.NoError(t, err)
			assert.Empty(t, stale, "run go generate ./examples/...\n%s", generated.Content)
		})
	}
}

func TestGenerate_Generic(t *testing.T) {
	p := buildPlan(t, "../..", "./examples/generic", nil)
	file := generateOne(t, p, DefaultGeneratorConfig())

	src := string(file.Content)
	for _, want := range []string{
		"type PairFieldSet[K comparable, V any] struct {",
		"func PairFields[K comparable, V any]() PairFieldSet[K, V] {",
		"fs := PairFieldSet[K, V]{",
		`projection.NewPinned[Pair[K, V], K]("Key", 0x506b6a19d12f414c, unsafe.Offsetof(Pair[K, V]{}.Key))`,
		"projection.Register[Pair[K, V]](fs.Key.Spec(), fs.Value.Spec(), fs.hits.Spec())",
		"return fs",
		"func (*Pair[K, V]) RegisterProjection() {\n\tPairFields[K, V]()\n}",
		"projection.Pinned[Anchor, projection.PhantomPinned]",
		"projection.Pinned[Anchor, Pair[string, int]]",
		"// Anchor is not relocatable (Anchor.pinned).",
		"// Pair is relocatable depending on type arguments (Pair.Key).",
		"projection.Register[Anchor](",
	} {
		assert.Contains(t, src, want)
	}

	assert.NotContains(t, src, "PairFields.Key")
	assert.NotContains(t, src, "func (*Anchor) RegisterProjection()")
}

func TestGenerate_MappingOnlyAndComments(t *testing.T) {
	skip := &schema.File{Aggregates: []schema.Aggregate{
		{Type: "Choice", Skip: true},
		{Type: "Closer", Skip: true},
	}}
	p := buildPlan(t, "../analyze", "./testdata/policy", skip)
	require.True(t, p.Diagnostics.IsValid(), p.Diagnostics.Error())

	cfg := DefaultGeneratorConfig()
	cfg.GenerateComments = false
	file := generateOne(t, p, cfg)

	src := string(file.Content)
	assert.Contains(t, src, "type PlainFieldSet struct {")
	assert.Contains(t, src, `projection.NewField[Plain, int]("x", 0xaf63f54c86021707, unsafe.Offsetof(Plain{}.x))`)
	assert.NotContains(t, src, "projection.Register[Plain]")
	assert.Contains(t, src, "projection.Register[Guarded](GuardedFields.marker.Spec(), GuardedFields.count.Spec())")

	// The runtime package is imported once even though field types use it.
	assert.Contains(t, src, "projection.Pinned[Guarded, projection.PhantomPinned]")
	assert.Contains(t, src, "projection.Field[Holder, [2]Guarded]")
	assert.NotContains(t, src, "projection2")

	assert.NotContains(t, src, "// pinned")
	assert.NotContains(t, src, "is not relocatable")
}

func TestGenerate_RefusesPlanWithErrors(t *testing.T) {
	p := buildPlan(t, "../analyze", "./testdata/policy", nil)
	require.True(t, p.Diagnostics.HasErrors())

	_, err := NewGenerator(DefaultGeneratorConfig()).Generate(p)
	assert.ErrorContains(t, err, "pinned_with_drop")

	_, err = NewGenerator(DefaultGeneratorConfig()).Generate(nil)
	assert.Error(t, err)
}

func TestGenerate_EmptyPlan(t *testing.T) {
	t.Parallel()

	files, err := NewGenerator(GeneratorConfig{}).Generate(&plan.Plan{})
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestImportSet(t *testing.T) {
	t.Parallel()

	s := newImportSet()
	s.reserve("projection")

	assert.Equal(t, "unsafe", s.add("unsafe", "unsafe"))
	assert.Equal(t, "projection2", s.add("field-projection/projection", ""))
	assert.Equal(t, "projection2", s.add("field-projection/projection", "projection"))
	assert.Equal(t, "projection3", s.add("example.com/other/projection", "projection"))

	assert.Equal(t, []importSpec{
		{Alias: "projection3", Path: "example.com/other/projection"},
		{Alias: "projection2", Path: "field-projection/projection"},
		{Path: "unsafe"},
	}, s.specs())
}

func TestWriteFilesAndStale(t *testing.T) {
	t.Parallel()

	pkgDir := t.TempDir()
	files := []GeneratedFile{{
		Package:  "example.com/a",
		Dir:      pkgDir,
		Filename: DefaultFilename,
		Content:  []byte("package a\n"),
	}}

	stale, err := Stale(files, "")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(pkgDir, DefaultFilename)}, stale)

	require.NoError(t, WriteFiles(files, ""))

	stale, err = Stale(files, "")
	require.NoError(t, err)
	assert.Empty(t, stale)

	files[0].Content = []byte("package a\n\nvar x int\n")
	stale, err = Stale(files, "")
	require.NoError(t, err)
	assert.Len(t, stale, 1)

	outDir := filepath.Join(t.TempDir(), "nested", "out")
	require.NoError(t, WriteFiles(files, outDir))

	got, err := os.ReadFile(filepath.Join(outDir, DefaultFilename))
	require.NoError(t, err)
	assert.Equal(t, files[0].Content, got)
}

func TestWriteFiles_SharedOutputDir(t *testing.T) {
	t.Parallel()

	files := []GeneratedFile{
		{Package: "example.com/a", Dir: t.TempDir(), Filename: DefaultFilename, Content: []byte("package a\n")},
		{Package: "example.com/b", Dir: t.TempDir(), Filename: DefaultFilename, Content: []byte("package b\n")},
	}

	// Next to their packages the files do not collide.
	require.NoError(t, CheckTargets(files, ""))

	outDir := t.TempDir()
	err := WriteFiles(files, outDir)
	require.ErrorIs(t, err, ErrOutputCollision)
	assert.Contains(t, err.Error(), "example.com/a and example.com/b")

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = Stale(files, outDir)
	assert.ErrorIs(t, err, ErrOutputCollision)
}

func TestWriteDebugUnformatted(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, writeDebugUnformatted(dir, "fieldproj_gen.go", []byte("package")))

	got, err := os.ReadFile(filepath.Join(dir, "fieldproj_gen.unformatted.txt"))
	require.NoError(t, err)
	assert.Equal(t, "package", string(got))

	assert.NoError(t, writeDebugUnformatted("", "x.go", nil))
}

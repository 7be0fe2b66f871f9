package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	yaml := `
version: "1"
aggregates:
  - type: nested.Bar
    pin: true
    pinned: foo
  - type: Foo
    pinned: [a]
    unpinned: [b]
  - type: Legacy
    skip: true
`

	f, err := Parse([]byte(yaml))
	require.NoError(t, err)
	require.NotNil(t, f)

	assert.Equal(t, "1", f.Version)
	require.Len(t, f.Aggregates, 3)

	bar := f.Aggregates[0]
	assert.Equal(t, "nested.Bar", bar.Type)
	assert.True(t, bar.Pin)
	assert.Equal(t, StringOrArray{"foo"}, bar.Pinned)
	assert.True(t, bar.Unpinned.IsEmpty())

	// pinned implies pin support
	foo := f.Aggregates[1]
	assert.True(t, foo.Pin)
	assert.Equal(t, "a", foo.Pinned.First())
	assert.True(t, foo.Unpinned.Contains("b"))

	assert.True(t, f.Aggregates[2].Skip)
	assert.False(t, f.Aggregates[2].Pin)
}

func TestParse_Defaults(t *testing.T) {
	f, err := Parse([]byte(`aggregates: [{type: Bar}]`))
	require.NoError(t, err)
	assert.Equal(t, "1", f.Version)
	assert.False(t, f.Aggregates[0].Pin)

	empty, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, "1", empty.Version)
	assert.Empty(t, empty.Aggregates)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "unknown key", yaml: "aggregates:\n  - type: Bar\n    pined: [a]\n"},
		{name: "pinned map", yaml: "aggregates:\n  - type: Bar\n    pinned: {a: true}\n"},
		{name: "malformed", yaml: "aggregates: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestMarshal_RoundTrip(t *testing.T) {
	orig := &File{
		Version: "1",
		Aggregates: []Aggregate{
			{Type: "Bar", Pin: true, Pinned: StringOrArray{"foo"}},
			{Type: "Foo", Pin: true, Pinned: StringOrArray{"a", "b"}},
		},
	}

	data, err := Marshal(orig)
	require.NoError(t, err)
	assert.Contains(t, string(data), "pinned: foo\n")

	parsed, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, orig, parsed)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fieldproj.yaml")

	require.NoError(t, WriteFile(&File{Aggregates: []Aggregate{{Type: "Bar"}}}, path))

	f, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, f.Aggregates, 1)

	agg, ok := f.Find("Bar")
	require.True(t, ok)
	assert.Equal(t, "Bar", agg.Type)

	_, ok = f.Find("Baz")
	assert.False(t, ok)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

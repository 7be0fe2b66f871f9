package schema

// File represents the root of a schema YAML file.
type File struct {
	// Version is the schema format version.
	Version string `yaml:"version"`
	// Aggregates lists the aggregates that get projection support.
	Aggregates []Aggregate `yaml:"aggregates"`
}

// Aggregate requests projection support for one struct type.
type Aggregate struct {
	// Type is the aggregate's type: "Bar", "nested.Bar" or a full import path.
	Type string `yaml:"type"`
	// Pin requests pin projection support.
	Pin bool `yaml:"pin,omitempty"`
	// Pinned lists fields whose pin guarantee survives projection.
	Pinned StringOrArray `yaml:"pinned,omitempty"`
	// Unpinned lists fields that stay relocatable even if tagged.
	Unpinned StringOrArray `yaml:"unpinned,omitempty"`
	// Skip disables generation for a type carrying the directive.
	Skip bool `yaml:"skip,omitempty"`
}

// StringOrArray is a YAML value that can be a single string or a list.
type StringOrArray []string

// Find returns the schema entry for the given type string.
func (f *File) Find(typ string) (*Aggregate, bool) {
	for i := range f.Aggregates {
		if f.Aggregates[i].Type == typ {
			return &f.Aggregates[i], true
		}
	}

	return nil, false
}

package gen

import "text/template"

var fileTemplate = template.Must(template.New("fieldproj").Parse(`// Code generated by fieldproj. DO NOT EDIT.

package {{.PackageName}}
{{if .Imports}}
import (
{{- range .Imports}}
	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{- end}}
)
{{end}}
{{- range .Aggregates}}
// {{.SetName}} holds the projection descriptors of {{.Name}}.
{{- if $.GenerateComments}}
//
// {{.Summary}}
{{- end}}
type {{.SetName}}{{.TypeParamsDecl}} struct {
{{- range .Fields}}
	{{.Name}} {{.Descriptor}}{{if and $.GenerateComments .Comment}} // {{.Comment}}{{end}}
{{- end}}
}
{{if .Generic}}
// {{.ValueName}} returns the projection descriptors of {{.TypeExpr}}.
func {{.ValueName}}{{.TypeParamsDecl}}() {{.SetName}}{{.TypeArgs}} {
	fs := {{.SetName}}{{.TypeArgs}}{
{{- range .Fields}}
		{{.Name}}: {{.Constructor}},
{{- end}}
	}
{{- if .Register}}
	{{.Register}}
{{- end}}

	return fs
}
{{- if .Register}}

// RegisterProjection records the pin policy of {{.TypeExpr}} on first use.
func (*{{.TypeExpr}}) RegisterProjection() {
	{{.ValueName}}{{.TypeArgs}}()
}
{{- end}}
{{else}}
// {{.ValueName}} holds the projection descriptors of {{.Name}}.
var {{.ValueName}} = {{.SetName}}{
{{- range .Fields}}
	{{.Name}}: {{.Constructor}},
{{- end}}
}
{{end}}
{{- end}}
{{- if .Registrations}}
func init() {
{{- range .Registrations}}
	{{.}}
{{- end}}
}
{{end}}`))

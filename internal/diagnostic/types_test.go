package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics_Severities(t *testing.T) {
	t.Parallel()

	var d Diagnostics
	assert.True(t, d.IsValid())
	assert.NoError(t, d.Error())

	d.AddInfo(CodeRelocatability, "Bar is relocatable", "Bar", "")
	d.Add(Diagnostic{Severity: DiagnosticWarning, Code: CodePinWithoutSupport, Message: "pin tag ignored", Aggregate: "Plain", FieldPath: "x"})
	assert.True(t, d.IsValid())

	d.AddError(CodePinnedWithDrop, "Closer pins name and defines Drop", "Closer", "name")
	assert.True(t, d.HasErrors())
	assert.Equal(t, []string{CodePinnedWithDrop}, d.Codes())

	all := d.All()
	require.Len(t, all, 3)
	assert.Equal(t, DiagnosticError, all[0].Severity)
	assert.Equal(t, DiagnosticWarning, all[1].Severity)
	assert.Equal(t, DiagnosticInfo, all[2].Severity)
}

func TestDiagnostics_Error(t *testing.T) {
	t.Parallel()

	var d Diagnostics
	d.AddError(CodeNotAStruct, "Choice is an interface", "Choice", "")
	d.AddError(CodeFieldNotFound, "no field d", "Bar", "d")

	err := d.Error()
	require.Error(t, err)
	assert.Equal(t,
		"[Choice]: [not_a_struct] Choice is an interface; [Bar] d: [field_not_found] no field d",
		err.Error())
}

func TestDiagnostics_MergeAndAdd(t *testing.T) {
	t.Parallel()

	var a, b Diagnostics
	a.AddError(CodeTypeNotFound, "missing", "", "")
	b.Add(Diagnostic{Severity: DiagnosticWarning, Code: CodeUnknownOption})
	b.Add(Diagnostic{Severity: DiagnosticInfo, Code: CodeRelocatability})

	a.Merge(b)
	assert.Len(t, a.Errors, 1)
	assert.Len(t, a.Warnings, 1)
	assert.Len(t, a.Infos, 1)
}

func TestDiagnostic_String(t *testing.T) {
	t.Parallel()

	d := Diagnostic{Code: CodeStaleOutput, Message: "regenerate", Position: "bar.go:3:6"}
	assert.Equal(t, "bar.go:3:6: [stale_output] regenerate", d.String())
	assert.Equal(t, "plain", Diagnostic{Message: "plain"}.String())
}

func TestDiagnosticSeverity_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "info", DiagnosticInfo.String())
	assert.Equal(t, "warning", DiagnosticWarning.String())
	assert.Equal(t, "error", DiagnosticError.String())
	assert.Equal(t, "unknown", DiagnosticSeverity(9).String())
}

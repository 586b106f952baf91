package compiler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/diwire/internal/ir"
)

const sampleYAML = `
services:
  zeta:
    class: app.Zeta
  alpha:
    class: app.Alpha
    arguments: ["@zeta", "@@at", 7, [true, null]]
    calls:
      - method: setZeta
        arguments: ["@zeta"]
    tags:
      - app.plain
      - name: app.handler
        priority: -10
        alias: "@kept"
wiring:
  - kind: add_method
    service: alpha
    tag: app.handler
    method: addHandler
    tier: before_removing
moves:
  - source: add_method:alpha
    target: remove_abstract
    tier: removing
`

func TestCompileYAML(t *testing.T) {
	spec, err := CompileYAML([]byte(sampleYAML))
	require.NoError(t, err)

	require.Len(t, spec.Services, 2)
	assert.Equal(t, "zeta", spec.Services[0].ID, "declaration order is kept")

	alpha := spec.Services[1]
	assert.Equal(t, ir.IRArray{
		ir.NewReference("zeta"),
		ir.IRString("@at"),
		ir.IRInt(7),
		ir.IRArray{ir.IRBool(true), ir.IRNull{}},
	}, alpha.Arguments)
	assert.Equal(t, []ir.MethodCall{{Method: "setZeta", Arguments: ir.IRArray{ir.NewReference("zeta")}}}, alpha.MethodCalls)
	assert.Equal(t, []ir.TagOccurrence{
		{Name: "app.plain"},
		{Name: "app.handler", Attributes: ir.IRObject{"priority": ir.IRInt(-10), "alias": ir.IRString("@kept")}},
	}, alpha.Tags)

	assert.Equal(t, []ir.WiringSpec{{
		Kind:    ir.WiringAddMethod,
		Service: "alpha",
		Tag:     "app.handler",
		Method:  "addHandler",
		Tier:    "before_removing",
	}}, spec.Wiring)
	assert.Equal(t, []ir.PassMove{{Source: "add_method:alpha", Target: "remove_abstract", Tier: "removing"}}, spec.Moves)
}

func TestCompileYAMLUnknownField(t *testing.T) {
	_, err := CompileYAML([]byte("services:\n  a:\n    klass: X\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "klass")
}

func TestCompileYAMLRejectsFloats(t *testing.T) {
	_, err := CompileYAML([]byte("services:\n  a:\n    tags:\n      - name: t\n        priority: 1.5\n"))
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Message, "float")
}

func TestCompileYAMLReservedRefObject(t *testing.T) {
	tests := map[string]struct {
		src   string
		field string
	}{
		"argument": {"services:\n  a:\n    arguments:\n      - {$ref: b}\n", "services.a.arguments"},
		"tag":      {"services:\n  a:\n    tags:\n      - name: t\n        $ref: b\n", "services.a.tags[0]"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := CompileYAML([]byte(tt.src))
			var ce *CompileError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.field, ce.Field)
			assert.Contains(t, ce.Message, "reserved for service references")
		})
	}
}

func TestCompileYAMLBadTag(t *testing.T) {
	_, err := CompileYAML([]byte("services:\n  a:\n    tags:\n      - priority: 1\n"))
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "services.a.tags[0].name", ce.Field)
}

func TestCompileYAMLEmpty(t *testing.T) {
	spec, err := CompileYAML(nil)
	require.NoError(t, err)
	assert.Empty(t, spec.Services)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "services.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	spec, err := LoadYAMLFile(path)
	require.NoError(t, err)
	assert.Len(t, spec.Services, 2)

	_, err = LoadYAMLFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

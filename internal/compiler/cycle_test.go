package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/diwire/internal/ir"
)

// svc builds a definition whose constructor references deps.
func svc(id string, deps ...string) ir.ServiceDefinition {
	def := ir.ServiceDefinition{ID: id}
	for _, dep := range deps {
		def.Arguments = append(def.Arguments, ir.NewReference(dep))
	}
	return def
}

func TestAnalyzeCycles_Empty(t *testing.T) {
	warnings := AnalyzeCycles(nil)
	assert.Empty(t, warnings)
	assert.NotNil(t, warnings)
}

func TestAnalyzeCycles_DAG(t *testing.T) {
	services := []ir.ServiceDefinition{
		svc("app", "mailer", "logger"),
		svc("mailer", "logger"),
		svc("logger"),
	}
	assert.Empty(t, AnalyzeCycles(services), "DAG should produce no cycle warnings")
}

func TestAnalyzeCycles_SelfLoop(t *testing.T) {
	warnings := AnalyzeCycles([]ir.ServiceDefinition{svc("a", "a")})

	require.Len(t, warnings, 1)
	assert.Equal(t, []string{"a", "a"}, warnings[0].Path)
	assert.Equal(t, "service a references itself in its constructor", warnings[0].Message)
	assert.Equal(t, "warning", warnings[0].Level)
}

func TestAnalyzeCycles_TwoNodeCycle(t *testing.T) {
	warnings := AnalyzeCycles([]ir.ServiceDefinition{svc("a", "b"), svc("b", "a")})

	require.Len(t, warnings, 1)
	assert.Equal(t, []string{"a", "b", "a"}, warnings[0].Path)
	assert.Equal(t, "circular constructor dependency: a -> b -> a", warnings[0].Message)
}

func TestAnalyzeCycles_ThreeNodeCycle(t *testing.T) {
	warnings := AnalyzeCycles([]ir.ServiceDefinition{
		svc("a", "b"),
		svc("b", "c"),
		svc("c", "a"),
	})

	require.Len(t, warnings, 1)
	assert.Equal(t, []string{"a", "b", "c", "a"}, warnings[0].Path)
}

func TestAnalyzeCycles_MultipleIndependentCycles(t *testing.T) {
	warnings := AnalyzeCycles([]ir.ServiceDefinition{
		svc("a", "b"),
		svc("b", "a"),
		svc("c", "d"),
		svc("d", "c"),
		svc("e", "a"),
	})

	require.Len(t, warnings, 2)
	assert.Equal(t, []string{"a", "b", "a"}, warnings[0].Path)
	assert.Equal(t, []string{"c", "d", "c"}, warnings[1].Path)
}

func TestAnalyzeCycles_IgnoresMethodCalls(t *testing.T) {
	a := svc("a", "b")
	b := svc("b")
	b.MethodCalls = []ir.MethodCall{{Method: "setA", Arguments: ir.IRArray{ir.NewReference("a")}}}

	assert.Empty(t, AnalyzeCycles([]ir.ServiceDefinition{a, b}), "setter injection breaks the loop")
}

func TestAnalyzeCycles_IgnoresUnknownReferences(t *testing.T) {
	assert.Empty(t, AnalyzeCycles([]ir.ServiceDefinition{svc("a", "missing")}))
}

func TestAnalyzeCycles_NestedReferences(t *testing.T) {
	a := ir.ServiceDefinition{ID: "a", Arguments: ir.IRArray{ir.IRObject{"next": ir.NewReference("b")}}}
	b := ir.ServiceDefinition{ID: "b", Arguments: ir.IRArray{ir.IRArray{ir.NewReference("a")}}}

	warnings := AnalyzeCycles([]ir.ServiceDefinition{a, b})
	require.Len(t, warnings, 1)
	assert.Equal(t, []string{"a", "b", "a"}, warnings[0].Path)
}

func TestBuildDependencyGraph_Basic(t *testing.T) {
	graph, order := buildDependencyGraph([]ir.ServiceDefinition{svc("x", "y", "z"), svc("y")})

	assert.Equal(t, []string{"x", "y"}, order)
	assert.Equal(t, []string{"y", "z"}, graph["x"])
	assert.Empty(t, graph["y"])
}

func TestHasSelfLoop(t *testing.T) {
	graph := dependencyGraph{"a": {"a"}, "b": {"c"}}
	assert.True(t, hasSelfLoop("a", graph))
	assert.False(t, hasSelfLoop("b", graph))
}

func TestTarjanSCC_DAG(t *testing.T) {
	graph := dependencyGraph{"a": {"b"}, "b": {}}
	sccs := tarjanSCC(graph, []string{"a", "b"})
	assert.Equal(t, [][]string{{"b"}, {"a"}}, sccs)
}

func TestTarjanSCC_TwoNodeCycle(t *testing.T) {
	graph := dependencyGraph{"a": {"b"}, "b": {"a"}}
	sccs := tarjanSCC(graph, []string{"a", "b"})
	require.Len(t, sccs, 1)
	assert.ElementsMatch(t, []string{"a", "b"}, sccs[0])
}

func TestReconstructCyclePath_Empty(t *testing.T) {
	assert.Empty(t, reconstructCyclePath(nil, dependencyGraph{}))
}

package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/diwire/internal/ir"
)

func sampleResult() *Result {
	r := NewResult()
	r.Container = &ir.CompiledContainer{
		Services: []ir.ServiceDefinition{
			{
				ID:          "registry",
				Class:       "app.Registry",
				Arguments:   ir.IRArray{ir.IRArray{ir.IRString("a")}, ir.NewReference("loc")},
				MethodCalls: []ir.MethodCall{{Method: "add", Arguments: ir.IRArray{ir.NewReference("a")}}},
				Tags:        []ir.TagOccurrence{{Name: "t1"}, {Name: "t2"}},
			},
			{ID: "empty"},
		},
	}
	r.Trace = []PassEvent{{Tier: "before_optimization", Name: "resolve_class"}, {Tier: "removing", Name: "remove_abstract"}}
	return r
}

func TestEvaluateExpectations_AllMatch(t *testing.T) {
	errs := EvaluateExpectations(sampleResult(), Expectation{
		Services: map[string]ServiceExpectation{
			"registry": {
				Class:       "app.Registry",
				Arguments:   []any{[]any{"a"}, "@loc"},
				MethodCalls: []CallExpectation{{Method: "add", Arguments: []any{"@a"}}},
				Tags:        []string{"t1", "t2"},
			},
			"empty": {Arguments: []any{}, MethodCalls: []CallExpectation{}},
		},
		Absent: []string{"gone"},
		Passes: []string{"resolve_class", "remove_abstract"},
	})
	assert.Empty(t, errs)
}

func TestEvaluateExpectations_Mismatches(t *testing.T) {
	tests := []struct {
		name   string
		expect Expectation
		want   string
	}{
		{
			name:   "missing service",
			expect: Expectation{Services: map[string]ServiceExpectation{"ghost": {}}},
			want:   "not in compiled container",
		},
		{
			name:   "class",
			expect: Expectation{Services: map[string]ServiceExpectation{"registry": {Class: "app.Other"}}},
			want:   "registry.class",
		},
		{
			name:   "argument is a string not a reference",
			expect: Expectation{Services: map[string]ServiceExpectation{"registry": {Arguments: []any{[]any{"a"}, "@@loc"}}}},
			want:   `"@loc"`,
		},
		{
			name:   "call count",
			expect: Expectation{Services: map[string]ServiceExpectation{"registry": {MethodCalls: []CallExpectation{}}}},
			want:   `1 call(s): add[{"$ref":"a"}]`,
		},
		{
			name:   "call method",
			expect: Expectation{Services: map[string]ServiceExpectation{"registry": {MethodCalls: []CallExpectation{{Method: "remove"}}}}},
			want:   "method_calls[0].method",
		},
		{
			name:   "tags",
			expect: Expectation{Services: map[string]ServiceExpectation{"registry": {Tags: []string{"t2", "t1"}}}},
			want:   "registry.tags",
		},
		{
			name:   "present",
			expect: Expectation{Absent: []string{"empty"}},
			want:   "service present",
		},
		{
			name:   "pass order",
			expect: Expectation{Passes: []string{"remove_abstract", "resolve_class"}},
			want:   "resolve_class -> remove_abstract",
		},
		{
			name:   "error expected",
			expect: Expectation{Error: "boom"},
			want:   "compilation succeeded",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := EvaluateExpectations(sampleResult(), tt.expect)
			require.Len(t, errs, 1, "errors: %v", errs)
			assert.Contains(t, errs[0], tt.want)
		})
	}
}

func TestEvaluateExpectations_WrongError(t *testing.T) {
	r := NewResult()
	r.CompileError = "something else"

	errs := EvaluateExpectations(r, Expectation{Error: "boom"})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "something else")
}

func TestEvaluateExpectations_ServicesSorted(t *testing.T) {
	errs := EvaluateExpectations(sampleResult(), Expectation{Services: map[string]ServiceExpectation{
		"zz": {},
		"aa": {},
	}})
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], "(aa)")
	assert.Contains(t, errs[1], "(zz)")
}

func TestAssertionErrorFormat(t *testing.T) {
	err := &AssertionError{Type: AssertService, Subject: "a.class", Expected: "X", Actual: "Y"}
	assert.Equal(t, "Assertion failed: service (a.class)\n  Expected: X\n  Actual: Y", err.Error())
}

func TestResultAddError(t *testing.T) {
	r := NewResult()
	assert.True(t, r.Pass)
	r.AddError("nope")
	assert.False(t, r.Pass)
	assert.Equal(t, []string{"nope"}, r.Errors)
}

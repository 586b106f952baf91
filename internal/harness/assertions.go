package harness

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/roach88/diwire/internal/compiler"
	"github.com/roach88/diwire/internal/ir"
)

// Expectation kinds, used as AssertionError.Type.
const (
	AssertError       = "error"
	AssertService     = "service"
	AssertAbsent      = "absent"
	AssertPassOrder   = "passes"
	AssertCompilation = "compile"
)

// AssertionError is returned when an expectation fails.
type AssertionError struct {
	Type     string // Expectation kind for categorization
	Subject  string // Service id or field the expectation is about
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s", e.Type)
	if e.Subject != "" {
		fmt.Fprintf(&buf, " (%s)", e.Subject)
	}
	fmt.Fprintf(&buf, "\n  Expected: %s\n  Actual: %s", e.Expected, e.Actual)
	return buf.String()
}

// EvaluateExpectations checks result against expect and returns one message
// per failed expectation.
func EvaluateExpectations(result *Result, expect Expectation) []string {
	var errs []string
	add := func(err error) {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	if expect.Error != "" {
		add(assertCompileError(result, expect.Error))
		return errs
	}
	if result.CompileError != "" {
		add(&AssertionError{
			Type:     AssertCompilation,
			Expected: "compilation to succeed",
			Actual:   result.CompileError,
		})
		return errs
	}

	ids := make([]string, 0, len(expect.Services))
	for id := range expect.Services {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		for _, err := range assertService(result.Container, id, expect.Services[id]) {
			add(err)
		}
	}

	for _, id := range expect.Absent {
		if _, ok := result.Container.Service(id); ok {
			add(&AssertionError{Type: AssertAbsent, Subject: id, Expected: "service removed", Actual: "service present"})
		}
	}

	if expect.Passes != nil {
		add(assertPassOrder(result.PassNames(), expect.Passes))
	}
	return errs
}

func assertCompileError(result *Result, want string) error {
	if result.CompileError == "" {
		return &AssertionError{
			Type:     AssertError,
			Expected: fmt.Sprintf("compile error containing %q", want),
			Actual:   "compilation succeeded",
		}
	}
	if !strings.Contains(result.CompileError, want) {
		return &AssertionError{
			Type:     AssertError,
			Expected: fmt.Sprintf("compile error containing %q", want),
			Actual:   result.CompileError,
		}
	}
	return nil
}

func assertService(c *ir.CompiledContainer, id string, want ServiceExpectation) []error {
	def, ok := c.Service(id)
	if !ok {
		return []error{&AssertionError{Type: AssertService, Subject: id, Expected: "service present", Actual: "not in compiled container"}}
	}

	var errs []error
	if want.Class != "" && want.Class != def.Class {
		errs = append(errs, &AssertionError{Type: AssertService, Subject: id + ".class", Expected: want.Class, Actual: def.Class})
	}

	if want.Arguments != nil {
		if err := assertArguments(id+".arguments", want.Arguments, def.Arguments); err != nil {
			errs = append(errs, err)
		}
	}

	if want.MethodCalls != nil {
		if len(want.MethodCalls) != len(def.MethodCalls) {
			errs = append(errs, &AssertionError{
				Type:     AssertService,
				Subject:  id + ".method_calls",
				Expected: fmt.Sprintf("%d call(s)", len(want.MethodCalls)),
				Actual:   fmt.Sprintf("%d call(s): %s", len(def.MethodCalls), formatCalls(def.MethodCalls)),
			})
		} else {
			for i, call := range want.MethodCalls {
				subject := fmt.Sprintf("%s.method_calls[%d]", id, i)
				got := def.MethodCalls[i]
				if call.Method != got.Method {
					errs = append(errs, &AssertionError{Type: AssertService, Subject: subject + ".method", Expected: call.Method, Actual: got.Method})
					continue
				}
				if err := assertArguments(subject+".arguments", call.Arguments, got.Arguments); err != nil {
					errs = append(errs, err)
				}
			}
		}
	}

	if want.Tags != nil {
		got := make([]string, len(def.Tags))
		for i, tag := range def.Tags {
			got[i] = tag.Name
		}
		if !slices.Equal(got, want.Tags) {
			errs = append(errs, &AssertionError{
				Type:     AssertService,
				Subject:  id + ".tags",
				Expected: fmt.Sprintf("%v", want.Tags),
				Actual:   fmt.Sprintf("%v", got),
			})
		}
	}
	return errs
}

// assertArguments compares canonical JSON so that references, nested
// lists and objects compare structurally.
func assertArguments(subject string, raw []any, got ir.IRArray) error {
	want, err := compiler.DecodeArguments(raw)
	if err != nil {
		return &AssertionError{Type: AssertService, Subject: subject, Expected: "valid expected arguments", Actual: err.Error()}
	}
	wantJSON, err := ir.MarshalCanonical(want)
	if err != nil {
		return &AssertionError{Type: AssertService, Subject: subject, Expected: "valid expected arguments", Actual: err.Error()}
	}
	if got == nil {
		got = ir.IRArray{}
	}
	gotJSON, err := ir.MarshalCanonical(got)
	if err != nil {
		return &AssertionError{Type: AssertService, Subject: subject, Expected: string(wantJSON), Actual: err.Error()}
	}
	if string(wantJSON) != string(gotJSON) {
		return &AssertionError{Type: AssertService, Subject: subject, Expected: string(wantJSON), Actual: string(gotJSON)}
	}
	return nil
}

func assertPassOrder(got, want []string) error {
	if slices.Equal(got, want) {
		return nil
	}
	return &AssertionError{
		Type:     AssertPassOrder,
		Expected: strings.Join(want, " -> "),
		Actual:   strings.Join(got, " -> "),
	}
}

func formatCalls(calls []ir.MethodCall) string {
	parts := make([]string, len(calls))
	for i, call := range calls {
		args, err := ir.MarshalCanonical(call.Arguments)
		if err != nil {
			args = []byte("?")
		}
		parts[i] = fmt.Sprintf("%s%s", call.Method, args)
	}
	return strings.Join(parts, ", ")
}

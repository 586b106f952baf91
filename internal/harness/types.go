package harness

import "github.com/roach88/diwire/internal/ir"

// PassEvent records one pass as it ran.
type PassEvent struct {
	Tier string `json:"tier"`
	Name string `json:"name"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	Pass bool `json:"pass"`

	// Container is the compiled container, nil when compilation failed.
	Container *ir.CompiledContainer `json:"container,omitempty"`

	// Trace lists the passes in the order they ran.
	Trace []PassEvent `json:"trace"`

	// Errors contains expectation failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// CompileError is the compilation failure, if any.
	CompileError string `json:"compile_error,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []PassEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// PassNames returns the names in the trace, in run order.
func (r *Result) PassNames() []string {
	names := make([]string, len(r.Trace))
	for i, ev := range r.Trace {
		names[i] = ev.Name
	}
	return names
}

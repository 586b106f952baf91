package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/diwire/internal/compiler"
	"github.com/roach88/diwire/internal/passes"
)

// Run executes a test scenario and returns the result.
//
// Execution flow:
//  1. Load the spec directory
//  2. Validate it; validation errors count as a compile failure
//  3. Configure and run the pass schedule, recording each pass
//  4. Check expectations against the compiled container
//
// The returned error covers scenario setup problems only; compile
// failures and unmet expectations are reported through the result.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger is Run with pass progress logged at debug level.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	loaded, err := compiler.LoadDir(scenario.Specs)
	if err != nil {
		return nil, fmt.Errorf("failed to load specs: %w", err)
	}
	logger.Debug("specs loaded",
		"scenario", scenario.Name,
		"files", loaded.FileCount(),
		"services", len(loaded.Spec.Services))

	result := NewResult()

	if verrs := compiler.Validate(loaded.Spec); len(verrs) > 0 {
		result.CompileError = verrs[0].Error()
		for _, v := range verrs[1:] {
			result.CompileError += "; " + v.Error()
		}
	} else {
		obs := passes.ObserverFunc(func(tier passes.Tier, name string) {
			logger.Debug("running pass", "tier", tier, "pass", name)
			result.Trace = append(result.Trace, PassEvent{Tier: string(tier), Name: name})
		})
		compiled, err := passes.Compile(*loaded.Spec, obs)
		if err != nil {
			result.CompileError = err.Error()
		} else {
			result.Container = compiled
			logger.Debug("compiled", "scenario", scenario.Name, "hash", compiled.Hash)
		}
	}

	for _, msg := range EvaluateExpectations(result, scenario.Expect) {
		result.AddError(msg)
	}
	return result, nil
}

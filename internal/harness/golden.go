package harness

import (
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/diwire/internal/ir"
)

// Snapshot returns the canonical JSON that golden files hold: the scenario
// name, the compiled container and its hash.
func Snapshot(scenarioName string, result *Result) ([]byte, error) {
	if result.Container == nil {
		return nil, fmt.Errorf("scenario %s: no compiled container to snapshot", scenarioName)
	}
	return ir.MarshalCanonical(ir.IRObject{
		"scenario":  ir.IRString(scenarioName),
		"container": result.Container.CanonicalObject(),
		"hash":      ir.IRString(result.Container.Hash),
	})
}

// RunWithGolden executes a scenario and compares the compiled container
// against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return result, err
	}
	return result, nil
}

// AssertGolden compares an already computed result against its golden
// file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := Snapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}

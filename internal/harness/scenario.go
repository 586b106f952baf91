package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Specs is the spec directory to load. Relative paths are resolved
	// against the scenario file location.
	Specs string `yaml:"specs"`

	// Expect holds the checks run against the compiled container.
	Expect Expectation `yaml:"expect"`

	// Golden enables golden file comparison of the compiled container.
	Golden bool `yaml:"golden,omitempty"`
}

// Expectation lists what a scenario checks.
type Expectation struct {
	// Error, when set, means compilation must fail with a message
	// containing this text. No other expectation applies then.
	Error string `yaml:"error,omitempty"`

	// Services maps service id to the fields its compiled definition
	// must have.
	Services map[string]ServiceExpectation `yaml:"services,omitempty"`

	// Absent lists service ids that must not be in the compiled container.
	Absent []string `yaml:"absent,omitempty"`

	// Passes is the expected pass run order. Nil skips the check.
	Passes []string `yaml:"passes,omitempty"`
}

// ServiceExpectation describes one compiled definition. Nil fields are not
// checked; an empty list checks for emptiness.
type ServiceExpectation struct {
	Class       string            `yaml:"class,omitempty"`
	Arguments   []any             `yaml:"arguments"`
	MethodCalls []CallExpectation `yaml:"method_calls"`
	Tags        []string          `yaml:"tags"` // tag names in order
}

// CallExpectation is one expected method call.
type CallExpectation struct {
	Method    string `yaml:"method"`
	Arguments []any  `yaml:"arguments"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "method_call:" vs "method_calls:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Specs != "" && !filepath.IsAbs(scenario.Specs) {
		scenario.Specs = filepath.Join(filepath.Dir(path), scenario.Specs)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Specs == "" {
		return fmt.Errorf("specs directory is required")
	}
	if info, err := os.Stat(s.Specs); err != nil || !info.IsDir() {
		return fmt.Errorf("specs directory not found: %s", s.Specs)
	}

	e := s.Expect
	if e.Error != "" && (len(e.Services) > 0 || len(e.Absent) > 0 || e.Passes != nil || s.Golden) {
		return fmt.Errorf("expect.error cannot be combined with other expectations or golden")
	}
	if e.Error == "" && len(e.Services) == 0 && len(e.Absent) == 0 && e.Passes == nil && !s.Golden {
		return fmt.Errorf("scenario checks nothing: set expect or golden")
	}

	for id, svc := range e.Services {
		for i, call := range svc.MethodCalls {
			if call.Method == "" {
				return fmt.Errorf("expect.services.%s.method_calls[%d]: method is required", id, i)
			}
		}
	}
	return nil
}

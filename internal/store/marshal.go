package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/diwire/internal/ir"
)

// marshalServices converts compiled definitions to canonical JSON TEXT.
func marshalServices(c *ir.CompiledContainer) (string, error) {
	data, err := ir.MarshalCanonical(c.CanonicalObject()["services"])
	if err != nil {
		return "", fmt.Errorf("marshal services: %w", err)
	}
	return string(data), nil
}

// marshalPasses converts the pass schedule to canonical JSON TEXT.
func marshalPasses(c *ir.CompiledContainer) (string, error) {
	data, err := ir.MarshalCanonical(c.CanonicalObject()["passes"])
	if err != nil {
		return "", fmt.Errorf("marshal passes: %w", err)
	}
	return string(data), nil
}

// unmarshalServices parses canonical JSON TEXT back into definitions.
// Integers go through IRValue decoding, so values above 2^53 survive.
func unmarshalServices(data string) ([]ir.ServiceDefinition, error) {
	services := []ir.ServiceDefinition{}
	if data == "" {
		return services, nil
	}
	if err := json.Unmarshal([]byte(data), &services); err != nil {
		return nil, fmt.Errorf("unmarshal services: %w", err)
	}
	return services, nil
}

// unmarshalPasses parses JSON TEXT back into the pass schedule.
func unmarshalPasses(data string) ([]ir.PassInfo, error) {
	passes := []ir.PassInfo{}
	if data == "" {
		return passes, nil
	}
	if err := json.Unmarshal([]byte(data), &passes); err != nil {
		return nil, fmt.Errorf("unmarshal passes: %w", err)
	}
	return passes, nil
}

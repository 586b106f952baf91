package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/diwire/internal/ir"
)

// Validation error codes (E100-E199)
const (
	// Service errors (E101-E109)
	ErrServiceIDEmpty     = "E101" // service id is empty
	ErrDuplicateService   = "E102" // service id declared twice
	ErrUnknownParent      = "E103" // parent is not a declared service
	ErrParentCycle        = "E104" // parents form a cycle
	ErrEmptyTagName       = "E105" // tag name is empty
	ErrEmptyMethodName    = "E106" // method call without a method
	ErrFloatForbidden     = "E107" // float value in a document
	ErrEmptyReference     = "E108" // "@" with no service id

	// Wiring errors (E110-E119)
	ErrInvalidWiringKind  = "E110" // unknown wiring kind
	ErrWiringMissingField = "E111" // service or tag missing
	ErrInvalidItemsMode   = "E112" // unknown items mode or bad attribute count
	ErrMissingNameAttr    = "E113" // keyed_locator without name_attribute
	ErrMissingMethod      = "E114" // add_method without method
	ErrUnknownTier        = "E115" // tier is not a known pass tier
	ErrDuplicatePassName  = "E116" // two wiring declarations share a pass name
	ErrWiringServiceUndef = "E117" // required wiring target is not declared

	// Move errors (E120-E129)
	ErrMoveMissingField = "E120" // source or target missing
)

// validTiers mirrors the pass tiers; compiler cannot import passes.
var validTiers = map[string]bool{
	"":                    true,
	"before_optimization": true,
	"optimization":        true,
	"before_removing":     true,
	"removing":            true,
	"after_removing":      true,
}

// ValidationError represents a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a container spec. It reports every problem found rather
// than stopping at the first one.
func Validate(spec *ir.ContainerSpec) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateServices(spec.Services)...)
	errs = append(errs, validateWiring(spec)...)
	errs = append(errs, validateMoves(spec.Moves)...)
	return errs
}

func validateServices(services []ir.ServiceDefinition) []ValidationError {
	var errs []ValidationError
	declared := make(map[string]bool, len(services))

	for i, svc := range services {
		if strings.TrimSpace(svc.ID) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("services[%d].id", i),
				Message: "service id is required",
				Code:    ErrServiceIDEmpty,
			})
		}
		if declared[svc.ID] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("services[%d].id", i),
				Message: fmt.Sprintf("duplicate service id: %q", svc.ID),
				Code:    ErrDuplicateService,
			})
		}
		declared[svc.ID] = true

		for j, tag := range svc.Tags {
			if strings.TrimSpace(tag.Name) == "" {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("services.%s.tags[%d].name", svc.ID, j),
					Message: "tag name is required",
					Code:    ErrEmptyTagName,
				})
			}
		}
		for j, call := range svc.MethodCalls {
			if strings.TrimSpace(call.Method) == "" {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("services.%s.calls[%d].method", svc.ID, j),
					Message: "method is required",
					Code:    ErrEmptyMethodName,
				})
			}
		}
		for _, ref := range serviceReferences(svc) {
			if ref.ID == "" {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("services.%s.arguments", svc.ID),
					Message: "service reference without an id",
					Code:    ErrEmptyReference,
				})
			}
		}
	}

	for _, svc := range services {
		if svc.Parent != "" && !declared[svc.Parent] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("services.%s.parent", svc.ID),
				Message: fmt.Sprintf("parent %q is not a declared service", svc.Parent),
				Code:    ErrUnknownParent,
			})
		}
	}

	for _, cycle := range parentCycles(services) {
		errs = append(errs, ValidationError{
			Field:   fmt.Sprintf("services.%s.parent", cycle[0]),
			Message: fmt.Sprintf("circular parent reference: %s", strings.Join(cycle, " -> ")),
			Code:    ErrParentCycle,
		})
	}
	return errs
}

func validateWiring(spec *ir.ContainerSpec) []ValidationError {
	var errs []ValidationError
	declared := make(map[string]bool, len(spec.Services))
	for _, svc := range spec.Services {
		declared[svc.ID] = true
	}
	names := make(map[string]bool, len(spec.Wiring))

	for i, w := range spec.Wiring {
		field := func(name string) string { return fmt.Sprintf("wiring[%d].%s", i, name) }

		if !ir.ValidWiringKinds[w.Kind] {
			errs = append(errs, ValidationError{
				Field:   field("kind"),
				Message: fmt.Sprintf("invalid wiring kind %q, must be \"locator\", \"keyed_locator\", or \"add_method\"", w.Kind),
				Code:    ErrInvalidWiringKind,
			})
		}
		if strings.TrimSpace(w.Service) == "" {
			errs = append(errs, ValidationError{Field: field("service"), Message: "service is required", Code: ErrWiringMissingField})
		} else if !w.Optional && !declared[w.Service] {
			errs = append(errs, ValidationError{
				Field:   field("service"),
				Message: fmt.Sprintf("service %q is not declared and the wiring is not optional", w.Service),
				Code:    ErrWiringServiceUndef,
			})
		}
		if strings.TrimSpace(w.Tag) == "" {
			errs = append(errs, ValidationError{Field: field("tag"), Message: "tag is required", Code: ErrWiringMissingField})
		}

		switch w.Kind {
		case ir.WiringLocator:
			errs = append(errs, validateItems(w.Items, field("items"))...)
		case ir.WiringKeyedLocator:
			if strings.TrimSpace(w.NameAttribute) == "" {
				errs = append(errs, ValidationError{Field: field("name_attribute"), Message: "keyed_locator requires name_attribute", Code: ErrMissingNameAttr})
			}
		case ir.WiringAddMethod:
			if strings.TrimSpace(w.Method) == "" {
				errs = append(errs, ValidationError{Field: field("method"), Message: "add_method requires method", Code: ErrMissingMethod})
			}
		}

		if !validTiers[w.Tier] {
			errs = append(errs, ValidationError{Field: field("tier"), Message: fmt.Sprintf("unknown pass tier %q", w.Tier), Code: ErrUnknownTier})
		}

		name := w.Name
		if name == "" {
			name = fmt.Sprintf("%s:%s", w.Kind, w.Service)
		}
		if names[name] {
			errs = append(errs, ValidationError{
				Field:   field("name"),
				Message: fmt.Sprintf("duplicate pass name %q, set name to tell them apart", name),
				Code:    ErrDuplicatePassName,
			})
		}
		names[name] = true
	}
	return errs
}

func validateItems(items ir.ItemsSpec, path string) []ValidationError {
	if items.Mode != "" && !ir.ValidItemsModes[items.Mode] {
		return []ValidationError{{
			Field:   path + ".mode",
			Message: fmt.Sprintf("invalid items mode %q, must be \"id\", \"reference\", \"attribute\", or \"attributes\"", items.Mode),
			Code:    ErrInvalidItemsMode,
		}}
	}
	if items.Mode == ir.ItemsAttribute && len(items.Attributes) != 1 {
		return []ValidationError{{
			Field:   path + ".attributes",
			Message: fmt.Sprintf("items mode \"attribute\" takes exactly one attribute, got %d", len(items.Attributes)),
			Code:    ErrInvalidItemsMode,
		}}
	}
	return nil
}

func validateMoves(moves []ir.PassMove) []ValidationError {
	var errs []ValidationError
	for i, m := range moves {
		if strings.TrimSpace(m.Source) == "" || strings.TrimSpace(m.Target) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("moves[%d]", i),
				Message: "source and target are required",
				Code:    ErrMoveMissingField,
			})
		}
		if !validTiers[m.Tier] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("moves[%d].tier", i),
				Message: fmt.Sprintf("unknown pass tier %q", m.Tier),
				Code:    ErrUnknownTier,
			})
		}
	}
	return errs
}

func serviceReferences(svc ir.ServiceDefinition) []ir.Reference {
	refs := ir.References(svc.Arguments)
	for _, call := range svc.MethodCalls {
		refs = append(refs, ir.References(call.Arguments)...)
	}
	return refs
}

// parentCycles returns each parent cycle once, as the path that closes it.
func parentCycles(services []ir.ServiceDefinition) [][]string {
	parent := make(map[string]string, len(services))
	for _, svc := range services {
		if svc.Parent != "" {
			parent[svc.ID] = svc.Parent
		}
	}

	var cycles [][]string
	reported := make(map[string]bool)
	for _, svc := range services {
		seen := map[string]int{}
		var path []string
		for id := svc.ID; id != ""; id = parent[id] {
			if at, ok := seen[id]; ok {
				cycle := append(path[at:], id)
				if !reported[cycle[0]] {
					for _, member := range cycle {
						reported[member] = true
					}
					cycles = append(cycles, cycle)
				}
				break
			}
			if reported[id] {
				break
			}
			seen[id] = len(path)
			path = append(path, id)
		}
	}
	return cycles
}

package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/diwire/internal/ir"
)

const (
	refPrefix = "@"
	refEscape = "@@"
)

// argumentString converts an argument string: "@id" is a reference to id
// and "@@..." is the literal string with one "@" dropped.
func argumentString(s string) (ir.IRValue, error) {
	switch {
	case strings.HasPrefix(s, refEscape):
		return ir.IRString(s[1:]), nil
	case strings.HasPrefix(s, refPrefix):
		id := s[len(refPrefix):]
		if id == "" {
			return nil, fmt.Errorf("empty service reference %q", s)
		}
		return ir.NewReference(id), nil
	default:
		return ir.IRString(s), nil
	}
}

// literalObject rejects objects that would read back as a reference.
func literalObject(obj ir.IRObject) error {
	if ir.IsReferenceShape(obj) {
		return fmt.Errorf(`an object with the single key "$ref" is reserved for service references, write "@id" instead`)
	}
	return nil
}

// fromDecoded converts a value decoded by yaml.v3 into an IRValue. With
// refs set, strings follow the argument reference rules.
func fromDecoded(v any, refs bool) (ir.IRValue, error) {
	switch val := v.(type) {
	case string:
		if refs {
			return argumentString(val)
		}
		return ir.IRString(val), nil
	case float64, float32:
		return nil, fmt.Errorf("float values are forbidden: %v", val)
	case []any:
		arr := make(ir.IRArray, len(val))
		for i, elem := range val {
			irElem, err := fromDecoded(elem, refs)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			arr[i] = irElem
		}
		return arr, nil
	case map[string]any:
		obj := make(ir.IRObject, len(val))
		for k, elem := range val {
			irElem, err := fromDecoded(elem, refs)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			obj[k] = irElem
		}
		if err := literalObject(obj); err != nil {
			return nil, err
		}
		return obj, nil
	default:
		return ir.FromGo(v)
	}
}

// DecodeArguments converts an argument list decoded from YAML, following
// the same reference rules as service arguments.
func DecodeArguments(raw []any) (ir.IRArray, error) {
	if raw == nil {
		return ir.IRArray{}, nil
	}
	v, err := fromDecoded(raw, true)
	if err != nil {
		return nil, err
	}
	return v.(ir.IRArray), nil
}

package priority

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/roach88/diwire/internal/ir"
)

// AttributePriority is the tag attribute that carries an occurrence's priority.
const AttributePriority = "priority"

// MissingAttributeError reports a tag occurrence without a required attribute.
type MissingAttributeError struct {
	ServiceID string
	Tag       string
	Attribute string
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("tag %q of service %q is missing required attribute %q", e.Tag, e.ServiceID, e.Attribute)
}

// RequiredAttribute returns attrs[name], or a *MissingAttributeError naming
// the service and tag when the attribute is absent.
func RequiredAttribute(attrs ir.IRObject, name, serviceID, tag string) (ir.IRValue, error) {
	v, ok := attrs[name]
	if !ok {
		return nil, &MissingAttributeError{ServiceID: serviceID, Tag: tag, Attribute: name}
	}
	return v, nil
}

// PriorityAttribute returns the occurrence's priority, 0 when absent.
//
// Integers are used as-is. Strings contribute their leading integer
// ("10", " -5px" -> -5); booleans count as 1 and 0. Anything else is 0.
func PriorityAttribute(attrs ir.IRObject) int {
	switch v := attrs[AttributePriority].(type) {
	case ir.IRInt:
		return int(v)
	case ir.IRString:
		return leadingInt(string(v))
	case ir.IRBool:
		if v {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func leadingInt(s string) int {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		// out of range: saturate
		if s[0] == '-' {
			return math.MinInt
		}
		return math.MaxInt
	}
	return n
}

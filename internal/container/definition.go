package container

import "github.com/roach88/diwire/internal/ir"

// Definition is a mutable handle on a definition held by a Builder.
// Changes made through it are visible to every later pass.
type Definition struct {
	ir.ServiceDefinition
}

// SetArgument replaces the positional constructor argument at index. The
// argument list is padded with nulls when index is past its end.
func (d *Definition) SetArgument(index int, v ir.IRValue) {
	for len(d.Arguments) <= index {
		d.Arguments = append(d.Arguments, ir.IRNull{})
	}
	d.Arguments[index] = v
}

// Argument returns the positional argument at index.
func (d *Definition) Argument(index int) (ir.IRValue, bool) {
	if index < 0 || index >= len(d.Arguments) {
		return nil, false
	}
	return d.Arguments[index], true
}

// AddMethodCall appends a method call to run after construction.
func (d *Definition) AddMethodCall(method string, args ...ir.IRValue) {
	d.MethodCalls = append(d.MethodCalls, ir.MethodCall{Method: method, Arguments: ir.IRArray(args)})
}

// AddTag attaches one occurrence of tag.
func (d *Definition) AddTag(tag string, attrs ir.IRObject) {
	d.Tags = append(d.Tags, ir.TagOccurrence{Name: tag, Attributes: attrs})
}

// HasTag reports whether the definition carries tag at least once.
func (d *Definition) HasTag(tag string) bool {
	for _, t := range d.Tags {
		if t.Name == tag {
			return true
		}
	}
	return false
}

// TagAttributes returns the attribute record of every occurrence of tag, in
// declaration order.
func (d *Definition) TagAttributes(tag string) []ir.IRObject {
	var out []ir.IRObject
	for _, t := range d.Tags {
		if t.Name != tag {
			continue
		}
		attrs := t.Attributes
		if attrs == nil {
			attrs = ir.IRObject{}
		}
		out = append(out, attrs)
	}
	return out
}

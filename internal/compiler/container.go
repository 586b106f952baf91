package compiler

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/diwire/internal/ir"
)

// CompileContainer parses a CUE container document. Services keep the
// order they are declared in.
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`services: { logger: { class: "app.Logger" } }`)
//	spec, err := CompileContainer(v)
func CompileContainer(v cue.Value) (*ir.ContainerSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	spec := &ir.ContainerSpec{}

	servicesVal := v.LookupPath(cue.ParsePath("services"))
	if servicesVal.Exists() {
		iter, err := servicesVal.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			def, err := compileService(iter.Label(), iter.Value())
			if err != nil {
				return nil, err
			}
			spec.Services = append(spec.Services, def)
		}
	}

	wiringVal := v.LookupPath(cue.ParsePath("wiring"))
	if wiringVal.Exists() {
		wiring, err := compileWiring(wiringVal)
		if err != nil {
			return nil, err
		}
		spec.Wiring = wiring
	}

	movesVal := v.LookupPath(cue.ParsePath("moves"))
	if movesVal.Exists() {
		moves, err := compileMoves(movesVal)
		if err != nil {
			return nil, err
		}
		spec.Moves = moves
	}

	return spec, nil
}

func compileService(id string, v cue.Value) (ir.ServiceDefinition, error) {
	def := ir.ServiceDefinition{ID: id}
	field := func(name string) string { return fmt.Sprintf("services.%s.%s", id, name) }

	var err error
	if def.Class, err = optionalString(v, "class", field("class")); err != nil {
		return def, err
	}
	if def.Parent, err = optionalString(v, "parent", field("parent")); err != nil {
		return def, err
	}
	if def.Public, err = optionalBool(v, "public", field("public")); err != nil {
		return def, err
	}
	if def.Abstract, err = optionalBool(v, "abstract", field("abstract")); err != nil {
		return def, err
	}

	if argsVal := v.LookupPath(cue.ParsePath("arguments")); argsVal.Exists() {
		args, err := compileValue(argsVal, field("arguments"), true)
		if err != nil {
			return def, err
		}
		arr, ok := args.(ir.IRArray)
		if !ok {
			return def, &CompileError{Field: field("arguments"), Message: "arguments must be a list", Pos: argsVal.Pos()}
		}
		def.Arguments = arr
	}

	if callsVal := v.LookupPath(cue.ParsePath("calls")); callsVal.Exists() {
		iter, err := callsVal.List()
		if err != nil {
			return def, formatCUEError(err)
		}
		for i := 0; iter.Next(); i++ {
			call, err := compileCall(iter.Value(), fmt.Sprintf("%s[%d]", field("calls"), i))
			if err != nil {
				return def, err
			}
			def.MethodCalls = append(def.MethodCalls, call)
		}
	}

	if tagsVal := v.LookupPath(cue.ParsePath("tags")); tagsVal.Exists() {
		iter, err := tagsVal.List()
		if err != nil {
			return def, formatCUEError(err)
		}
		for i := 0; iter.Next(); i++ {
			tag, err := compileTag(iter.Value(), fmt.Sprintf("%s[%d]", field("tags"), i))
			if err != nil {
				return def, err
			}
			def.Tags = append(def.Tags, tag)
		}
	}

	return def, nil
}

func compileCall(v cue.Value, path string) (ir.MethodCall, error) {
	var call ir.MethodCall
	method, err := optionalString(v, "method", path+".method")
	if err != nil {
		return call, err
	}
	if method == "" {
		return call, &CompileError{Field: path + ".method", Message: "method is required", Pos: v.Pos()}
	}
	call.Method = method

	if argsVal := v.LookupPath(cue.ParsePath("arguments")); argsVal.Exists() {
		args, err := compileValue(argsVal, path+".arguments", true)
		if err != nil {
			return call, err
		}
		arr, ok := args.(ir.IRArray)
		if !ok {
			return call, &CompileError{Field: path + ".arguments", Message: "arguments must be a list", Pos: argsVal.Pos()}
		}
		call.Arguments = arr
	}
	return call, nil
}

// compileTag accepts a bare tag name or a struct with a name field; every
// other field of the struct is an attribute.
func compileTag(v cue.Value, path string) (ir.TagOccurrence, error) {
	if name, err := v.String(); err == nil {
		return ir.TagOccurrence{Name: name}, nil
	}

	raw, err := compileValue(v, path, false)
	if err != nil {
		return ir.TagOccurrence{}, err
	}
	obj, ok := raw.(ir.IRObject)
	if !ok {
		return ir.TagOccurrence{}, &CompileError{Field: path, Message: "tag must be a string or a struct with a name", Pos: v.Pos()}
	}
	name, ok := obj["name"].(ir.IRString)
	if !ok || name == "" {
		return ir.TagOccurrence{}, &CompileError{Field: path + ".name", Message: "tag name is required", Pos: v.Pos()}
	}
	delete(obj, "name")
	if err := literalObject(obj); err != nil {
		return ir.TagOccurrence{}, &CompileError{Field: path, Message: err.Error(), Pos: v.Pos()}
	}
	if len(obj) == 0 {
		obj = nil
	}
	return ir.TagOccurrence{Name: string(name), Attributes: obj}, nil
}

func compileWiring(v cue.Value) ([]ir.WiringSpec, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []ir.WiringSpec
	for i := 0; iter.Next(); i++ {
		var w ir.WiringSpec
		if err := rejectFloats(iter.Value(), fmt.Sprintf("wiring[%d]", i)); err != nil {
			return nil, err
		}
		if err := iter.Value().Decode(&w); err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, w)
	}
	return out, nil
}

func compileMoves(v cue.Value) ([]ir.PassMove, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []ir.PassMove
	for iter.Next() {
		var m ir.PassMove
		if err := iter.Value().Decode(&m); err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, m)
	}
	return out, nil
}

// compileValue converts a concrete CUE value into an IRValue.
func compileValue(v cue.Value, path string, refs bool) (ir.IRValue, error) {
	switch v.IncompleteKind() {
	case cue.NullKind:
		return ir.IRNull{}, nil
	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return ir.IRBool(b), nil
	case cue.IntKind:
		n, err := v.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return ir.IRInt(n), nil
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		if !refs {
			return ir.IRString(s), nil
		}
		val, err := argumentString(s)
		if err != nil {
			return nil, &CompileError{Field: path, Message: err.Error(), Pos: v.Pos()}
		}
		return val, nil
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		arr := ir.IRArray{}
		for i := 0; iter.Next(); i++ {
			elem, err := compileValue(iter.Value(), fmt.Sprintf("%s[%d]", path, i), refs)
			if err != nil {
				return nil, err
			}
			arr = append(arr, elem)
		}
		return arr, nil
	case cue.StructKind:
		iter, err := v.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		obj := ir.IRObject{}
		for iter.Next() {
			elem, err := compileValue(iter.Value(), path+"."+iter.Label(), refs)
			if err != nil {
				return nil, err
			}
			obj[iter.Label()] = elem
		}
		if err := literalObject(obj); err != nil {
			return nil, &CompileError{Field: path, Message: err.Error(), Pos: v.Pos()}
		}
		return obj, nil
	case cue.FloatKind, cue.NumberKind:
		return nil, &CompileError{Field: path, Message: "float values are forbidden, use int instead", Pos: v.Pos()}
	default:
		return nil, &CompileError{Field: path, Message: fmt.Sprintf("unsupported value kind: %v", v.IncompleteKind()), Pos: v.Pos()}
	}
}

// rejectFloats walks v and fails on the first float.
func rejectFloats(v cue.Value, path string) error {
	_, err := compileValue(v, path, false)
	return err
}

func optionalString(v cue.Value, name, path string) (string, error) {
	f := v.LookupPath(cue.ParsePath(name))
	if !f.Exists() {
		return "", nil
	}
	s, err := f.String()
	if err != nil {
		return "", &CompileError{Field: path, Message: "must be a string", Pos: f.Pos()}
	}
	return s, nil
}

func optionalBool(v cue.Value, name, path string) (bool, error) {
	f := v.LookupPath(cue.ParsePath(name))
	if !f.Exists() {
		return false, nil
	}
	b, err := f.Bool()
	if err != nil {
		return false, &CompileError{Field: path, Message: "must be a bool", Pos: f.Pos()}
	}
	return b, nil
}

package compiler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/diwire/internal/ir"
)

// yamlDocument is the YAML form of a container document.
type yamlDocument struct {
	Services map[string]yamlService `yaml:"services"`
	Wiring   []yamlWiring           `yaml:"wiring"`
	Moves    []ir.PassMove          `yaml:"moves"`
}

type yamlService struct {
	Class     string     `yaml:"class"`
	Parent    string     `yaml:"parent"`
	Public    bool       `yaml:"public"`
	Abstract  bool       `yaml:"abstract"`
	Arguments []any      `yaml:"arguments"`
	Calls     []yamlCall `yaml:"calls"`
	Tags      []any      `yaml:"tags"`
}

type yamlCall struct {
	Method    string `yaml:"method"`
	Arguments []any  `yaml:"arguments"`
}

type yamlWiring struct {
	Name          string        `yaml:"name"`
	Kind          ir.WiringKind `yaml:"kind"`
	Service       string        `yaml:"service"`
	Tag           string        `yaml:"tag"`
	Items         ir.ItemsSpec  `yaml:"items"`
	NameAttribute string        `yaml:"name_attribute"`
	Method        string        `yaml:"method"`
	Optional      bool          `yaml:"optional"`
	Inverse       bool          `yaml:"inverse"`
	Tier          string        `yaml:"tier"`
	Priority      int           `yaml:"priority"`
}

// LoadYAMLFile reads a YAML container document from path.
func LoadYAMLFile(path string) (*ir.ContainerSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read container file: %w", err)
	}
	spec, err := CompileYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return spec, nil
}

// CompileYAML parses a YAML container document. Unknown fields are
// rejected. Services keep the order they are declared in.
func CompileYAML(data []byte) (*ir.ContainerSpec, error) {
	var doc yamlDocument
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	order, err := serviceOrder(data)
	if err != nil {
		return nil, err
	}

	spec := &ir.ContainerSpec{Moves: doc.Moves}
	for _, id := range order {
		def, err := yamlServiceDefinition(id, doc.Services[id])
		if err != nil {
			return nil, err
		}
		spec.Services = append(spec.Services, def)
	}
	for _, w := range doc.Wiring {
		spec.Wiring = append(spec.Wiring, ir.WiringSpec{
			Name:          w.Name,
			Kind:          w.Kind,
			Service:       w.Service,
			Tag:           w.Tag,
			Items:         w.Items,
			NameAttribute: w.NameAttribute,
			Method:        w.Method,
			Optional:      w.Optional,
			Inverse:       w.Inverse,
			Tier:          w.Tier,
			Priority:      w.Priority,
		})
	}
	return spec, nil
}

// serviceOrder returns the keys of the services mapping in document order.
func serviceOrder(data []byte) ([]string, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, nil
	}
	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("container document must be a mapping")
	}
	for i := 0; i+1 < len(top.Content); i += 2 {
		if top.Content[i].Value != "services" {
			continue
		}
		services := top.Content[i+1]
		var ids []string
		for j := 0; j+1 < len(services.Content); j += 2 {
			ids = append(ids, services.Content[j].Value)
		}
		return ids, nil
	}
	return nil, nil
}

func yamlServiceDefinition(id string, svc yamlService) (ir.ServiceDefinition, error) {
	def := ir.ServiceDefinition{
		ID:       id,
		Class:    svc.Class,
		Parent:   svc.Parent,
		Public:   svc.Public,
		Abstract: svc.Abstract,
	}
	if svc.Arguments != nil {
		args, err := yamlArguments(svc.Arguments, fmt.Sprintf("services.%s.arguments", id))
		if err != nil {
			return def, err
		}
		def.Arguments = args
	}
	for i, call := range svc.Calls {
		path := fmt.Sprintf("services.%s.calls[%d]", id, i)
		if call.Method == "" {
			return def, &CompileError{Field: path + ".method", Message: "method is required"}
		}
		args, err := yamlArguments(call.Arguments, path+".arguments")
		if err != nil {
			return def, err
		}
		def.MethodCalls = append(def.MethodCalls, ir.MethodCall{Method: call.Method, Arguments: args})
	}
	for i, raw := range svc.Tags {
		tag, err := yamlTag(raw, fmt.Sprintf("services.%s.tags[%d]", id, i))
		if err != nil {
			return def, err
		}
		def.Tags = append(def.Tags, tag)
	}
	return def, nil
}

func yamlArguments(raw []any, path string) (ir.IRArray, error) {
	args, err := DecodeArguments(raw)
	if err != nil {
		return nil, &CompileError{Field: path, Message: err.Error()}
	}
	return args, nil
}

func yamlTag(raw any, path string) (ir.TagOccurrence, error) {
	switch val := raw.(type) {
	case string:
		return ir.TagOccurrence{Name: val}, nil
	case map[string]any:
		name, ok := val["name"].(string)
		if !ok || name == "" {
			return ir.TagOccurrence{}, &CompileError{Field: path + ".name", Message: "tag name is required"}
		}
		attrs := make(map[string]any, len(val))
		for k, v := range val {
			if k != "name" {
				attrs[k] = v
			}
		}
		if len(attrs) == 0 {
			return ir.TagOccurrence{Name: name}, nil
		}
		obj, err := fromDecoded(attrs, false)
		if err != nil {
			return ir.TagOccurrence{}, &CompileError{Field: path, Message: err.Error()}
		}
		return ir.TagOccurrence{Name: name, Attributes: obj.(ir.IRObject)}, nil
	default:
		return ir.TagOccurrence{}, &CompileError{Field: path, Message: "tag must be a string or a mapping with a name"}
	}
}

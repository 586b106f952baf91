package ir

// ServiceDefinition describes how the container would construct a service.
type ServiceDefinition struct {
	ID          string          `json:"id"`
	Class       string          `json:"class,omitempty"`
	Parent      string          `json:"parent,omitempty"` // child definitions inherit from Parent
	Public      bool            `json:"public,omitempty"`
	Abstract    bool            `json:"abstract,omitempty"`
	Arguments   IRArray         `json:"arguments"`
	MethodCalls []MethodCall    `json:"method_calls,omitempty"`
	Tags        []TagOccurrence `json:"tags,omitempty"`
}

// MethodCall is a setter-style call applied after construction.
type MethodCall struct {
	Method    string  `json:"method"`
	Arguments IRArray `json:"arguments"`
}

// TagOccurrence is one tag attached to a definition. A definition may carry
// the same tag name more than once with different attributes.
type TagOccurrence struct {
	Name       string   `json:"name"`
	Attributes IRObject `json:"attributes,omitempty"`
}

// TaggedService is one entry of a tag lookup: a service id and the
// attribute record of every occurrence of the tag on it, in order.
type TaggedService struct {
	ID   string
	Tags []IRObject
}

// WiringKind selects which priority-tagged wiring pass a declaration
// registers.
type WiringKind string

const (
	// WiringLocator injects (ordered items, locator) as arguments 0 and 1.
	WiringLocator WiringKind = "locator"
	// WiringKeyedLocator injects a key->reference locator as argument 0.
	WiringKeyedLocator WiringKind = "keyed_locator"
	// WiringAddMethod appends one method call per tagged service.
	WiringAddMethod WiringKind = "add_method"
)

// ValidWiringKinds defines the accepted wiring kinds.
var ValidWiringKinds = map[WiringKind]bool{
	WiringLocator:      true,
	WiringKeyedLocator: true,
	WiringAddMethod:    true,
}

// Item modes for locator wiring: what each tag occurrence contributes to
// the ordered items argument.
const (
	ItemsID         = "id"         // the service id as a string
	ItemsReference  = "reference"  // a Reference to the service
	ItemsAttribute  = "attribute"  // the value of one required attribute
	ItemsAttributes = "attributes" // object of id plus required attributes
)

// ValidItemsModes defines the accepted item modes.
var ValidItemsModes = map[string]bool{
	ItemsID:         true,
	ItemsReference:  true,
	ItemsAttribute:  true,
	ItemsAttributes: true,
}

// ItemsSpec declares how locator items are projected from tag attributes.
type ItemsSpec struct {
	Mode       string   `json:"mode"`
	Attributes []string `json:"attributes,omitempty"`
}

// WiringSpec declares one priority-tagged wiring pass.
type WiringSpec struct {
	Name          string     `json:"name,omitempty"` // pass identity; derived from Kind and Service when empty
	Kind          WiringKind `json:"kind"`
	Service       string     `json:"service"`
	Tag           string     `json:"tag"`
	Items         ItemsSpec  `json:"items,omitempty"`          // locator
	NameAttribute string     `json:"name_attribute,omitempty"` // keyed_locator
	Method        string     `json:"method,omitempty"`         // add_method
	Optional      bool       `json:"optional,omitempty"`
	Inverse       bool       `json:"inverse,omitempty"`
	Tier          string     `json:"tier,omitempty"`
	Priority      int        `json:"priority"`
}

// PassMove declares that the pass named Source must run immediately before
// the pass named Target within Tier.
type PassMove struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Tier   string `json:"tier,omitempty"`
}

// PassInfo describes one scheduled compiler pass.
type PassInfo struct {
	Name     string `json:"name"`
	Tier     string `json:"tier"`
	Priority int    `json:"priority"`
}

// ContainerSpec is a loaded container document.
type ContainerSpec struct {
	Services []ServiceDefinition `json:"services"`
	Wiring   []WiringSpec        `json:"wiring,omitempty"`
	Moves    []PassMove          `json:"moves,omitempty"`
}

// CompiledContainer is the result of running every pass over a spec.
type CompiledContainer struct {
	Services []ServiceDefinition `json:"services"`
	Passes   []PassInfo          `json:"passes"`
	Hash     string              `json:"hash"`
}

// Service returns the compiled definition with the given id.
func (c *CompiledContainer) Service(id string) (ServiceDefinition, bool) {
	for _, def := range c.Services {
		if def.ID == id {
			return def, true
		}
	}
	return ServiceDefinition{}, false
}

// CanonicalObject returns the container (without its hash) as an IRObject
// suitable for MarshalCanonical.
func (c *CompiledContainer) CanonicalObject() IRObject {
	return c.canonicalObject()
}

func (c *CompiledContainer) canonicalObject() IRObject {
	services := make(IRArray, len(c.Services))
	for i, def := range c.Services {
		services[i] = def.object()
	}
	passes := make(IRArray, len(c.Passes))
	for i, p := range c.Passes {
		passes[i] = IRObject{
			"name":     IRString(p.Name),
			"tier":     IRString(p.Tier),
			"priority": IRInt(p.Priority),
		}
	}
	return IRObject{
		"services": services,
		"passes":   passes,
	}
}

func (d ServiceDefinition) object() IRObject {
	obj := IRObject{
		"id":        IRString(d.ID),
		"class":     IRString(d.Class),
		"public":    IRBool(d.Public),
		"abstract":  IRBool(d.Abstract),
		"arguments": nonNilArray(d.Arguments),
	}
	if d.Parent != "" {
		obj["parent"] = IRString(d.Parent)
	}
	if len(d.MethodCalls) > 0 {
		calls := make(IRArray, len(d.MethodCalls))
		for i, call := range d.MethodCalls {
			calls[i] = IRObject{
				"method":    IRString(call.Method),
				"arguments": nonNilArray(call.Arguments),
			}
		}
		obj["method_calls"] = calls
	}
	if len(d.Tags) > 0 {
		tags := make(IRArray, len(d.Tags))
		for i, tag := range d.Tags {
			attrs := tag.Attributes
			if attrs == nil {
				attrs = IRObject{}
			}
			tags[i] = IRObject{
				"name":       IRString(tag.Name),
				"attributes": attrs,
			}
		}
		obj["tags"] = tags
	}
	return obj
}

func nonNilArray(arr IRArray) IRArray {
	if arr == nil {
		return IRArray{}
	}
	return arr
}

// Clone returns a deep copy of the definition so the copy can be mutated
// independently.
func (d ServiceDefinition) Clone() ServiceDefinition {
	out := d
	out.Arguments = cloneArray(d.Arguments)
	if d.MethodCalls != nil {
		out.MethodCalls = make([]MethodCall, len(d.MethodCalls))
		for i, call := range d.MethodCalls {
			out.MethodCalls[i] = MethodCall{Method: call.Method, Arguments: cloneArray(call.Arguments)}
		}
	}
	if d.Tags != nil {
		out.Tags = make([]TagOccurrence, len(d.Tags))
		for i, tag := range d.Tags {
			out.Tags[i] = TagOccurrence{Name: tag.Name, Attributes: cloneObject(tag.Attributes)}
		}
	}
	return out
}

func cloneValue(v IRValue) IRValue {
	switch val := v.(type) {
	case IRArray:
		return cloneArray(val)
	case IRObject:
		return cloneObject(val)
	default:
		return v
	}
}

func cloneArray(arr IRArray) IRArray {
	if arr == nil {
		return nil
	}
	out := make(IRArray, len(arr))
	for i, v := range arr {
		out[i] = cloneValue(v)
	}
	return out
}

func cloneObject(obj IRObject) IRObject {
	if obj == nil {
		return nil
	}
	out := make(IRObject, len(obj))
	for k, v := range obj {
		out[k] = cloneValue(v)
	}
	return out
}

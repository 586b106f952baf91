package container

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/roach88/diwire/internal/ir"
)

// Locator definitions registered by RegisterLocator.
const (
	LocatorIDPrefix = ".service_locator."
	LocatorClass    = "diwire.ServiceLocator"
	LocatorTag      = "container.service_locator"
)

// Builder holds service definitions in registration order.
// It is not safe for concurrent use.
type Builder struct {
	defs  map[string]*Definition
	order []string
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{defs: make(map[string]*Definition)}
}

// FromServices returns a builder holding clones of services, in order.
// A later definition with a repeated id replaces the earlier one in place.
func FromServices(services []ir.ServiceDefinition) *Builder {
	b := NewBuilder()
	for _, svc := range services {
		b.SetDefinition(svc.Clone())
	}
	return b
}

// SetDefinition registers def, replacing any definition with the same id
// while keeping its original position.
func (b *Builder) SetDefinition(def ir.ServiceDefinition) *Definition {
	d := &Definition{ServiceDefinition: def}
	if _, exists := b.defs[def.ID]; !exists {
		b.order = append(b.order, def.ID)
	}
	b.defs[def.ID] = d
	return d
}

// Register adds a bare definition for id with the given class.
func (b *Builder) Register(id, class string) *Definition {
	return b.SetDefinition(ir.ServiceDefinition{ID: id, Class: class})
}

// HasDefinition reports whether id is defined.
func (b *Builder) HasDefinition(id string) bool {
	_, ok := b.defs[id]
	return ok
}

// Definition returns the handle for id, or *UnknownServiceError.
func (b *Builder) Definition(id string) (*Definition, error) {
	d, ok := b.defs[id]
	if !ok {
		return nil, &UnknownServiceError{ID: id}
	}
	return d, nil
}

// RemoveDefinition drops id. Removing an unknown id is a no-op.
func (b *Builder) RemoveDefinition(id string) {
	if _, ok := b.defs[id]; !ok {
		return
	}
	delete(b.defs, id)
	b.order = slices.DeleteFunc(b.order, func(s string) bool { return s == id })
}

// ServiceIDs returns every defined id in registration order.
func (b *Builder) ServiceIDs() []string {
	return slices.Clone(b.order)
}

// Definitions returns the handles in registration order.
func (b *Builder) Definitions() []*Definition {
	out := make([]*Definition, len(b.order))
	for i, id := range b.order {
		out[i] = b.defs[id]
	}
	return out
}

// Services returns deep copies of every definition in registration order.
func (b *Builder) Services() []ir.ServiceDefinition {
	out := make([]ir.ServiceDefinition, len(b.order))
	for i, id := range b.order {
		out[i] = b.defs[id].Clone()
	}
	return out
}

// FindTaggedServiceIDs returns every definition carrying tag, in
// registration order, with one attribute record per tag occurrence.
func (b *Builder) FindTaggedServiceIDs(tag string) []ir.TaggedService {
	var out []ir.TaggedService
	for _, id := range b.order {
		d := b.defs[id]
		if d.Abstract {
			continue
		}
		if occurrences := d.TagAttributes(tag); len(occurrences) > 0 {
			out = append(out, ir.TaggedService{ID: id, Tags: occurrences})
		}
	}
	return out
}

// RegisterLocator registers a private service locator over refs and
// returns a reference to it. Identical maps share one locator.
func (b *Builder) RegisterLocator(refs ir.ReferenceMap) (ir.Reference, error) {
	hash, err := ir.LocatorHash(refs)
	if err != nil {
		return ir.Reference{}, fmt.Errorf("hash locator: %w", err)
	}
	id := LocatorIDPrefix + hash[:8]
	obj := refs.Object()
	if existing, ok := b.defs[id]; ok {
		if !sameLocator(existing, obj) {
			return ir.Reference{}, fmt.Errorf("locator id %q already holds a different reference map", id)
		}
		return ir.NewReference(id), nil
	}
	d := b.Register(id, LocatorClass)
	d.SetArgument(0, obj)
	d.AddTag(LocatorTag, nil)
	return ir.NewReference(id), nil
}

func sameLocator(d *Definition, obj ir.IRObject) bool {
	arg, ok := d.Argument(0)
	if !ok || d.Class != LocatorClass {
		return false
	}
	have, err := ir.MarshalCanonical(arg)
	if err != nil {
		return false
	}
	want, err := ir.MarshalCanonical(obj)
	if err != nil {
		return false
	}
	return bytes.Equal(have, want)
}

package passes

import (
	"fmt"

	"github.com/roach88/diwire/internal/container"
	"github.com/roach88/diwire/internal/discovery"
	"github.com/roach88/diwire/internal/ir"
)

// LocatorRegistry is what the wiring passes need from a container.
type LocatorRegistry interface {
	discovery.Registry
	HasDefinition(id string) bool
	Definition(id string) (*container.Definition, error)
	RegisterLocator(refs ir.ReferenceMap) (ir.Reference, error)
}

// WireLocator injects the services tagged with tag into serviceID: argument
// 0 receives the handler's items in priority order and argument 1 a
// reference to a locator over every tagged service. When optional is set
// and serviceID is not defined, nothing happens.
func WireLocator(r LocatorRegistry, serviceID, tag string, h discovery.Handler[ir.IRValue], optional bool) error {
	return wireLocator(r, serviceID, tag, h, optional, false)
}

func wireLocator(r LocatorRegistry, serviceID, tag string, h discovery.Handler[ir.IRValue], optional, inverse bool) error {
	if optional && !r.HasDefinition(serviceID) {
		return nil
	}
	def, err := r.Definition(serviceID)
	if err != nil {
		return err
	}

	services, items, err := discovery.FindAndSortTaggedServicesWithHandler(r, tag, h, inverse)
	if err != nil {
		return err
	}
	locator, err := r.RegisterLocator(services)
	if err != nil {
		return err
	}

	def.SetArgument(0, ir.IRArray(items))
	def.SetArgument(1, locator)
	return nil
}

// PriorityTaggedLocatorPass runs WireLocator as a compiler pass.
type PriorityTaggedLocatorPass struct {
	Identity string // optional; defaults to "locator:<Service>"
	Service  string
	Tag      string
	Handler  discovery.Handler[ir.IRValue] // defaults to discovery.IDHandler
	Optional bool
	Inverse  bool
}

func (p *PriorityTaggedLocatorPass) Name() string {
	return identity(p.Identity, ir.WiringLocator, p.Service)
}

func (p *PriorityTaggedLocatorPass) Process(b *container.Builder) error {
	h := p.Handler
	if h == nil {
		h = discovery.IDHandler
	}
	return wireLocator(b, p.Service, p.Tag, h, p.Optional, p.Inverse)
}

// PriorityTaggedKeyedLocatorPass sets argument 0 of Service to a locator
// keyed by the NameAttribute of each tag occurrence.
type PriorityTaggedKeyedLocatorPass struct {
	Identity      string
	Service       string
	Tag           string
	NameAttribute string
	Optional      bool
	Inverse       bool
}

func (p *PriorityTaggedKeyedLocatorPass) Name() string {
	return identity(p.Identity, ir.WiringKeyedLocator, p.Service)
}

func (p *PriorityTaggedKeyedLocatorPass) Process(b *container.Builder) error {
	if p.Optional && !b.HasDefinition(p.Service) {
		return nil
	}
	def, err := b.Definition(p.Service)
	if err != nil {
		return err
	}
	refs, err := discovery.FindAndSortTaggedServices(b, p.Tag, p.NameAttribute, p.Inverse)
	if err != nil {
		return err
	}
	locator, err := b.RegisterLocator(refs)
	if err != nil {
		return err
	}
	def.SetArgument(0, locator)
	return nil
}

// PriorityTaggedAddMethodPass calls Method on Service once per tagged
// service, passing a reference to it, in priority order.
type PriorityTaggedAddMethodPass struct {
	Identity string
	Service  string
	Method   string
	Tag      string
	Optional bool
	Inverse  bool
}

func (p *PriorityTaggedAddMethodPass) Name() string {
	return identity(p.Identity, ir.WiringAddMethod, p.Service)
}

func (p *PriorityTaggedAddMethodPass) Process(b *container.Builder) error {
	if p.Optional && !b.HasDefinition(p.Service) {
		return nil
	}
	def, err := b.Definition(p.Service)
	if err != nil {
		return err
	}
	for _, ref := range discovery.FindAndSortTaggedReferences(b, p.Tag, p.Inverse) {
		def.AddMethodCall(p.Method, ref)
	}
	return nil
}

func identity(explicit string, kind ir.WiringKind, service string) string {
	if explicit != "" {
		return explicit
	}
	return fmt.Sprintf("%s:%s", kind, service)
}

// ItemsHandler builds the locator item handler for an items declaration.
// An empty mode yields service ids.
func ItemsHandler(spec ir.ItemsSpec) (discovery.Handler[ir.IRValue], error) {
	switch spec.Mode {
	case "", ir.ItemsID:
		return discovery.IDHandler, nil
	case ir.ItemsReference:
		return discovery.ReferenceHandler, nil
	case ir.ItemsAttribute:
		if len(spec.Attributes) != 1 {
			return nil, fmt.Errorf("items mode %q takes exactly one attribute, got %d", spec.Mode, len(spec.Attributes))
		}
		return discovery.AttributeHandler(spec.Attributes[0]), nil
	case ir.ItemsAttributes:
		return discovery.AttributesHandler(spec.Attributes...), nil
	default:
		return nil, fmt.Errorf("unknown items mode %q", spec.Mode)
	}
}

// NewWiringPass builds the pass a wiring declaration asks for.
func NewWiringPass(w ir.WiringSpec) (Pass, error) {
	switch w.Kind {
	case ir.WiringLocator:
		h, err := ItemsHandler(w.Items)
		if err != nil {
			return nil, err
		}
		return &PriorityTaggedLocatorPass{
			Identity: w.Name,
			Service:  w.Service,
			Tag:      w.Tag,
			Handler:  h,
			Optional: w.Optional,
			Inverse:  w.Inverse,
		}, nil
	case ir.WiringKeyedLocator:
		return &PriorityTaggedKeyedLocatorPass{
			Identity:      w.Name,
			Service:       w.Service,
			Tag:           w.Tag,
			NameAttribute: w.NameAttribute,
			Optional:      w.Optional,
			Inverse:       w.Inverse,
		}, nil
	case ir.WiringAddMethod:
		return &PriorityTaggedAddMethodPass{
			Identity: w.Name,
			Service:  w.Service,
			Method:   w.Method,
			Tag:      w.Tag,
			Optional: w.Optional,
			Inverse:  w.Inverse,
		}, nil
	default:
		return nil, fmt.Errorf("unknown wiring kind %q", w.Kind)
	}
}

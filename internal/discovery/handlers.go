package discovery

import (
	"github.com/roach88/diwire/internal/ir"
	"github.com/roach88/diwire/internal/priority"
)

// IDHandler yields the service id.
func IDHandler(_ ir.IRObject, serviceID, _ string) (ir.IRValue, error) {
	return ir.IRString(serviceID), nil
}

// ReferenceHandler yields a reference to the service.
func ReferenceHandler(_ ir.IRObject, serviceID, _ string) (ir.IRValue, error) {
	return ir.NewReference(serviceID), nil
}

// AttributeHandler yields the value of one required attribute.
func AttributeHandler(name string) Handler[ir.IRValue] {
	return func(attrs ir.IRObject, serviceID, tag string) (ir.IRValue, error) {
		return priority.RequiredAttribute(attrs, name, serviceID, tag)
	}
}

// AttributesHandler yields an object holding the service id under "id" and
// each named required attribute.
func AttributesHandler(names ...string) Handler[ir.IRValue] {
	return func(attrs ir.IRObject, serviceID, tag string) (ir.IRValue, error) {
		obj := ir.IRObject{"id": ir.IRString(serviceID)}
		for _, name := range names {
			v, err := priority.RequiredAttribute(attrs, name, serviceID, tag)
			if err != nil {
				return nil, err
			}
			obj[name] = v
		}
		return obj, nil
	}
}

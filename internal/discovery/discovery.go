package discovery

import (
	"fmt"
	"strconv"

	"github.com/roach88/diwire/internal/ir"
	"github.com/roach88/diwire/internal/priority"
)

// Registry answers tag lookups. Entries come back in registry order, each
// with one attribute record per tag occurrence.
type Registry interface {
	FindTaggedServiceIDs(tag string) []ir.TaggedService
}

// Handler projects one tag occurrence into an item. Errors are returned to
// the caller unchanged.
type Handler[T any] func(attrs ir.IRObject, serviceID, tag string) (T, error)

type keyedEntry struct {
	key string
	id  string
}

// FindAndSortTaggedServices maps the value of nameAttribute on each tag
// occurrence to a reference to its service. When two occurrences share a
// key, the one that sorts first wins and the rest are dropped.
func FindAndSortTaggedServices(r Registry, tag, nameAttribute string, inverse bool) (ir.ReferenceMap, error) {
	var buckets priority.Buckets[keyedEntry]
	for _, svc := range r.FindTaggedServiceIDs(tag) {
		for _, attrs := range svc.Tags {
			v, err := priority.RequiredAttribute(attrs, nameAttribute, svc.ID, tag)
			if err != nil {
				return nil, err
			}
			key, err := mapKey(v)
			if err != nil {
				return nil, fmt.Errorf("tag %q of service %q: attribute %q: %w", tag, svc.ID, nameAttribute, err)
			}
			buckets.Add(priority.PriorityAttribute(attrs), keyedEntry{key: key, id: svc.ID})
		}
	}

	refs := make(ir.ReferenceMap)
	for _, e := range buckets.SortAndFlatten(inverse) {
		if _, taken := refs[e.key]; taken {
			continue
		}
		refs[e.key] = ir.NewReference(e.id)
	}
	return refs, nil
}

// FindAndSortTaggedServicesWithHandler returns a reference for every tagged
// service id plus the handler's item for every tag occurrence, sorted by
// priority. Items are not deduplicated.
func FindAndSortTaggedServicesWithHandler[T any](r Registry, tag string, h Handler[T], inverse bool) (ir.ReferenceMap, []T, error) {
	refs := make(ir.ReferenceMap)
	var buckets priority.Buckets[T]
	for _, svc := range r.FindTaggedServiceIDs(tag) {
		refs[svc.ID] = ir.NewReference(svc.ID)
		for _, attrs := range svc.Tags {
			item, err := h(attrs, svc.ID, tag)
			if err != nil {
				return nil, nil, err
			}
			buckets.Add(priority.PriorityAttribute(attrs), item)
		}
	}
	return refs, buckets.SortAndFlatten(inverse), nil
}

// FindAndSortTaggedReferences returns one reference per tagged service,
// ordered by the priority of the service's first occurrence of tag.
func FindAndSortTaggedReferences(r Registry, tag string, inverse bool) []ir.Reference {
	var buckets priority.Buckets[ir.Reference]
	for _, svc := range r.FindTaggedServiceIDs(tag) {
		var attrs ir.IRObject
		if len(svc.Tags) > 0 {
			attrs = svc.Tags[0]
		}
		buckets.Add(priority.PriorityAttribute(attrs), ir.NewReference(svc.ID))
	}
	return buckets.SortAndFlatten(inverse)
}

// mapKey turns a scalar attribute into a map key. Booleans become "1" and
// "0", null the empty string.
func mapKey(v ir.IRValue) (string, error) {
	switch val := v.(type) {
	case ir.IRString:
		return string(val), nil
	case ir.IRInt:
		return strconv.FormatInt(int64(val), 10), nil
	case ir.IRBool:
		if val {
			return "1", nil
		}
		return "0", nil
	case ir.IRNull:
		return "", nil
	default:
		return "", fmt.Errorf("must be a scalar, got %T", v)
	}
}

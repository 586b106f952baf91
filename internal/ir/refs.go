package ir

import (
	"encoding/json"
	"sort"
)

// refKey is the single key of the JSON object a Reference encodes to.
const refKey = "$ref"

// Reference points at a service definition by id.
type Reference struct {
	ID string
}

func (Reference) irValue() {}

// NewReference creates a Reference to the given service id.
func NewReference(id string) Reference {
	return Reference{ID: id}
}

// String returns the reference in "@id" notation.
func (r Reference) String() string {
	return "@" + r.ID
}

// MarshalJSON encodes the reference as {"$ref": "<id>"}.
func (r Reference) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{refKey: r.ID})
}

// referenceFromObject recognises the {"$ref": "<id>"} shape.
func referenceFromObject(obj IRObject) (Reference, bool) {
	if len(obj) != 1 {
		return Reference{}, false
	}
	id, ok := obj[refKey].(IRString)
	if !ok {
		return Reference{}, false
	}
	return Reference{ID: string(id)}, true
}

// IsReferenceShape reports whether obj would decode as a Reference. Such
// objects cannot appear as literal data.
func IsReferenceShape(obj IRObject) bool {
	_, ok := referenceFromObject(obj)
	return ok
}

// ReferenceMap maps a lookup key to a service reference. Keys are unique.
type ReferenceMap map[string]Reference

// SortedKeys returns the keys in byte order.
func (m ReferenceMap) SortedKeys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Object converts the map into an IRObject of references, the form a
// locator definition stores as its argument.
func (m ReferenceMap) Object() IRObject {
	obj := make(IRObject, len(m))
	for k, ref := range m {
		obj[k] = ref
	}
	return obj
}

// References walks v and returns every Reference it contains, depth first,
// objects visited in sorted key order.
func References(v IRValue) []Reference {
	var refs []Reference
	var walk func(IRValue)
	walk = func(cur IRValue) {
		switch val := cur.(type) {
		case Reference:
			refs = append(refs, val)
		case IRArray:
			for _, elem := range val {
				walk(elem)
			}
		case IRObject:
			for _, k := range val.SortedKeys() {
				walk(val[k])
			}
		}
	}
	walk(v)
	return refs
}

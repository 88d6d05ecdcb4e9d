package versioned

import (
	"reflect"
	"sort"
)

// PropertyRegistry hands out dense PropertyIDs, starting at zero, the first
// time a (type, name) pair is seen. Identities are stable for the lifetime of
// the registry and are never removed. Not safe for concurrent use.
type PropertyRegistry struct {
	ids  map[PropertyKey]PropertyID
	keys []PropertyKey
}

// NewPropertyRegistry constructs an empty registry.
func NewPropertyRegistry() *PropertyRegistry {
	return &PropertyRegistry{ids: make(map[PropertyKey]PropertyID)}
}

// GetOrCreate returns the identity previously assigned to (typeKey, name) or
// allocates the next one.
func (r *PropertyRegistry) GetOrCreate(typeKey TypeKey, name string) PropertyID {
	key := PropertyKey{Type: typeKey, Name: name}
	if id, ok := r.ids[key]; ok {
		return id
	}
	if r.ids == nil {
		r.ids = make(map[PropertyKey]PropertyID)
	}
	id := PropertyID(len(r.keys))
	r.ids[key] = id
	r.keys = append(r.keys, key)
	return id
}

// Lookup returns the identity of (typeKey, name) without allocating one.
func (r *PropertyRegistry) Lookup(typeKey TypeKey, name string) (PropertyID, bool) {
	if r == nil {
		return 0, false
	}
	id, ok := r.ids[PropertyKey{Type: typeKey, Name: name}]
	return id, ok
}

// Describe maps an identity back to its (type, name) pair.
func (r *PropertyRegistry) Describe(id PropertyID) (PropertyKey, bool) {
	if r == nil || id < 0 || int(id) >= len(r.keys) {
		return PropertyKey{}, false
	}
	return r.keys[id], true
}

// Properties lists the registered properties of typeKey ordered by name.
func (r *PropertyRegistry) Properties(typeKey TypeKey) []PropertyKey {
	if r == nil {
		return nil
	}
	var out []PropertyKey
	for _, key := range r.keys {
		if key.Type == typeKey {
			out = append(out, key)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// Len returns the number of identities handed out so far.
func (r *PropertyRegistry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// TypeKeyOf derives a TypeKey from the dynamic type of v. Pointers are
// dereferenced so *T and T share property identities.
func TypeKeyOf(v any) TypeKey {
	if v == nil {
		return ""
	}
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.PkgPath() == "" {
		return TypeKey(t.String())
	}
	return TypeKey(t.PkgPath() + "." + t.Name())
}

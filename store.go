package versioned

import "github.com/goliatone/go-versioned/internal/clone"

type entryKey struct {
	object   ObjectID
	version  Version
	property PropertyID
}

// Layer reports which layer satisfied a read.
type Layer string

const (
	LayerOverlay Layer = "overlay"
	LayerBase    Layer = "base"
	LayerMiss    Layer = "miss"
)

// Store holds one value per (object, version, property) key. Reads of a
// non-base version fall back to base, never to another overlay. Values are
// kept as written, so a read returns the same reference that was stored.
// Not safe for concurrent use.
type Store struct {
	values  map[entryKey]any
	isolate bool
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// IsolateValues deep copies values on write and on every read, so neither
// the writer nor a reader can reach a stored entry through a shared slice,
// map or pointer. Reads then no longer return the written reference.
func IsolateValues() StoreOption {
	return func(s *Store) {
		s.isolate = true
	}
}

// NewStore constructs an empty Store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{values: make(map[entryKey]any)}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Isolated reports whether the store copies values in and out.
func (s *Store) Isolated() bool {
	return s.isolate
}

// Write inserts or overwrites the entry at the exact key.
func (s *Store) Write(object ObjectID, version Version, property PropertyID, value any) {
	if s.values == nil {
		s.values = make(map[entryKey]any)
	}
	s.values[entryKey{object: object, version: version, property: property}] = s.copy(value)
}

// copy detaches value when the store isolates values and returns it
// unchanged otherwise.
func (s *Store) copy(value any) any {
	if !s.isolate {
		return value
	}
	return clone.Value(value)
}

// Read returns the value stored at the exact key, or the base value when
// version is not Base and no overlay exists. A miss is reported with ok=false
// and is not an error; nothing is seeded on a miss.
func (s *Store) Read(object ObjectID, version Version, property PropertyID) (value any, ok bool) {
	value, layer := s.ReadLayer(object, version, property)
	return value, layer != LayerMiss
}

// ReadLayer behaves like Read and additionally reports the layer that
// satisfied the lookup.
func (s *Store) ReadLayer(object ObjectID, version Version, property PropertyID) (any, Layer) {
	if value, ok := s.values[entryKey{object: object, version: version, property: property}]; ok {
		if version == Base {
			return s.copy(value), LayerBase
		}
		return s.copy(value), LayerOverlay
	}
	if version == Base {
		return nil, LayerMiss
	}
	if value, ok := s.values[entryKey{object: object, version: Base, property: property}]; ok {
		return s.copy(value), LayerBase
	}
	return nil, LayerMiss
}

// Lookup reads the exact key only, without base fallback.
func (s *Store) Lookup(object ObjectID, version Version, property PropertyID) (any, bool) {
	value, ok := s.values[entryKey{object: object, version: version, property: property}]
	if !ok {
		return nil, false
	}
	return s.copy(value), true
}

// Overlay returns the entries written for object under exactly version.
func (s *Store) Overlay(object ObjectID, version Version) map[PropertyID]any {
	out := map[PropertyID]any{}
	for key, value := range s.values {
		if key.object == object && key.version == version {
			out[key.property] = s.copy(value)
		}
	}
	return out
}

// Len returns the number of stored entries across all versions.
func (s *Store) Len() int {
	return len(s.values)
}

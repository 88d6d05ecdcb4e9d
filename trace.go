package versioned

import "encoding/json"

// Trace captures how a property read was resolved across the overlay and base
// layers.
type Trace struct {
	ObjectID ObjectID     `json:"object_id"`
	Property PropertyKey  `json:"property"`
	Version  Version      `json:"version"`
	Resolved Layer        `json:"resolved"`
	Value    any          `json:"value,omitempty"`
	Layers   []Provenance `json:"layers"`
}

// Provenance details what one layer held for the traced property.
type Provenance struct {
	Version Version `json:"version"`
	Layer   Layer   `json:"layer"`
	Value   any     `json:"value,omitempty"`
	Found   bool    `json:"found"`
}

// Trace resolves name on obj at the ambient version and records each layer
// consulted, strongest first.
func (s *Session) Trace(obj Versionable, name string) Trace {
	key := PropertyKey{Type: TypeKeyFor(obj), Name: name}
	id := s.propertyID(key.Type, name)
	object := obj.VersionID()
	version := s.Version()

	trace := Trace{
		ObjectID: object,
		Property: key,
		Version:  version,
		Resolved: LayerMiss,
	}
	if version != Base {
		value, found := s.store.Lookup(object, version, id)
		trace.Layers = append(trace.Layers, Provenance{Version: version, Layer: LayerOverlay, Value: value, Found: found})
	}
	value, found := s.store.Lookup(object, Base, id)
	trace.Layers = append(trace.Layers, Provenance{Version: Base, Layer: LayerBase, Value: value, Found: found})

	for _, layer := range trace.Layers {
		if layer.Found {
			trace.Resolved = layer.Layer
			trace.Value = layer.Value
			break
		}
	}
	return trace
}

// ToJSON serialises the trace for logging or transport.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a payload produced by ToJSON. Values decode
// with encoding/json defaults (numbers become float64).
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}

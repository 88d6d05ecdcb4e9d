package versioned

// Field is a typed accessor for one property of a Versionable type. The
// property identity is resolved once, when the field is declared, so accessor
// methods never look names up.
//
//	var nameField = versioned.NewField[string](session, versioned.TypeKeyOf(DataObject{}), "Name")
//
//	func (d *DataObject) Name() string     { return nameField.Get(d, d.name) }
//	func (d *DataObject) SetName(v string) { nameField.Set(d, v) }
type Field[T any] struct {
	session *Session
	key     PropertyKey
	id      PropertyID
}

// NewField registers name on typeKey and returns its accessor.
func NewField[T any](s *Session, typeKey TypeKey, name string) Field[T] {
	return Field[T]{
		session: s,
		key:     PropertyKey{Type: typeKey, Name: name},
		id:      s.propertyID(typeKey, name),
	}
}

// ID returns the resolved property identity.
func (f Field[T]) ID() PropertyID {
	return f.id
}

// Key returns the (type, name) pair the field was declared with.
func (f Field[T]) Key() PropertyKey {
	return f.key
}

// Set writes value at the ambient version.
func (f Field[T]) Set(obj Versionable, value T) {
	f.session.write(obj.VersionID(), f.key, f.id, value)
}

// Get returns the stored value at the ambient version, falling back to Base
// and then to underlying. underlying is never written back.
func (f Field[T]) Get(obj Versionable, underlying T) T {
	value, ok, err := f.Lookup(obj)
	if err != nil || !ok {
		return underlying
	}
	return value
}

// Lookup reports the stored value at the ambient version. ok is false on a
// miss; err wraps ErrValueType when the stored value is not a T.
func (f Field[T]) Lookup(obj Versionable) (value T, ok bool, err error) {
	raw, layer := f.session.read(obj.VersionID(), f.key, f.id)
	if layer == LayerMiss {
		return value, false, nil
	}
	if raw == nil {
		return value, true, nil
	}
	typed, isT := raw.(T)
	if !isT {
		return value, false, valueTypeError(f.key, typeName[T](), raw)
	}
	return typed, true, nil
}

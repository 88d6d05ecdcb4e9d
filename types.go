package versioned

import (
	"fmt"

	"github.com/google/uuid"
)

// Version identifies a draft layer. Base (0) is the authoritative layer that
// every other version falls back to.
type Version int

// Base is the ground-truth version, always committed.
const Base Version = 0

// IsBase reports whether v is the base version.
func (v Version) IsBase() bool {
	return v == Base
}

func (v Version) String() string {
	if v == Base {
		return "base"
	}
	return fmt.Sprintf("v%d", int(v))
}

// ObjectID is the opaque identity assigned once per object instance. It is
// only ever used as a lookup key.
type ObjectID = uuid.UUID

// NewObjectID returns a fresh random object identity.
func NewObjectID() ObjectID {
	return uuid.New()
}

// PropertyID is the dense integer identity of a (type, property name) pair.
type PropertyID int

// TypeKey names the declaring type of a property.
type TypeKey string

// PropertyKey is the pair a PropertyID is assigned to.
type PropertyKey struct {
	Type TypeKey `json:"type"`
	Name string  `json:"name"`
}

func (k PropertyKey) String() string {
	return fmt.Sprintf("%s.%s", k.Type, k.Name)
}

// Versionable is implemented by every type whose fields are routed through a
// Session.
type Versionable interface {
	VersionID() ObjectID
}

// Object is an embeddable Versionable carrying an identity fixed at
// construction.
type Object struct {
	id ObjectID
}

// NewObject allocates an Object with a fresh identity.
func NewObject() Object {
	return Object{id: NewObjectID()}
}

// NewObjectWithID allocates an Object around a caller supplied identity.
func NewObjectWithID(id ObjectID) Object {
	return Object{id: id}
}

// VersionID implements Versionable.
func (o Object) VersionID() ObjectID {
	return o.id
}

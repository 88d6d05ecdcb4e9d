package activity

import (
	"strconv"
	"strings"
	"time"
)

// DefaultChannel is applied by the Emitter when an event carries none.
const DefaultChannel = "versioned"

const (
	VerbContextOpened   = "versioned.context.opened"
	VerbContextReleased = "versioned.context.released"
	VerbValueWritten    = "versioned.value.written"
)

const (
	// ContextObjectType is the object type of context lifecycle events.
	ContextObjectType = "versioned.context"
	// DefaultObjectType is used for value events whose type key is empty.
	DefaultObjectType = "versioned.object"
)

// VersionEventInput describes the common fields for version lifecycle events.
type VersionEventInput struct {
	ActorID    string
	TenantID   string
	ObjectID   string
	ObjectType string
	Property   string
	Version    int
	NewValue   any
	Channel    string
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildContextOpenedEvent describes a version becoming ambient.
func BuildContextOpenedEvent(input VersionEventInput) Event {
	input.ObjectID = ContextObjectID(input.Version)
	input.Property = ""
	return buildVersionEvent(VerbContextOpened, ContextObjectType, input)
}

// BuildContextReleasedEvent describes the release of the context that opened
// input.Version.
func BuildContextReleasedEvent(input VersionEventInput) Event {
	input.ObjectID = ContextObjectID(input.Version)
	input.Property = ""
	return buildVersionEvent(VerbContextReleased, ContextObjectType, input)
}

// BuildValueWrittenEvent describes a property write at some version. The
// written value travels in metadata under "new_value".
func BuildValueWrittenEvent(input VersionEventInput) Event {
	objectType := strings.TrimSpace(input.ObjectType)
	if objectType == "" {
		objectType = DefaultObjectType
	}
	return buildVersionEvent(VerbValueWritten, objectType, input)
}

// ContextObjectID is the object id context events use for version.
func ContextObjectID(version int) string {
	return "version/" + strconv.Itoa(version)
}

func buildVersionEvent(verb, objectType string, input VersionEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if input.NewValue != nil {
		if metadata == nil {
			metadata = map[string]any{}
		}
		metadata["new_value"] = input.NewValue
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: objectType,
		ObjectID:   strings.TrimSpace(input.ObjectID),
		Version:    input.Version,
		Property:   strings.TrimSpace(input.Property),
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

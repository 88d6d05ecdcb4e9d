// Package usersink forwards version activity to a go-users ActivitySink.
package usersink

import (
	"context"
	"strings"

	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/goliatone/go-versioned/pkg/activity"
	"github.com/google/uuid"
)

// Hook records version events in a go-users activity feed.
type Hook struct {
	Sink usertypes.ActivitySink
	// SkipContextEvents drops context open/release events and keeps only
	// value writes.
	SkipContextEvents bool
}

// Notify maps the event into an ActivityRecord and forwards it to the sink.
// The actor is recorded as both actor and user; ids that are not UUIDs map to
// uuid.Nil.
func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil {
		return nil
	}

	normalized := activity.NormalizeEvent(event)
	if normalized.Verb == "" || normalized.ObjectID == "" {
		return nil
	}
	if h.SkipContextEvents && normalized.IsContextEvent() {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	actor := parseUUID(normalized.ActorID)
	return h.Sink.Log(ctx, usertypes.ActivityRecord{
		ActorID:    actor,
		UserID:     actor,
		TenantID:   parseUUID(normalized.TenantID),
		Verb:       normalized.Verb,
		ObjectType: normalized.ObjectType,
		ObjectID:   normalized.ObjectID,
		Channel:    normalized.Channel,
		Data:       recordData(normalized),
		OccurredAt: normalized.OccurredAt,
	})
}

func recordData(event activity.Event) map[string]any {
	data := make(map[string]any, len(event.Metadata)+2)
	for key, value := range event.Metadata {
		data[key] = value
	}
	data["version"] = event.Version
	if event.Property != "" {
		data["property"] = event.Property
	}
	return data
}

func parseUUID(input string) uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(input))
	if err != nil {
		return uuid.Nil
	}
	return id
}

package versioned

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// dataObject mirrors the usual shape of a versioned type: plain fields hold
// construction defaults, accessors route through the session.
type dataObject struct {
	Object
	name    string
	counter int

	fields *dataFields
}

type dataFields struct {
	name    Field[string]
	counter Field[int]
}

func newDataFields(s *Session) *dataFields {
	key := TypeKeyOf(dataObject{})
	return &dataFields{
		name:    NewField[string](s, key, "Name"),
		counter: NewField[int](s, key, "Counter"),
	}
}

func newDataObject(fields *dataFields) *dataObject {
	return &dataObject{Object: NewObject(), fields: fields}
}

func (d *dataObject) Name() string     { return d.fields.name.Get(d, d.name) }
func (d *dataObject) SetName(v string) { d.fields.name.Set(d, v) }
func (d *dataObject) Counter() int     { return d.fields.counter.Get(d, d.counter) }
func (d *dataObject) SetCounter(v int) { d.fields.counter.Set(d, v) }

func loadFixture[T any](t *testing.T, name string) T {
	t.Helper()
	path := filepath.Join("testdata", name)
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read fixture %q: %v", name, err)
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("failed to unmarshal fixture %q: %v", name, err)
	}
	return out
}

package versioned

import "testing"

func TestPropertyRegistryAssignsDenseStableIDs(t *testing.T) {
	registry := NewPropertyRegistry()

	name := registry.GetOrCreate("plan.DataObject", "Name")
	counter := registry.GetOrCreate("plan.DataObject", "Counter")
	otherName := registry.GetOrCreate("plan.Other", "Name")

	if name != 0 || counter != 1 || otherName != 2 {
		t.Fatalf("expected ids 0,1,2 got %d,%d,%d", name, counter, otherName)
	}
	for i := 0; i < 3; i++ {
		if got := registry.GetOrCreate("plan.DataObject", "Name"); got != name {
			t.Fatalf("expected stable id %d, got %d", name, got)
		}
	}
	if registry.Len() != 3 {
		t.Fatalf("expected 3 identities, got %d", registry.Len())
	}
}

func TestPropertyRegistryLookupDoesNotAllocate(t *testing.T) {
	registry := NewPropertyRegistry()
	if _, ok := registry.Lookup("plan.DataObject", "Name"); ok {
		t.Fatalf("expected lookup miss")
	}
	if registry.Len() != 0 {
		t.Fatalf("expected lookup to leave registry empty")
	}

	id := registry.GetOrCreate("plan.DataObject", "Name")
	got, ok := registry.Lookup("plan.DataObject", "Name")
	if !ok || got != id {
		t.Fatalf("expected lookup hit %d, got %d (ok=%t)", id, got, ok)
	}
}

func TestPropertyRegistryDescribeAndProperties(t *testing.T) {
	registry := NewPropertyRegistry()
	registry.GetOrCreate("plan.DataObject", "Name")
	registry.GetOrCreate("plan.Other", "Title")
	counter := registry.GetOrCreate("plan.DataObject", "Counter")

	key, ok := registry.Describe(counter)
	if !ok || key.Type != "plan.DataObject" || key.Name != "Counter" {
		t.Fatalf("unexpected describe result %+v (ok=%t)", key, ok)
	}
	if key.String() != "plan.DataObject.Counter" {
		t.Fatalf("unexpected key string %q", key.String())
	}
	if _, ok := registry.Describe(99); ok {
		t.Fatalf("expected describe miss for unknown id")
	}
	if _, ok := registry.Describe(-1); ok {
		t.Fatalf("expected describe miss for negative id")
	}

	props := registry.Properties("plan.DataObject")
	if len(props) != 2 || props[0].Name != "Counter" || props[1].Name != "Name" {
		t.Fatalf("unexpected properties %+v", props)
	}
}

func TestTypeKeyOfStripsPointers(t *testing.T) {
	value := TypeKeyOf(dataObject{})
	pointer := TypeKeyOf(&dataObject{})
	if value != pointer {
		t.Fatalf("expected pointer and value keys to match, got %q and %q", value, pointer)
	}
	if value != "github.com/goliatone/go-versioned.dataObject" {
		t.Fatalf("unexpected type key %q", value)
	}
	if TypeKeyOf(nil) != "" {
		t.Fatalf("expected empty key for nil")
	}
	if TypeKeyOf(42) != "int" {
		t.Fatalf("expected builtin type name, got %q", TypeKeyOf(42))
	}
}

type keyedObject struct {
	Object
}

func (keyedObject) VersionTypeKey() TypeKey { return "custom.Keyed" }

func TestTypeKeyForPrefersExplicitKey(t *testing.T) {
	if got := TypeKeyFor(keyedObject{}); got != "custom.Keyed" {
		t.Fatalf("expected explicit key, got %q", got)
	}
	if got := TypeKeyFor(&dataObject{}); got != TypeKeyOf(dataObject{}) {
		t.Fatalf("expected reflected key, got %q", got)
	}
}
